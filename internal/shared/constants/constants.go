package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Database table names
	TableUsers                     = "users"
	TableTickets                   = "tickets"
	TableTicketActivity            = "ticket_activity"
	TableTicketAttachments         = "ticket_attachments"
	TableTicketResponses           = "ticket_responses"
	TableTicketResponseAttachments = "ticket_response_attachments"
	TablePasswordResets            = "password_resets"

	// Read model limits
	TicketListLimit     = 50
	BoardMinLimit       = 50
	BoardMaxLimit       = 500
	ClosedListLimit     = 200
	RecentActivityLimit = 6
	DetailActivityLimit = 20
	DefaultChartDays    = 14

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgTicketNotFound      = "ticket not found"
)
