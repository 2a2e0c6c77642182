package ticket

import "errors"

var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrStatusChangeForbidden = errors.New("only admin or support can change ticket status")
	ErrInvalidStatus         = errors.New("invalid ticket status")
	ErrInvalidPriority       = errors.New("invalid priority")
	ErrNoFieldsToUpdate      = errors.New("no fields supplied")
	ErrInvalidAttachment     = errors.New("invalid attachment metadata")
)
