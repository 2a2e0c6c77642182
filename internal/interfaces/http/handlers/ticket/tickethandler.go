package ticket

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/tdesk-io/tdesk/internal/application/ticket/usecases"
	domain "github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/infrastructure/storage"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

const (
	attachmentsField  = "attachments"
	responsesSubdir   = "responses"
	maxFilesPerUpload = 10
)

// Uploader stores incoming files and removes them again when the mutation
// they belong to fails.
type Uploader interface {
	Save(u storage.Upload, subfolder string) (domain.AttachmentMetadata, error)
	RemoveAll(paths []string) int
}

type TicketHandler struct {
	createTicketUC   usecases.CreateTicketExecutor
	updateTicketUC   usecases.UpdateTicketExecutor
	updateStatusUC   usecases.UpdateTicketStatusExecutor
	assignTicketUC   usecases.AssignTicketExecutor
	deleteTicketUC   usecases.DeleteTicketExecutor
	addResponseUC    usecases.AddResponseExecutor
	getTicketUC      usecases.GetTicketExecutor
	listTicketsUC    usecases.ListTicketsExecutor
	statsUC          usecases.GetTicketStatsExecutor
	chartUC          usecases.GetTicketChartExecutor
	recentActivityUC usecases.ListRecentActivityExecutor
	uploader         Uploader
	logger           logger.Interface
}

// Executors groups the use cases the handler dispatches to.
type Executors struct {
	CreateTicket   usecases.CreateTicketExecutor
	UpdateTicket   usecases.UpdateTicketExecutor
	UpdateStatus   usecases.UpdateTicketStatusExecutor
	AssignTicket   usecases.AssignTicketExecutor
	DeleteTicket   usecases.DeleteTicketExecutor
	AddResponse    usecases.AddResponseExecutor
	GetTicket      usecases.GetTicketExecutor
	ListTickets    usecases.ListTicketsExecutor
	Stats          usecases.GetTicketStatsExecutor
	Chart          usecases.GetTicketChartExecutor
	RecentActivity usecases.ListRecentActivityExecutor
}

func NewTicketHandler(ex Executors, uploader Uploader, logger logger.Interface) *TicketHandler {
	return &TicketHandler{
		createTicketUC:   ex.CreateTicket,
		updateTicketUC:   ex.UpdateTicket,
		updateStatusUC:   ex.UpdateStatus,
		assignTicketUC:   ex.AssignTicket,
		deleteTicketUC:   ex.DeleteTicket,
		addResponseUC:    ex.AddResponse,
		getTicketUC:      ex.GetTicket,
		listTicketsUC:    ex.ListTickets,
		statsUC:          ex.Stats,
		chartUC:          ex.Chart,
		recentActivityUC: ex.RecentActivity,
		uploader:         uploader,
		logger:           logger,
	}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	attachments, err := h.saveUploads(c, "")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := req.ToCommand(actor)
	cmd.Attachments = attachments

	result, err := h.createTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.discard(attachments)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"ticket_id": result.TicketID}, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets handles GET /tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	h.list(c, usecases.ViewRecent, 0)
}

// ListBoard handles GET /tickets/board
func (h *TicketHandler) ListBoard(c *gin.Context) {
	h.list(c, usecases.ViewBoard, utils.QueryInt(c, "limit", 0))
}

// ListClosed handles GET /tickets/closed
func (h *TicketHandler) ListClosed(c *gin.Context) {
	h.list(c, usecases.ViewClosed, 0)
}

func (h *TicketHandler) list(c *gin.Context, view string, limit int) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		Actor: actor,
		View:  view,
		Limit: limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetStats handles GET /tickets/stats
func (h *TicketHandler) GetStats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.statsUC.Execute(c.Request.Context(), usecases.GetTicketStatsQuery{Actor: actor})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetChart handles GET /tickets/charts
func (h *TicketHandler) GetChart(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.chartUC.Execute(c.Request.Context(), usecases.GetTicketChartQuery{
		Actor: actor,
		Days:  utils.QueryInt(c, "days", 0),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListRecentActivity handles GET /tickets/activity
func (h *TicketHandler) ListRecentActivity(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.recentActivityUC.Execute(c.Request.Context(), usecases.ListRecentActivityQuery{
		Actor: actor,
		Limit: utils.QueryInt(c, "limit", 0),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTicket handles PATCH /tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), req.ToCommand(actor, ticketID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", gin.H{
		"ticket_id":      result.TicketID,
		"updated_fields": result.UpdatedFields,
	})
}

// UpdateStatus handles PATCH /tickets/:id/status
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateTicketStatusCommand{
		Actor:    actor,
		TicketID: ticketID,
		Status:   req.Status,
		Note:     req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Ticket status updated"
	if !result.Changed {
		message = "Ticket status unchanged"
	}
	utils.SuccessResponse(c, http.StatusOK, message, StatusChangeResponse{
		TicketID:  result.TicketID,
		OldStatus: result.OldStatus.String(),
		NewStatus: result.NewStatus.String(),
		Changed:   result.Changed,
	})
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
		AgentID:  req.AgentID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", AssignmentResponse{
		TicketID:   result.TicketID,
		AssigneeID: result.AssigneeID,
	})
}

// DeleteTicket handles DELETE /tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// AddResponse handles POST /tickets/:id/responses
func (h *TicketHandler) AddResponse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddResponseRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	attachments, err := h.saveUploads(c, responsesSubdir)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addResponseUC.Execute(c.Request.Context(), usecases.AddResponseCommand{
		Actor:       actor,
		TicketID:    ticketID,
		Text:        req.Text,
		Attachments: attachments,
	})
	if err != nil {
		h.discard(attachments)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"response_id": result.ResponseID}, "Response added successfully")
}

func (h *TicketHandler) actor(c *gin.Context) (authorization.Identity, bool) {
	id, ok := authorization.IdentityFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return authorization.Identity{}, false
	}
	return id, true
}

// saveUploads stores every file of a multipart request. JSON requests carry
// no files. On any failure the files already written are removed.
func (h *TicketHandler) saveUploads(c *gin.Context, subfolder string) ([]domain.AttachmentMetadata, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.NewValidationError("invalid multipart form")
	}
	files := form.File[attachmentsField]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxFilesPerUpload {
		return nil, errors.NewValidationError("too many attachments")
	}

	saved := make([]domain.AttachmentMetadata, 0, len(files))
	for _, fh := range files {
		meta, err := h.saveOne(fh, subfolder)
		if err != nil {
			h.discard(saved)
			return nil, err
		}
		saved = append(saved, meta)
	}
	return saved, nil
}

func (h *TicketHandler) saveOne(fh *multipart.FileHeader, subfolder string) (domain.AttachmentMetadata, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.AttachmentMetadata{}, errors.NewValidationError("unreadable attachment", fh.Filename)
	}
	defer f.Close()

	meta, err := h.uploader.Save(storage.Upload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}, subfolder)
	if err == nil {
		return meta, nil
	}

	switch {
	case stderrors.Is(err, storage.ErrFileTooLarge),
		stderrors.Is(err, storage.ErrExtensionNotAllowed),
		stderrors.Is(err, storage.ErrEmptyFile):
		return domain.AttachmentMetadata{}, errors.NewValidationError(err.Error(), fh.Filename)
	}
	h.logger.Errorw("failed to store attachment", "file", fh.Filename, "error", err)
	return domain.AttachmentMetadata{}, errors.WrapInternal("failed to store attachment", err)
}

func (h *TicketHandler) discard(items []domain.AttachmentMetadata) {
	if len(items) == 0 {
		return
	}
	paths := make([]string, 0, len(items))
	for _, m := range items {
		paths = append(paths, m.FilePath)
	}
	if failed := h.uploader.RemoveAll(paths); failed > 0 {
		h.logger.Warnw("orphaned attachment files left behind", "count", failed)
	}
}
