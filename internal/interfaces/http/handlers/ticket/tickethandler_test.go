package ticket

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "github.com/tdesk-io/tdesk/internal/application/ticket/dto"
	"github.com/tdesk-io/tdesk/internal/application/ticket/usecases"
	domain "github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/infrastructure/storage"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/handlers/testutil"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

type mockCreateTicketUC struct {
	got    usecases.CreateTicketCommand
	result *usecases.CreateTicketResult
	err    error
}

func (m *mockCreateTicketUC) Execute(_ context.Context, cmd usecases.CreateTicketCommand) (*usecases.CreateTicketResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockUpdateStatusUC struct {
	got    usecases.UpdateTicketStatusCommand
	result *usecases.UpdateTicketStatusResult
	err    error
}

func (m *mockUpdateStatusUC) Execute(_ context.Context, cmd usecases.UpdateTicketStatusCommand) (*usecases.UpdateTicketStatusResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAssignTicketUC struct {
	got    usecases.AssignTicketCommand
	result *usecases.AssignTicketResult
	err    error
}

func (m *mockAssignTicketUC) Execute(_ context.Context, cmd usecases.AssignTicketCommand) (*usecases.AssignTicketResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockDeleteTicketUC struct {
	err error
}

func (m *mockDeleteTicketUC) Execute(_ context.Context, _ usecases.DeleteTicketCommand) error {
	return m.err
}

type mockAddResponseUC struct {
	got    usecases.AddResponseCommand
	result *usecases.AddResponseResult
	err    error
}

func (m *mockAddResponseUC) Execute(_ context.Context, cmd usecases.AddResponseCommand) (*usecases.AddResponseResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *ticketdto.TicketDetailsDTO
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*ticketdto.TicketDetailsDTO, error) {
	return m.result, m.err
}

type mockListTicketsUC struct {
	got    usecases.ListTicketsQuery
	result []ticketdto.TicketDTO
	err    error
}

func (m *mockListTicketsUC) Execute(_ context.Context, q usecases.ListTicketsQuery) ([]ticketdto.TicketDTO, error) {
	m.got = q
	return m.result, m.err
}

type mockChartUC struct {
	got usecases.GetTicketChartQuery
}

func (m *mockChartUC) Execute(_ context.Context, q usecases.GetTicketChartQuery) ([]ticketdto.DailyPointDTO, error) {
	m.got = q
	return []ticketdto.DailyPointDTO{}, nil
}

type fakeUploader struct {
	saved   []string
	removed []string
	err     error
}

func (f *fakeUploader) Save(u storage.Upload, subfolder string) (domain.AttachmentMetadata, error) {
	if f.err != nil {
		return domain.AttachmentMetadata{}, f.err
	}
	path := "uploads/attachments/" + u.Name
	if subfolder != "" {
		path = "uploads/attachments/" + subfolder + "/" + u.Name
	}
	f.saved = append(f.saved, path)
	return domain.AttachmentMetadata{
		OriginalName: u.Name,
		StoredName:   u.Name,
		FilePath:     path,
		FileSize:     u.Size,
	}, nil
}

func (f *fakeUploader) RemoveAll(paths []string) int {
	f.removed = append(f.removed, paths...)
	return 0
}

func newTestTicketHandler(ex Executors, up *fakeUploader) *TicketHandler {
	if up == nil {
		up = &fakeUploader{}
	}
	return NewTicketHandler(ex, up, testutil.NewMockLogger())
}

func TestTicketHandler_CreateTicket_JSON(t *testing.T) {
	uc := &mockCreateTicketUC{result: &usecases.CreateTicketResult{TicketID: 7}}
	h := newTestTicketHandler(Executors{CreateTicket: uc}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", map[string]string{
		"title":       "Printer jam",
		"category":    "Hardware",
		"priority":    "high",
		"description": "Paper stuck in tray 2",
	})
	testutil.SetAuthContext(c, 3, authorization.RoleClient)

	h.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), uc.got.Actor.UserID)
	assert.Equal(t, "high", uc.got.Priority)
	assert.Empty(t, uc.got.Attachments)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"ticket_id":7}`, string(resp.Data))
}

func TestTicketHandler_CreateTicket_BlankPriorityReachesUseCase(t *testing.T) {
	uc := &mockCreateTicketUC{result: &usecases.CreateTicketResult{TicketID: 8}}
	h := newTestTicketHandler(Executors{CreateTicket: uc}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", map[string]string{
		"title":       "VPN drops",
		"category":    "Network",
		"description": "Disconnects every hour",
	})
	testutil.SetAuthContext(c, 3, authorization.RoleClient)

	h.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "VPN drops", uc.got.Title)
	assert.Empty(t, uc.got.Priority)
}

func TestTicketHandler_CreateTicket_Multipart(t *testing.T) {
	uc := &mockCreateTicketUC{result: &usecases.CreateTicketResult{TicketID: 1}}
	up := &fakeUploader{}
	h := newTestTicketHandler(Executors{CreateTicket: uc}, up)

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"title": "VPN", "category": "Network", "priority": "low", "description": "Drops hourly"},
		testutil.File{Field: "attachments", Name: "trace.txt", Content: []byte("log")},
		testutil.File{Field: "attachments", Name: "shot.png", Content: []byte("png")},
	)
	testutil.SetAuthContext(c, 3, authorization.RoleClient)

	h.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, uc.got.Attachments, 2)
	assert.Equal(t, "trace.txt", uc.got.Attachments[0].OriginalName)
	assert.Equal(t, []string{"uploads/attachments/trace.txt", "uploads/attachments/shot.png"}, up.saved)
	assert.Empty(t, up.removed)
}

func TestTicketHandler_CreateTicket_FailureRemovesUploads(t *testing.T) {
	uc := &mockCreateTicketUC{err: errors.NewValidationError("invalid priority", "urgent")}
	up := &fakeUploader{}
	h := newTestTicketHandler(Executors{CreateTicket: uc}, up)

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"title": "VPN", "category": "Network", "priority": "urgent", "description": "Drops"},
		testutil.File{Field: "attachments", Name: "trace.txt", Content: []byte("log")},
	)
	testutil.SetAuthContext(c, 3, authorization.RoleClient)

	h.CreateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, up.saved, up.removed)
}

func TestTicketHandler_CreateTicket_RejectedUpload(t *testing.T) {
	uc := &mockCreateTicketUC{}
	h := newTestTicketHandler(Executors{CreateTicket: uc}, &fakeUploader{err: storage.ErrExtensionNotAllowed})

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets",
		map[string]string{"title": "VPN", "category": "Network", "priority": "low", "description": "Drops"},
		testutil.File{Field: "attachments", Name: "setup.exe", Content: []byte("MZ")},
	)
	testutil.SetAuthContext(c, 3, authorization.RoleClient)

	h.CreateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
	assert.Equal(t, "setup.exe", resp.Error.Details)
	assert.Zero(t, uc.got.Actor.UserID, "use case must not run")
}

func TestTicketHandler_CreateTicket_BindingError(t *testing.T) {
	h := newTestTicketHandler(Executors{CreateTicket: &mockCreateTicketUC{}}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/tickets", map[string]string{"title": "only a title"})
	testutil.SetAuthContext(c, 3, authorization.RoleClient)

	h.CreateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
}

func TestTicketHandler_RequiresIdentity(t *testing.T) {
	h := newTestTicketHandler(Executors{ListTickets: &mockListTicketsUC{}}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets", nil)
	h.ListTickets(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTicketHandler_ListViews(t *testing.T) {
	uc := &mockListTicketsUC{result: []ticketdto.TicketDTO{{ID: 1, Title: "a"}}}
	h := newTestTicketHandler(Executors{ListTickets: uc}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/board", nil)
	testutil.SetQueryParams(c, map[string]string{"limit": "120"})
	testutil.SetAuthContext(c, 2, authorization.RoleSupport)
	h.ListBoard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ViewBoard, uc.got.View)
	assert.Equal(t, 120, uc.got.Limit)
	assert.Equal(t, authorization.RoleSupport, uc.got.Actor.Role)

	c, w = testutil.NewTestContext(http.MethodGet, "/tickets/closed", nil)
	testutil.SetAuthContext(c, 2, authorization.RoleSupport)
	h.ListClosed(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ViewClosed, uc.got.View)
	assert.Zero(t, uc.got.Limit)
}

func TestTicketHandler_GetChart_PassesDays(t *testing.T) {
	uc := &mockChartUC{}
	h := newTestTicketHandler(Executors{Chart: uc}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/tickets/charts", nil)
	testutil.SetQueryParams(c, map[string]string{"days": "14"})
	testutil.SetAuthContext(c, 1, authorization.RoleAdmin)
	h.GetChart(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 14, uc.got.Days)
}

func TestTicketHandler_GetTicket(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		uc         *mockGetTicketUC
		wantStatus int
	}{
		{"found", "5", &mockGetTicketUC{result: &ticketdto.TicketDetailsDTO{TicketDTO: ticketdto.TicketDTO{ID: 5}}}, http.StatusOK},
		{"bad id", "abc", &mockGetTicketUC{}, http.StatusBadRequest},
		{"zero id", "0", &mockGetTicketUC{}, http.StatusBadRequest},
		{"not visible", "5", &mockGetTicketUC{err: errors.NewNotFoundError(constants.ErrMsgTicketNotFound)}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestTicketHandler(Executors{GetTicket: tt.uc}, nil)
			c, w := testutil.NewTestContext(http.MethodGet, "/tickets/"+tt.id, nil)
			testutil.SetURLParam(c, "id", tt.id)
			testutil.SetAuthContext(c, 4, authorization.RoleClient)

			h.GetTicket(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTicketHandler_UpdateStatus(t *testing.T) {
	uc := &mockUpdateStatusUC{result: &usecases.UpdateTicketStatusResult{
		TicketID:  9,
		OldStatus: vo.StatusOpen,
		NewStatus: vo.StatusInProgress,
		Changed:   true,
	}}
	h := newTestTicketHandler(Executors{UpdateStatus: uc}, nil)

	c, w := testutil.NewTestContext(http.MethodPatch, "/tickets/9/status", map[string]string{"status": "in_progress"})
	testutil.SetURLParam(c, "id", "9")
	testutil.SetAuthContext(c, 2, authorization.RoleSupport)
	h.UpdateStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", uc.got.Status)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.JSONEq(t, `{"ticket_id":9,"old_status":"open","new_status":"in_progress","changed":true}`, string(resp.Data))
}

func TestTicketHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"forbidden", errors.NewForbiddenError("only admins can assign tickets"), http.StatusForbidden, "only admins can assign tickets"},
		{"validation", errors.NewValidationError("agent must be admin or support"), http.StatusBadRequest, "agent must be admin or support"},
		{"storage failure hides details", errors.WrapInternal("failed to assign ticket", stderrors.New("deadlock")), http.StatusInternalServerError, constants.ErrMsgInternalServerError},
		{"raw error", stderrors.New("boom"), http.StatusInternalServerError, constants.ErrMsgInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestTicketHandler(Executors{AssignTicket: &mockAssignTicketUC{err: tt.err}}, nil)
			c, w := testutil.NewTestContext(http.MethodPost, "/tickets/3/assign", map[string]uint{"agent_id": 2})
			testutil.SetURLParam(c, "id", "3")
			testutil.SetAuthContext(c, 1, authorization.RoleAdmin)

			h.AssignTicket(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestTicketHandler_DeleteTicket(t *testing.T) {
	h := newTestTicketHandler(Executors{DeleteTicket: &mockDeleteTicketUC{}}, nil)

	c, w := testutil.NewTestContext(http.MethodDelete, "/tickets/3", nil)
	testutil.SetURLParam(c, "id", "3")
	testutil.SetAuthContext(c, 1, authorization.RoleAdmin)
	h.DeleteTicket(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTicketHandler_AddResponse_UsesResponsesFolder(t *testing.T) {
	uc := &mockAddResponseUC{result: &usecases.AddResponseResult{ResponseID: 11}}
	up := &fakeUploader{}
	h := newTestTicketHandler(Executors{AddResponse: uc}, up)

	c, w := testutil.NewMultipartContext(http.MethodPost, "/tickets/3/responses",
		map[string]string{"response_text": "Replaced the toner"},
		testutil.File{Field: "attachments", Name: "receipt.pdf", Content: []byte("%PDF")},
	)
	testutil.SetURLParam(c, "id", "3")
	testutil.SetAuthContext(c, 2, authorization.RoleSupport)
	h.AddResponse(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), uc.got.TicketID)
	assert.Equal(t, []string{"uploads/attachments/responses/receipt.pdf"}, up.saved)
	require.Len(t, uc.got.Attachments, 1)
}
