package email

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type stubSender struct {
	sent []*gomail.Message
	err  error
}

func (s *stubSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func TestResetLink(t *testing.T) {
	link := ResetLink("http://desk.local/", "abc", "t o+k")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reset", u.Path)
	assert.Equal(t, "abc", u.Query().Get("selector"))
	assert.Equal(t, "t o+k", u.Query().Get("token"))
}

func TestSendPasswordReset(t *testing.T) {
	msg := PasswordResetMessage{To: "carla@example.com", Name: "Carla", Selector: "s", Token: "t", TTL: 30 * time.Minute}

	t.Run("sends through smtp", func(t *testing.T) {
		stub := &stubSender{}
		svc := &SMTPEmailService{config: SMTPConfig{Host: "smtp.local", AppName: "Desk"}, dialer: stub, logger: logger.NewDiscard()}
		require.NoError(t, svc.SendPasswordReset(context.Background(), msg))
		require.Len(t, stub.sent, 1)
		assert.Equal(t, []string{"carla@example.com"}, stub.sent[0].GetHeader("To"))
	})

	t.Run("delivery failure is not surfaced", func(t *testing.T) {
		stub := &stubSender{err: errors.New("connection refused")}
		svc := &SMTPEmailService{config: SMTPConfig{Host: "smtp.local"}, dialer: stub, logger: logger.NewDiscard()}
		assert.NoError(t, svc.SendPasswordReset(context.Background(), msg))
	})

	t.Run("unconfigured host only logs", func(t *testing.T) {
		stub := &stubSender{}
		svc := &SMTPEmailService{dialer: stub, logger: logger.NewDiscard()}
		assert.NoError(t, svc.SendPasswordReset(context.Background(), msg))
		assert.Empty(t, stub.sent)
	})
}
