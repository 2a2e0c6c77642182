package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	AppName     string
	BaseURL     string // Base URL for email links (e.g., "http://localhost:8080")
}

// PasswordResetMessage is the content of one recovery mail.
type PasswordResetMessage struct {
	To       string
	Name     string
	Selector string
	Token    string
	TTL      time.Duration
}

// ResetLink builds the recovery URL carrying selector and token.
func ResetLink(baseURL, selector, token string) string {
	q := url.Values{}
	q.Set("selector", selector)
	q.Set("token", token)
	return strings.TrimRight(baseURL, "/") + "/reset?" + q.Encode()
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer sender
	logger logger.Interface
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger.NewLogger().With("component", "email.smtp"),
	}
}

// SendPasswordReset mails the recovery link. Delivery failures are logged
// together with the link and never returned.
func (s *SMTPEmailService) SendPasswordReset(ctx context.Context, msg PasswordResetMessage) error {
	link := ResetLink(s.config.BaseURL, msg.Selector, msg.Token)
	subject := fmt.Sprintf("%s: password recovery", s.config.AppName)
	body := fmt.Sprintf(`Hello %s,

We received a request to reset your password on %s.
Use the link below (valid for %d minutes):
%s

If you did not make this request, ignore this message.

The %s team
`, msg.Name, s.config.AppName, int(msg.TTL.Minutes()), link, s.config.AppName)

	if s.config.Host == "" {
		s.logger.Warnw("smtp not configured, password reset link logged", "email", msg.To, "link", link)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("Reply-To", s.config.FromAddress)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Errorw("failed to send password reset email, link logged",
			"email", msg.To,
			"link", link,
			"error", err)
		return nil
	}

	s.logger.Infow("password reset email sent", "email", msg.To)
	return nil
}
