package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database/dbtest"
	"github.com/tdesk-io/tdesk/internal/infrastructure/email"
	"github.com/tdesk-io/tdesk/internal/infrastructure/repository"
	"github.com/tdesk-io/tdesk/internal/infrastructure/token"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// fakeLimiter allows max attempts per key and records resets.
type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	resets []string
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int)}
}

func (l *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	l.counts[key]++
	return l.counts[key] <= limit, nil
}

func (l *fakeLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, key)
	l.resets = append(l.resets, key)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.PasswordResetMessage
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, msg email.PasswordResetMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last(t *testing.T) email.PasswordResetMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type harness struct {
	gdb     *gorm.DB
	tm      *db.TransactionManager
	users   *repository.UserRepository
	resets  *repository.PasswordResetRepository
	tickets *repository.TicketRepository
	hasher  *auth.BcryptPasswordHasher
	jwt     *auth.JWTService
	limiter *fakeLimiter
	mailer  *fakeMailer
	log     logger.Interface
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := dbtest.Open(t)
	return &harness{
		gdb:     gdb,
		tm:      db.NewTransactionManager(gdb),
		users:   repository.NewUserRepository(gdb),
		resets:  repository.NewPasswordResetRepository(gdb),
		tickets: repository.NewTicketRepository(gdb),
		hasher:  auth.NewBcryptPasswordHasher(bcrypt.MinCost),
		jwt:     auth.NewJWTService("test-secret", "tdesk", 30),
		limiter: newFakeLimiter(),
		mailer:  &fakeMailer{},
		log:     logger.NewDiscard(),
	}
}

// account stores a user whose password is "Passw0rd!".
func (h *harness) account(t *testing.T, name, addr string, role authorization.UserRole) authorization.Identity {
	t.Helper()
	hash, err := h.hasher.Hash("Passw0rd!")
	require.NoError(t, err)
	u, err := user.NewUser(name, addr, hash, role)
	require.NoError(t, err)
	require.NoError(t, h.users.Create(context.Background(), u))
	return u.Identity()
}

func (h *harness) loginUseCase(limit Limit) *LoginUseCase {
	return NewLoginUseCase(h.users, h.hasher, h.jwt, h.limiter, limit, h.log)
}

func (h *harness) requestResetUseCase(limit Limit, ttl time.Duration) *RequestPasswordResetUseCase {
	return NewRequestPasswordResetUseCase(h.users, h.resets, h.hasher, token.NewGenerator(), h.mailer, h.limiter, limit, ttl, h.tm, h.log)
}

func (h *harness) resetUseCase() *ResetPasswordUseCase {
	return NewResetPasswordUseCase(h.users, h.resets, h.hasher, h.tm, h.log)
}
