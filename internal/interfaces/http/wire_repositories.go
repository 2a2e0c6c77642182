package http

import (
	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/infrastructure/repository"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

type repositories struct {
	userRepo       *repository.UserRepository
	resetRepo      *repository.PasswordResetRepository
	ticketRepo     *repository.TicketRepository
	queryRepo      *repository.TicketQueryRepository
	activityRepo   *repository.ActivityRepository
	attachmentRepo *repository.AttachmentRepository
	responseRepo   *repository.ResponseRepository
	txManager      *db.TransactionManager
}

func newRepositories(gdb *gorm.DB) *repositories {
	return &repositories{
		userRepo:       repository.NewUserRepository(gdb),
		resetRepo:      repository.NewPasswordResetRepository(gdb),
		ticketRepo:     repository.NewTicketRepository(gdb),
		queryRepo:      repository.NewTicketQueryRepository(gdb),
		activityRepo:   repository.NewActivityRepository(gdb),
		attachmentRepo: repository.NewAttachmentRepository(gdb),
		responseRepo:   repository.NewResponseRepository(gdb),
		txManager:      db.NewTransactionManager(gdb),
	}
}
