package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/biztime"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// CleanupPasswordResetsUseCase purges used and expired recovery grants.
// It runs as a scheduler batch job.
type CleanupPasswordResetsUseCase struct {
	resetRepo user.PasswordResetRepository
	logger    logger.Interface
}

func NewCleanupPasswordResetsUseCase(resetRepo user.PasswordResetRepository, logger logger.Interface) *CleanupPasswordResetsUseCase {
	return &CleanupPasswordResetsUseCase{resetRepo: resetRepo, logger: logger}
}

func (uc *CleanupPasswordResetsUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.resetRepo.DeleteStale(ctx, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("failed to purge password resets", "error", err)
		return 0, err
	}
	return int(n), nil
}
