package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/ticket/dto"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type ListRecentActivityQuery struct {
	Actor authorization.Identity
	Limit int
}

type ListRecentActivityUseCase struct {
	activityRepo ticket.ActivityRepository
	logger       logger.Interface
}

func NewListRecentActivityUseCase(activityRepo ticket.ActivityRepository, logger logger.Interface) *ListRecentActivityUseCase {
	return &ListRecentActivityUseCase{activityRepo: activityRepo, logger: logger}
}

func (uc *ListRecentActivityUseCase) Execute(ctx context.Context, query ListRecentActivityQuery) ([]dto.ActivityDTO, error) {
	entries, err := uc.activityRepo.Recent(ctx, ticket.ScopeFor(query.Actor), query.Limit)
	if err != nil {
		if optional(err) {
			uc.logger.Warnw("activity table not found, serving empty feed")
			return dto.ToActivityDTOs(nil), nil
		}
		uc.logger.Errorw("failed to list recent activity", "actor", query.Actor.String(), "error", err)
		return nil, toAppError(err, "failed to list recent activity")
	}
	return dto.ToActivityDTOs(entries), nil
}
