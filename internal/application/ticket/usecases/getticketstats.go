package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/ticket/dto"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/biztime"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type GetTicketStatsQuery struct {
	Actor authorization.Identity
}

type GetTicketStatsUseCase struct {
	queryRepo ticket.QueryRepository
	logger    logger.Interface
}

func NewGetTicketStatsUseCase(queryRepo ticket.QueryRepository, logger logger.Interface) *GetTicketStatsUseCase {
	return &GetTicketStatsUseCase{queryRepo: queryRepo, logger: logger}
}

func (uc *GetTicketStatsUseCase) Execute(ctx context.Context, query GetTicketStatsQuery) (*dto.StatsDTO, error) {
	scope := ticket.ScopeFor(query.Actor)

	stats, err := uc.queryRepo.Stats(ctx, scope)
	if err != nil {
		uc.logger.Errorw("failed to get ticket stats", "actor", query.Actor.String(), "error", err)
		return nil, toAppError(err, "failed to get ticket stats")
	}
	byPriority, err := uc.queryRepo.PriorityDistribution(ctx, scope)
	if err != nil {
		return nil, toAppError(err, "failed to get priority distribution")
	}
	byStatus, err := uc.queryRepo.StatusDistribution(ctx, scope)
	if err != nil {
		return nil, toAppError(err, "failed to get status distribution")
	}

	return &dto.StatsDTO{
		Total:      stats.Total,
		Open:       stats.Open,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
		Alerts:     stats.Alerts,
		ByPriority: dto.ToBucketDTOs(byPriority),
		ByStatus:   dto.ToBucketDTOs(byStatus),
	}, nil
}

type GetTicketChartQuery struct {
	Actor authorization.Identity
	Days  int
}

// GetTicketChartUseCase builds the daily created-tickets series, split into
// active and completed, for the last N business days.
type GetTicketChartUseCase struct {
	queryRepo   ticket.QueryRepository
	defaultDays int
	logger      logger.Interface
}

func NewGetTicketChartUseCase(queryRepo ticket.QueryRepository, defaultDays int, logger logger.Interface) *GetTicketChartUseCase {
	if defaultDays <= 0 {
		defaultDays = constants.DefaultChartDays
	}
	return &GetTicketChartUseCase{queryRepo: queryRepo, defaultDays: defaultDays, logger: logger}
}

func (uc *GetTicketChartUseCase) Execute(ctx context.Context, query GetTicketChartQuery) ([]dto.DailyPointDTO, error) {
	days := query.Days
	if days <= 0 || days > 90 {
		days = uc.defaultDays
	}

	keys, since := biztime.LastDays(biztime.NowUTC(), days)
	points, err := uc.queryRepo.CreatedSince(ctx, ticket.ScopeFor(query.Actor), since)
	if err != nil {
		uc.logger.Errorw("failed to get ticket chart", "actor", query.Actor.String(), "error", err)
		return nil, toAppError(err, "failed to get ticket chart")
	}

	return dto.ToDailyPointDTOs(DailySeries(keys, points)), nil
}

// DailySeries buckets points into the given day keys. Days without tickets
// are present with zero counts; points outside the keys are ignored.
func DailySeries(keys []string, points []ticket.CreatedPoint) []ticket.DailyPoint {
	series := make([]ticket.DailyPoint, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		series[i].Day = k
		index[k] = i
	}

	for _, p := range points {
		i, ok := index[biztime.DayKey(p.CreatedAt)]
		if !ok {
			continue
		}
		if p.Status.IsCompleted() {
			series[i].Completed++
		} else {
			series[i].Active++
		}
	}
	return series
}
