package service

import (
	"context"
	"fmt"
	"salonbook/internal/domains/booking/model"
	"salonbook/internal/domains/booking/model/dto"
	"salonbook/shared"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func (s *serviceImpl) GetBookingStats(ctx context.Context, requester model.Requester) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookingStats")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	owner, err := s.ownerFilter(ctx, requester)
	if err != nil {
		return res, err
	}

	upcoming := gDto.NewFilterGroup(
		owner,
		gDto.Filter{ArgName: "upcoming_from", Field: model.FieldStartDateTime, Value: s.clock.Now(), Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.StatusStrings(model.UpcomingStatuses), Operator: gDto.FilterOperatorIn, Table: model.TableName},
	)

	group, gctx := errgroup.WithContext(ctx)

	counts := []struct {
		dest   *int
		filter gDto.FilterGroup
	}{
		{&res.Total, owner},
		{&res.Completed, gDto.NewFilterGroup(owner, bookingFilter(model.FieldStatus, model.StatusCompleted))},
		{&res.Cancelled, gDto.NewFilterGroup(owner, bookingFilter(model.FieldStatus, model.StatusCancelled))},
		{&res.Upcoming, upcoming},
	}

	for _, count := range counts {
		group.Go(func() error {
			total, err := s.repo.Count(gctx, count.filter)
			if err != nil {
				return err //nolint:wrapcheck
			}

			*count.dest = total

			return nil
		})
	}

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to count booking stats")

		return res, fmt.Errorf("failed to count booking stats: %w", err)
	}

	if res.Total > 0 {
		res.CompletionRate = shared.Round(float64(res.Completed)/float64(res.Total)*100, 2) //nolint:mnd
	}

	return res, nil
}
