package service

import (
	"context"
	"fmt"
	"salonbook/internal/domains/booking/model"
	"salonbook/internal/domains/booking/model/dto"
	providerModel "salonbook/internal/domains/provider/model"
	"salonbook/shared"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	"salonbook/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) GetCalendarView(ctx context.Context, date time.Time, providerID string, requester model.Requester) (res dto.CalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCalendarView")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	dayStart, dayEnd := timezone.DayBounds(date)

	filter := gDto.NewFilterGroup(
		gDto.Filter{ArgName: "day_start", Field: model.FieldStartDateTime, Value: dayStart, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		gDto.Filter{ArgName: "day_end", Field: model.FieldStartDateTime, Value: dayEnd, Operator: gDto.FilterOperatorLess, Table: model.TableName},
	)

	for i, status := range model.InactiveStatuses {
		filter = filter.Add(gDto.Filter{
			ArgName:  fmt.Sprintf("inactive_status_%d", i),
			Field:    model.FieldStatus,
			Value:    status,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	if providerID != constant.Empty {
		filter = filter.Add(bookingFilter(model.FieldProviderID, providerID))
	} else {
		owner, err := s.ownerFilter(ctx, requester)
		if err != nil {
			return res, err
		}

		filter = filter.Add(owner)
	}

	details, err := s.repo.GetAllDetails(ctx, gDto.QueryParams{SortBy: model.FieldStartDateTime, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get calendar bookings")

		return res, fmt.Errorf("failed to get calendar bookings: %w", err)
	}

	res.Date = dayStart.Format(constant.DateOnlyFormat)
	res.Bookings = make([]dto.BookingResponse, len(details))
	bookings := make([]model.Booking, len(details))
	totalMinutes := 0

	for i, detail := range details {
		res.Bookings[i].FromDetail(detail)
		res.Bookings[i].HideContactFrom(requester)
		bookings[i] = detail.Booking
		totalMinutes += detail.DurationMinutes
	}

	res.TotalBookings = len(details)
	res.TotalHours = shared.Round(float64(totalMinutes)/constant.MinutesPerHour, 2) //nolint:mnd
	res.AvailableSlots = s.hourlySlots(dayStart, bookings, s.clock.Now())

	return res, nil
}

// hourlySlots is the coarse calendar grid: whole hours between the configured
// bounds that are neither covered by a booking nor already started.
func (s *serviceImpl) hourlySlots(dayStart time.Time, bookings []model.Booking, now time.Time) []string {
	slots := []string{}

	for hour := s.cfg.Booking.CalendarStartHour; hour < s.cfg.Booking.CalendarEndHour; hour++ {
		slotStart := dayStart.Add(time.Duration(hour) * time.Hour)
		slotEnd := slotStart.Add(time.Hour)

		if slotStart.Before(now) || overlapsAny(bookings, slotStart, slotEnd) {
			continue
		}

		slots = append(slots, slotStart.Format(constant.TimeOfDayFormat))
	}

	return slots
}

// ownerFilter restricts listings to what the requester owns. Admins are unscoped,
// provider accounts see their provider's bookings and everyone else their own.
func (s *serviceImpl) ownerFilter(ctx context.Context, requester model.Requester) (gDto.FilterGroup, error) {
	if requester.IsAdmin() {
		return gDto.NewFilterGroup(), nil
	}

	if requester.IsProvider() {
		provider, err := s.providerRepo.Get(ctx, gDto.NewFilterGroup(gDto.Filter{
			Field:    providerModel.FieldUserID,
			Value:    requester.UserID,
			Operator: gDto.FilterOperatorEq,
			Table:    providerModel.TableName,
		}))
		if err != nil {
			log.Error().Err(err).Msg("failed to get requester provider")

			return gDto.FilterGroup{}, fmt.Errorf("failed to get requester provider: %w", err)
		}

		if provider.ID != constant.Empty {
			return gDto.NewFilterGroup(bookingFilter(model.FieldProviderID, provider.ID)), nil
		}
	}

	return gDto.NewFilterGroup(bookingFilter(model.FieldCustomerID, requester.UserID)), nil
}
