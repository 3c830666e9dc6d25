package service

import (
	"context"
	"fmt"
	"salonbook/internal/domains/booking/model"
	"salonbook/internal/domains/booking/model/dto"
	catalogModel "salonbook/internal/domains/catalog/model"
	providerModel "salonbook/internal/domains/provider/model"
	"salonbook/shared"
	"salonbook/shared/constant"
	"salonbook/shared/failure"
	"salonbook/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) GetAvailableTimeSlots(ctx context.Context, providerID, serviceID string, date time.Time) (res dto.TimeSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailableTimeSlots")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	day := timezone.StartOfDay(date)

	res.Date = day.Format(constant.DateOnlyFormat)
	res.TimeSlots = []dto.TimeSlot{}
	res.SlotDuration = s.cfg.Booking.DefaultSlotMinutes

	if serviceID != constant.Empty {
		service, err := s.catalogRepo.Get(ctx, shared.FilterByID(serviceID, catalogModel.FieldID, catalogModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get service")

			return res, fmt.Errorf("failed to get service: %w", err)
		}

		if service.ID == constant.Empty {
			return res, failure.NotFound(msgServiceNotFound) // nolint:wrapcheck
		}

		if service.DurationMinutes > 0 {
			res.SlotDuration = service.DurationMinutes
		}
	}

	hours, ok, err := s.providerRepo.FindActiveWorkingHours(ctx, providerID, day.Weekday())
	if err != nil {
		log.Error().Err(err).Msg("failed to get working hours")

		return res, fmt.Errorf("failed to get working hours: %w", err)
	}

	if !ok {
		return res, nil
	}

	window, err := hours.On(day)
	if err != nil {
		log.Error().Err(err).Str("providerID", providerID).Msg("invalid working hours")

		return res, fmt.Errorf("invalid working hours: %w", err)
	}

	dayStart, dayEnd := timezone.DayBounds(day)

	booked, err := s.repo.FindOverlapping(ctx, model.OverlapQuery{
		ProviderID: providerID,
		Start:      dayStart,
		End:        dayEnd,
		Statuses:   []model.Status{model.StatusConfirmed},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to find confirmed bookings")

		return res, fmt.Errorf("failed to find confirmed bookings: %w", err)
	}

	res.TimeSlots = buildTimeSlots(window, time.Duration(res.SlotDuration)*time.Minute, booked)
	res.Available = len(res.TimeSlots) > 0

	return res, nil
}

// buildTimeSlots walks the window in duration steps. A step touching the break
// moves the cursor to the break end; steps overlapping a booking are dropped.
func buildTimeSlots(window providerModel.Window, duration time.Duration, booked []model.Booking) []dto.TimeSlot {
	slots := []dto.TimeSlot{}
	if duration <= 0 {
		return slots
	}

	cursor := window.Start

	for !cursor.Add(duration).After(window.End) {
		slotEnd := cursor.Add(duration)

		if window.HasBreak && model.Overlaps(cursor, slotEnd, window.BreakStart, window.BreakEnd) {
			cursor = window.BreakEnd

			continue
		}

		if !overlapsAny(booked, cursor, slotEnd) {
			slots = append(slots, dto.TimeSlot{
				StartTime: cursor.Format(constant.TimeOfDayFormat),
				EndTime:   slotEnd.Format(constant.TimeOfDayFormat),
			})
		}

		cursor = slotEnd
	}

	return slots
}

func overlapsAny(bookings []model.Booking, start, end time.Time) bool {
	for _, booking := range bookings {
		if booking.Overlaps(start, end) {
			return true
		}
	}

	return false
}
