package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"salonbook/config"
	"salonbook/infras/metrics"
	"salonbook/infras/otel"
	"salonbook/internal/domains/booking/model"
	"salonbook/internal/domains/booking/model/dto"
	"salonbook/internal/domains/booking/repository"
	catalogModel "salonbook/internal/domains/catalog/model"
	catalogRepo "salonbook/internal/domains/catalog/repository"
	notificationModel "salonbook/internal/domains/notification/model"
	notificationService "salonbook/internal/domains/notification/service"
	providerModel "salonbook/internal/domains/provider/model"
	providerRepo "salonbook/internal/domains/provider/repository"
	"salonbook/shared"
	"salonbook/shared/cache"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	"salonbook/shared/failure"
	gModel "salonbook/shared/model"
	"salonbook/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	opCreate     = "create"
	opUpdate     = "update"
	opRemove     = "remove"
	opCancel     = "cancel"
	opReschedule = "reschedule"
	opCheckIn    = "check_in"
	opComplete   = "complete"
)

const (
	msgBookingNotFound  = "booking not found"
	msgServiceNotFound  = "service not found"
	msgProviderNotFound = "provider not found"
	msgSlotConflict     = "time slot conflicts with an existing confirmed booking"
	msgInvalidWindow    = "start_time and end_time must be RFC3339 timestamps"
	msgStaleWrite       = "booking was changed by another request, reload and retry"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, requester model.Requester) (dto.BookingResponse, error)
	FindAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter, requester model.Requester) (dto.GetBookingsResponse, error)
	FindOne(ctx context.Context, id string, requester model.Requester) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest, requester model.Requester) (dto.BookingResponse, error)
	Remove(ctx context.Context, id string, requester model.Requester) error
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest, requester model.Requester) (dto.BookingResponse, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleBookingRequest, requester model.Requester) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string, requester model.Requester) (dto.BookingResponse, error)
	Complete(ctx context.Context, id string, requester model.Requester) (dto.BookingResponse, error)
	CheckAvailability(ctx context.Context, providerID string, start, end time.Time) (dto.AvailabilityResponse, error)
	GetAvailableTimeSlots(ctx context.Context, providerID, serviceID string, date time.Time) (dto.TimeSlotsResponse, error)
	GetCalendarView(ctx context.Context, date time.Time, providerID string, requester model.Requester) (dto.CalendarResponse, error)
	GetBookingStats(ctx context.Context, requester model.Requester) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	providerRepo providerRepo.Provider
	catalogRepo  catalogRepo.Service
	notification notificationService.Notification
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	metrics      *metrics.Metrics
	clock        timezone.Clock
}

func New(
	repo repository.Booking,
	providerRepo providerRepo.Provider,
	catalogRepo catalogRepo.Service,
	notification notificationService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	metrics *metrics.Metrics,
	clock timezone.Clock,
) Booking {
	return &serviceImpl{
		repo:         repo,
		providerRepo: providerRepo,
		catalogRepo:  catalogRepo,
		notification: notification,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		metrics:      metrics,
		clock:        clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opCreate, err)
	}()

	start, end, err := req.Window()
	if err != nil {
		return res, failure.BadRequestFromString(msgInvalidWindow) // nolint:wrapcheck
	}

	if !end.After(start) {
		return res, failure.InvalidTimeRange
	}

	service, err := s.catalogRepo.Get(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty || service.ProviderID != req.ProviderID {
		return res, failure.NotFound(msgServiceNotFound) // nolint:wrapcheck
	}

	provider, err := s.getProvider(ctx, req.ProviderID)
	if err != nil {
		return res, err
	}

	if provider.ID == constant.Empty {
		return res, failure.NotFound(msgProviderNotFound) // nolint:wrapcheck
	}

	currency := service.Currency
	if currency == constant.Empty {
		currency = s.cfg.Booking.DefaultCurrency
	}

	now := s.clock.Now()
	booking := model.Booking{
		ID:              uuid.NewString(),
		CustomerID:      requester.UserID,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		StartDateTime:   start,
		EndDateTime:     end,
		DurationMinutes: model.DurationMinutes(start, end),
		Status:          req.InitialStatus(),
		TotalPrice:      service.BasePrice,
		Currency:        currency,
		CustomerNotes:   req.Notes,
		Metadata:        gModel.NewMetadata(requester.UserID, now),
	}

	if booking.Status == model.StatusConfirmed {
		booking.ConfirmedAt = &now
	}

	if err = s.insert(ctx, &booking, now); err != nil {
		return res, err
	}

	s.notify(ctx, notificationModel.Notification{
		UserID:  provider.UserID,
		Title:   "New Booking",
		Message: fmt.Sprintf("You have a new booking %s on %s", booking.BookingNumber, timezone.Format(booking.StartDateTime, constant.DateFormat)),
		Type:    notificationModel.TypeBookingCreated,
		Data:    map[string]any{"booking_id": booking.ID},
	})

	s.invalidate(ctx, constant.Empty)

	return s.detail(ctx, booking.ID)
}

// insert reserves the window and persists the booking, regenerating the
// booking number when it collides with an existing one.
func (s *serviceImpl) insert(ctx context.Context, booking *model.Booking, now time.Time) (err error) {
	attempts := max(s.cfg.Booking.NumberGenerateAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		booking.BookingNumber, err = model.NewBookingNumber(now)
		if err != nil {
			log.Error().Err(err).Msg("failed to generate booking number")

			return fmt.Errorf("failed to generate booking number: %w", err)
		}

		err = s.repo.Atomic(ctx, booking.ProviderID, func(ctx context.Context, repo repository.Booking) error {
			if err := s.ensureNoConflict(ctx, repo, model.OverlapQuery{
				ProviderID: booking.ProviderID,
				Start:      booking.StartDateTime,
				End:        booking.EndDateTime,
				Statuses:   []model.Status{model.StatusConfirmed},
			}); err != nil {
				return err
			}

			return repo.Insert(ctx, *booking) //nolint:wrapcheck
		})
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			break
		}

		log.Warn().Int("attempt", attempt).Msg("booking number collision, regenerating")
	}

	return s.writeError(err, "failed to create booking")
}

func (s *serviceImpl) FindAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter, requester model.Requester) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindAll")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	if filter.Status != constant.Empty && !model.Status(filter.Status).Valid() {
		return res, failure.BadRequestFromString("invalid status filter") // nolint:wrapcheck
	}

	group, err := s.ownerFilter(ctx, requester)
	if err != nil {
		return res, err
	}

	if requester.IsAdmin() {
		if filter.ProviderID != constant.Empty {
			group = group.Add(bookingFilter(model.FieldProviderID, filter.ProviderID))
		}

		if filter.CustomerID != constant.Empty {
			group = group.Add(bookingFilter(model.FieldCustomerID, filter.CustomerID))
		}
	}

	if filter.Status != constant.Empty {
		group = group.Add(bookingFilter(model.FieldStatus, filter.Status))
	}

	if params.SortBy == constant.Empty {
		params.SortBy = model.FieldStartDateTime
		params.SortDir = gDto.SortDirDesc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, group)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, group)
	if err != nil {
		return res, err
	}

	details, err := s.repo.GetAllDetails(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(details, total, params.Page, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".count")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) FindOne(ctx context.Context, id string, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindOne")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")
		res.HideContactFrom(requester)

		return res, nil
	}

	res, err = s.detail(ctx, id)
	if err != nil {
		return res, err
	}

	cached := res

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, cached, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	res.HideContactFrom(requester)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opUpdate, err)
	}()

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	booking, acc, err := s.load(ctx, id, requester)
	if err != nil {
		return res, err
	}

	if !acc.CanModify() {
		return res, failure.Forbidden("you are not allowed to update this booking") // nolint:wrapcheck
	}

	now := s.clock.Now()
	fields := shared.TransformFields(req, requester.UserID, now)
	start, end := booking.StartDateTime, booking.EndDateTime

	if req.ChangesWindow() {
		if start, end, err = req.Window(booking.StartDateTime, booking.EndDateTime); err != nil {
			return res, failure.BadRequestFromString(msgInvalidWindow) // nolint:wrapcheck
		}

		if !end.After(start) {
			return res, failure.InvalidTimeRange
		}

		fields[model.FieldStartDateTime] = start
		fields[model.FieldEndDateTime] = end
		fields[model.FieldDurationMinutes] = model.DurationMinutes(start, end)
	}

	becomesConfirmed := model.Status(req.Status) == model.StatusConfirmed && booking.Status != model.StatusConfirmed
	if becomesConfirmed {
		fields[model.FieldConfirmedAt] = now
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if req.ChangesWindow() || becomesConfirmed {
		err = s.repo.Atomic(ctx, booking.ProviderID, func(ctx context.Context, repo repository.Booking) error {
			if err := s.ensureNoConflict(ctx, repo, model.OverlapQuery{
				ProviderID: booking.ProviderID,
				Start:      start,
				End:        end,
				Statuses:   []model.Status{model.StatusConfirmed},
				ExcludeID:  booking.ID,
			}); err != nil {
				return err
			}

			return repo.Update(ctx, fields, filter) //nolint:wrapcheck
		})
	} else {
		err = s.repo.Update(ctx, fields, filter)
	}

	if err = s.writeError(err, "failed to update booking"); err != nil {
		return res, err
	}

	s.invalidate(ctx, id)

	return s.detail(ctx, id)
}

func (s *serviceImpl) Remove(ctx context.Context, id string, requester model.Requester) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Remove")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opRemove, err)
	}()

	_, acc, err := s.load(ctx, id, requester)
	if err != nil {
		return err
	}

	if !acc.CanRemove() {
		return failure.Forbidden("you are not allowed to delete this booking") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opCancel, err)
	}()

	booking, acc, err := s.load(ctx, id, requester)
	if err != nil {
		return res, err
	}

	if !acc.CanModify() {
		return res, failure.Forbidden("you are not allowed to cancel this booking") // nolint:wrapcheck
	}

	if !booking.CanBeCancelled() {
		return res, failure.Conflict(fmt.Sprintf("booking with status %s cannot be cancelled", booking.Status)) // nolint:wrapcheck
	}

	now := s.clock.Now()
	fields := map[string]any{
		model.FieldStatus:             model.StatusCancelled,
		model.FieldCancelledAt:        now,
		model.FieldCancellationReason: req.Reason,
		constant.FieldUpdatedAt:       now,
		constant.FieldUpdatedBy:       requester.UserID,
	}

	err = s.repo.Update(ctx, fields, expecting(id, model.CancellableStatuses...))
	if err = s.writeError(err, "failed to cancel booking"); err != nil {
		return res, err
	}

	if recipient, err := s.counterpart(ctx, booking, acc); err == nil && recipient != constant.Empty {
		s.notify(ctx, notificationModel.Notification{
			UserID:  recipient,
			Title:   "Booking Cancelled",
			Message: fmt.Sprintf("Booking %s has been cancelled", booking.BookingNumber),
			Type:    notificationModel.TypeBookingCancelled,
			Data:    map[string]any{"booking_id": booking.ID, "reason": req.Reason},
		})
	}

	s.invalidate(ctx, id)

	return s.detail(ctx, id)
}

func (s *serviceImpl) Reschedule(ctx context.Context, id string, req dto.RescheduleBookingRequest, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opReschedule, err)
	}()

	booking, acc, err := s.load(ctx, id, requester)
	if err != nil {
		return res, err
	}

	if !acc.CanModify() {
		return res, failure.Forbidden("you are not allowed to reschedule this booking") // nolint:wrapcheck
	}

	now := s.clock.Now()
	if !booking.CanBeRescheduled(now) {
		return res, failure.Conflict(fmt.Sprintf("booking with status %s cannot be rescheduled", booking.Status)) // nolint:wrapcheck
	}

	start, end, err := req.Window()
	if err != nil {
		return res, failure.BadRequestFromString(msgInvalidWindow) // nolint:wrapcheck
	}

	if !end.After(start) {
		return res, failure.InvalidTimeRange
	}

	fields := map[string]any{
		model.FieldStartDateTime:   start,
		model.FieldEndDateTime:     end,
		model.FieldDurationMinutes: model.DurationMinutes(start, end),
		model.FieldStatus:          model.StatusRescheduled,
		model.FieldProviderNotes:   req.Reason,
		constant.FieldUpdatedAt:    now,
		constant.FieldUpdatedBy:    requester.UserID,
	}

	err = s.repo.Atomic(ctx, booking.ProviderID, func(ctx context.Context, repo repository.Booking) error {
		if err := s.ensureNoConflict(ctx, repo, model.OverlapQuery{
			ProviderID: booking.ProviderID,
			Start:      start,
			End:        end,
			Statuses:   []model.Status{model.StatusConfirmed},
			ExcludeID:  booking.ID,
		}); err != nil {
			return err
		}

		return repo.Update(ctx, fields, expecting(id, model.ReschedulableStatuses...)) //nolint:wrapcheck
	})
	if err = s.writeError(err, "failed to reschedule booking"); err != nil {
		return res, err
	}

	if recipient, err := s.counterpart(ctx, booking, acc); err == nil && recipient != constant.Empty {
		s.notify(ctx, notificationModel.Notification{
			UserID:  recipient,
			Title:   "Booking Rescheduled",
			Message: fmt.Sprintf("Booking %s has been moved to %s", booking.BookingNumber, timezone.Format(start, constant.DateFormat)),
			Type:    notificationModel.TypeBookingRescheduled,
			Data:    map[string]any{"booking_id": booking.ID, "reason": req.Reason},
		})
	}

	s.invalidate(ctx, id)

	return s.detail(ctx, id)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opCheckIn, err)
	}()

	booking, acc, err := s.load(ctx, id, requester)
	if err != nil {
		return res, err
	}

	if !acc.CanOperate() {
		return res, failure.Forbidden("only the provider or an admin can check in a booking") // nolint:wrapcheck
	}

	if booking.Status != model.StatusConfirmed {
		return res, failure.Conflict("only confirmed bookings can be checked in") // nolint:wrapcheck
	}

	if err = s.transition(ctx, id, model.StatusConfirmed, model.StatusInProgress, model.FieldCheckedInAt, requester); err != nil {
		return res, err
	}

	return s.detail(ctx, id)
}

func (s *serviceImpl) Complete(ctx context.Context, id string, requester model.Requester) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		s.observe(opComplete, err)
	}()

	booking, acc, err := s.load(ctx, id, requester)
	if err != nil {
		return res, err
	}

	if !acc.CanOperate() {
		return res, failure.Forbidden("only the provider or an admin can complete a booking") // nolint:wrapcheck
	}

	if booking.Status != model.StatusInProgress {
		return res, failure.Conflict("only in-progress bookings can be completed") // nolint:wrapcheck
	}

	if err = s.transition(ctx, id, model.StatusInProgress, model.StatusCompleted, model.FieldCompletedAt, requester); err != nil {
		return res, err
	}

	s.notify(ctx, notificationModel.Notification{
		UserID:  booking.CustomerID,
		Title:   "How was your appointment?",
		Message: fmt.Sprintf("Booking %s is complete. Leave a review to help others.", booking.BookingNumber),
		Type:    notificationModel.TypeReviewRequest,
		Data:    map[string]any{"booking_id": booking.ID, "provider_id": booking.ProviderID},
	})

	return s.detail(ctx, id)
}

// transition moves a booking from one status to another and stamps the given
// timestamp column. It fails with Conflict when a concurrent request moved the
// booking first.
func (s *serviceImpl) transition(ctx context.Context, id string, from, to model.Status, stampField string, requester model.Requester) error {
	now := s.clock.Now()
	fields := map[string]any{
		model.FieldStatus:       to,
		stampField:              now,
		constant.FieldUpdatedAt: now,
		constant.FieldUpdatedBy: requester.UserID,
	}

	err := s.repo.Update(ctx, fields, expecting(id, from))
	if err = s.writeError(err, "failed to update booking status"); err != nil {
		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// expecting matches the booking only while it is still in one of statuses, so
// the write loses cleanly to a concurrent transition.
func expecting(id string, statuses ...model.Status) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName).Add(gDto.Filter{
		ArgName:  "expected_status",
		Field:    model.FieldStatus,
		Value:    model.StatusStrings(statuses),
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	})
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, providerID string, start, end time.Time) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return res, err
	}

	if provider.ID == constant.Empty {
		return dto.AvailabilityResponse{Message: "Provider not found"}, nil
	}

	if !end.After(start) {
		return dto.AvailabilityResponse{Message: "End time must be after start time"}, nil
	}

	overlapping, err := s.repo.FindOverlapping(ctx, model.OverlapQuery{
		ProviderID:      providerID,
		Start:           start,
		End:             end,
		ExcludeStatuses: model.InactiveStatuses,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping bookings")

		return res, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	if len(overlapping) > 0 {
		return dto.AvailabilityResponse{Message: "Time slot is already booked"}, nil
	}

	if start.Before(s.clock.Now()) {
		return dto.AvailabilityResponse{Message: "Cannot book in the past"}, nil
	}

	return dto.AvailabilityResponse{Available: true, Message: "Time slot is available"}, nil
}

func (s *serviceImpl) load(ctx context.Context, id string, requester model.Requester) (model.Booking, Access, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, Access{}, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, Access{}, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	provider, err := s.getProvider(ctx, booking.ProviderID)
	if err != nil {
		return booking, Access{}, err
	}

	return booking, access(requester, booking, provider), nil
}

func (s *serviceImpl) detail(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	res.FromDetail(detail)

	return res, nil
}

func (s *serviceImpl) getProvider(ctx context.Context, id string) (providerModel.Provider, error) {
	provider, err := s.providerRepo.Get(ctx, shared.FilterByID(id, providerModel.FieldID, providerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider")

		return provider, fmt.Errorf("failed to get provider: %w", err)
	}

	return provider, nil
}

// counterpart returns the user to notify about a change made by the other side.
func (s *serviceImpl) counterpart(ctx context.Context, booking model.Booking, acc Access) (string, error) {
	if !acc.IsOwningCustomer {
		return booking.CustomerID, nil
	}

	provider, err := s.getProvider(ctx, booking.ProviderID)
	if err != nil {
		return constant.Empty, err
	}

	return provider.UserID, nil
}

func (s *serviceImpl) ensureNoConflict(ctx context.Context, repo repository.Booking, query model.OverlapQuery) error {
	overlapping, err := repo.FindOverlapping(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping bookings")

		return fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	if len(overlapping) > 0 {
		return failure.Conflict(msgSlotConflict) // nolint:wrapcheck
	}

	return nil
}

// writeError maps store rejections of a scheduling write onto client errors.
func (s *serviceImpl) writeError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSlotTaken):
		return failure.Conflict(msgSlotConflict) // nolint:wrapcheck
	case errors.Is(err, repository.ErrStaleWrite):
		return failure.Conflict(msgStaleWrite) // nolint:wrapcheck
	case failure.GetCode(err) < http.StatusInternalServerError:
		return err
	default:
		log.Error().Err(err).Msg(msg)

		return fmt.Errorf("%s: %w", msg, err)
	}
}

func (s *serviceImpl) observe(operation string, err error) {
	if failure.Is(err, http.StatusConflict) {
		s.metrics.Conflict(operation)

		return
	}

	s.metrics.Observe(operation, err)
}

func (s *serviceImpl) notify(ctx context.Context, notification notificationModel.Notification) {
	if notification.UserID == constant.Empty {
		return
	}

	s.notification.Dispatch(context.WithoutCancel(ctx), notification)
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func bookingFilter(field string, value any) gDto.Filter {
	return gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}
