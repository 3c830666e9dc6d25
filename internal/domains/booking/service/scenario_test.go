package service_test

import (
	"context"
	"net/http"
	"salonbook/config"
	"salonbook/infras/metrics"
	otelMocks "salonbook/infras/otel/mocks"
	"salonbook/internal/domains/booking/model"
	"salonbook/internal/domains/booking/model/dto"
	"salonbook/internal/domains/booking/service"
	catalogModel "salonbook/internal/domains/catalog/model"
	notificationModel "salonbook/internal/domains/notification/model"
	providerModel "salonbook/internal/domains/provider/model"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	"salonbook/shared/failure"
	"salonbook/shared/timezone"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	providerID     = "provider-1"
	providerUserID = "provider-user-1"
	serviceID      = "service-1"
	customerID     = "customer-1"
)

var (
	// 2025-10-07 is a Tuesday.
	bookingDay = time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC)
	now        = time.Date(2025, 10, 6, 8, 0, 0, 0, time.UTC)

	admin    = model.Requester{UserID: "admin-1", Role: constant.RoleAdmin}
	customer = model.Requester{UserID: customerID, Role: constant.RoleCustomer}
	stranger = model.Requester{UserID: "customer-2", Role: constant.RoleCustomer}
	owner    = model.Requester{UserID: providerUserID, Role: constant.RoleProvider}
)

type harness struct {
	svc      service.Booking
	store    *fakeBookingStore
	notifier *fakeNotifier
}

func newHarness(t *testing.T, hours providerModel.WorkingHours, bookings ...model.Booking) harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	store := newFakeBookingStore(bookings...)
	notifier := &fakeNotifier{}

	providers := &fakeProviders{
		providers: []providerModel.Provider{{ID: providerID, UserID: providerUserID, BusinessName: "Studio One", IsActive: true}},
		hours:     []providerModel.WorkingHours{hours},
	}

	catalog := &fakeCatalog{services: []catalogModel.Service{{
		ID:              serviceID,
		ProviderID:      providerID,
		Name:            "Haircut",
		DurationMinutes: 60,
		BasePrice:       price("50.00"),
		Currency:        "USD",
		IsActive:        true,
	}}}

	svc := service.New(store, providers, catalog, notifier, cfg, missCache{}, otelMocks.NewOtel(), metrics.New(cfg), timezone.FixedClock{At: now})

	return harness{svc: svc, store: store, notifier: notifier}
}

func tuesdayHours(breakStart, breakEnd *string) providerModel.WorkingHours {
	return providerModel.WorkingHours{
		ID:             "wh-1",
		ProviderID:     providerID,
		DayOfWeek:      int(time.Tuesday),
		StartTime:      "09:00",
		EndTime:        "17:00",
		BreakStartTime: breakStart,
		BreakEndTime:   breakEnd,
		IsActive:       true,
	}
}

func at(hour, minute int) time.Time {
	return bookingDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func seeded(id string, status model.Status, start, end time.Time) model.Booking {
	return model.Booking{
		ID:              id,
		BookingNumber:   "BK20251007" + id[len(id)-1:] + "AAAAA",
		CustomerID:      customerID,
		ProviderID:      providerID,
		ServiceID:       serviceID,
		StartDateTime:   start,
		EndDateTime:     end,
		DurationMinutes: model.DurationMinutes(start, end),
		Status:          status,
		TotalPrice:      price("50.00"),
		Currency:        "USD",
	}
}

func createRequest(start, end time.Time, status string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ServiceID:  serviceID,
		ProviderID: providerID,
		StartTime:  start.Format(constant.DateFormat),
		EndTime:    end.Format(constant.DateFormat),
		Status:     status,
	}
}

func TestScenario_SuccessfulBooking(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil))
	ctx := context.Background()

	slots, err := h.svc.GetAvailableTimeSlots(ctx, providerID, serviceID, bookingDay)
	require.NoError(t, err)

	assert.True(t, slots.Available)
	assert.Equal(t, "2025-10-07", slots.Date)
	assert.Equal(t, 60, slots.SlotDuration)
	require.Len(t, slots.TimeSlots, 8)
	assert.Equal(t, dto.TimeSlot{StartTime: "09:00", EndTime: "10:00"}, slots.TimeSlots[0])
	assert.Equal(t, dto.TimeSlot{StartTime: "16:00", EndTime: "17:00"}, slots.TimeSlots[7])

	created, err := h.svc.Create(ctx, createRequest(at(10, 0), at(11, 0), ""), customer)
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusPending), created.Status)
	assert.Equal(t, 60, created.DurationMinutes)
	assert.True(t, model.IsBookingNumber(created.BookingNumber))
	assert.Equal(t, []notificationModel.Type{notificationModel.TypeBookingCreated}, h.notifier.types())

	availability, err := h.svc.CheckAvailability(ctx, providerID, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.False(t, availability.Available)
}

func TestScenario_ConflictingRescheduleRejected(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil),
		seeded("booking-a", model.StatusConfirmed, at(10, 0), at(11, 0)),
		seeded("booking-b", model.StatusConfirmed, at(14, 0), at(15, 0)),
	)
	ctx := context.Background()

	_, err := h.svc.Reschedule(ctx, "booking-b", dto.RescheduleBookingRequest{
		StartTime: at(10, 30).Format(constant.DateFormat),
		EndTime:   at(11, 30).Format(constant.DateFormat),
	}, customer)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Equal(t, model.StatusConfirmed, h.store.byID("booking-b").Status)

	res, err := h.svc.Reschedule(ctx, "booking-b", dto.RescheduleBookingRequest{
		StartTime: at(11, 0).Format(constant.DateFormat),
		EndTime:   at(12, 0).Format(constant.DateFormat),
		Reason:    "customer running late",
	}, customer)
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusRescheduled), res.Status)

	stored := h.store.byID("booking-b")
	assert.Equal(t, at(11, 0), stored.StartDateTime)
	assert.Equal(t, at(12, 0), stored.EndDateTime)
	assert.Equal(t, 60, stored.DurationMinutes)
	assert.Equal(t, "customer running late", stored.ProviderNotes)
	assert.Equal(t, []notificationModel.Type{notificationModel.TypeBookingRescheduled}, h.notifier.types())
}

func TestScenario_StatsCompletionRate(t *testing.T) {
	future := now.Add(48 * time.Hour)

	h := newHarness(t, tuesdayHours(nil, nil),
		seeded("booking-1", model.StatusCompleted, now.Add(-72*time.Hour), now.Add(-71*time.Hour)),
		seeded("booking-2", model.StatusCompleted, now.Add(-48*time.Hour), now.Add(-47*time.Hour)),
		seeded("booking-3", model.StatusCancelled, now.Add(-24*time.Hour), now.Add(-23*time.Hour)),
		seeded("booking-4", model.StatusPending, future, future.Add(time.Hour)),
	)

	other := seeded("booking-5", model.StatusCompleted, future, future.Add(time.Hour))
	other.CustomerID = stranger.UserID
	require.NoError(t, h.store.Insert(context.Background(), other))

	stats, err := h.svc.GetBookingStats(context.Background(), customer)
	require.NoError(t, err)

	assert.Equal(t, dto.StatsResponse{Total: 4, Completed: 2, Cancelled: 1, Upcoming: 1, CompletionRate: 50}, stats)

	adminStats, err := h.svc.GetBookingStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 5, adminStats.Total)

	providerStats, err := h.svc.GetBookingStats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 5, providerStats.Total)
	assert.InDelta(t, 60.0, providerStats.CompletionRate, 1e-9)
}

func TestStats_EmptyHasZeroRate(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil))

	stats, err := h.svc.GetBookingStats(context.Background(), customer)
	require.NoError(t, err)

	assert.Equal(t, dto.StatsResponse{}, stats)
}

func TestNoDoubleBooking_ConcurrentCreate(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil))

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := h.svc.Create(context.Background(), createRequest(at(10, 0), at(11, 0), string(model.StatusConfirmed)), customer)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case failure.GetCode(err) == http.StatusConflict:
				conflicts++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	confirmed := []model.Booking{}
	for _, booking := range h.store.snapshot() {
		if booking.Status == model.StatusConfirmed {
			confirmed = append(confirmed, booking)
		}
	}

	for i := range confirmed {
		for j := i + 1; j < len(confirmed); j++ {
			assert.False(t, confirmed[i].Overlaps(confirmed[j].StartDateTime, confirmed[j].EndDateTime))
		}
	}
}

func TestCreate_PriceComesFromService(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil))

	tampered := 1.00
	req := createRequest(at(9, 0), at(10, 0), "")
	req.TotalPrice = &tampered

	res, err := h.svc.Create(context.Background(), req, customer)
	require.NoError(t, err)

	assert.Equal(t, "50.00", res.TotalPrice)
	assert.Equal(t, "USD", res.Currency)
	assert.True(t, price("50.00").Equal(h.store.byID(res.ID).TotalPrice))
}

func TestCreate_BookingNumbersAreUnique(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil))
	seen := map[string]bool{}

	for hour := 9; hour < 17; hour++ {
		res, err := h.svc.Create(context.Background(), createRequest(at(hour, 0), at(hour+1, 0), ""), customer)
		require.NoError(t, err)

		assert.True(t, model.IsBookingNumber(res.BookingNumber), res.BookingNumber)
		assert.True(t, len(res.BookingNumber) == 16 && res.BookingNumber[2:10] == "20251006")
		assert.False(t, seen[res.BookingNumber])

		seen[res.BookingNumber] = true
	}
}

func TestStateGuards(t *testing.T) {
	tests := []struct {
		name   string
		status model.Status
		action func(svc service.Booking, id string) error
	}{
		{
			name:   "cancel completed",
			status: model.StatusCompleted,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Cancel(context.Background(), id, dto.CancelBookingRequest{}, admin)

				return err
			},
		},
		{
			name:   "cancel cancelled",
			status: model.StatusCancelled,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Cancel(context.Background(), id, dto.CancelBookingRequest{}, admin)

				return err
			},
		},
		{
			name:   "check in pending",
			status: model.StatusPending,
			action: func(svc service.Booking, id string) error {
				_, err := svc.CheckIn(context.Background(), id, admin)

				return err
			},
		},
		{
			name:   "complete confirmed",
			status: model.StatusConfirmed,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Complete(context.Background(), id, owner)

				return err
			},
		},
		{
			name:   "reschedule completed",
			status: model.StatusCompleted,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Reschedule(context.Background(), id, dto.RescheduleBookingRequest{
					StartTime: at(15, 0).Format(constant.DateFormat),
					EndTime:   at(16, 0).Format(constant.DateFormat),
				}, admin)

				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tuesdayHours(nil, nil), seeded("booking-1", tt.status, at(10, 0), at(11, 0)))

			err := tt.action(h.svc, "booking-1")
			require.Error(t, err)

			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			assert.Equal(t, tt.status, h.store.byID("booking-1").Status)
		})
	}
}

func TestStateGuards_TransitionRacedByAnotherRequest(t *testing.T) {
	tests := []struct {
		name       string
		status     model.Status
		raced      model.Status
		action     func(svc service.Booking, id string) error
		wantStatus model.Status
	}{
		{
			name:   "check in after a concurrent cancel",
			status: model.StatusConfirmed,
			raced:  model.StatusCancelled,
			action: func(svc service.Booking, id string) error {
				_, err := svc.CheckIn(context.Background(), id, owner)

				return err
			},
			wantStatus: model.StatusCancelled,
		},
		{
			name:   "second complete",
			status: model.StatusInProgress,
			raced:  model.StatusCompleted,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Complete(context.Background(), id, owner)

				return err
			},
			wantStatus: model.StatusCompleted,
		},
		{
			name:   "cancel after a concurrent complete",
			status: model.StatusInProgress,
			raced:  model.StatusCompleted,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Cancel(context.Background(), id, dto.CancelBookingRequest{Reason: "late"}, admin)

				return err
			},
			wantStatus: model.StatusCompleted,
		},
		{
			name:   "reschedule after a concurrent cancel",
			status: model.StatusConfirmed,
			raced:  model.StatusCancelled,
			action: func(svc service.Booking, id string) error {
				_, err := svc.Reschedule(context.Background(), id, dto.RescheduleBookingRequest{
					StartTime: at(15, 0).Format(constant.DateFormat),
					EndTime:   at(16, 0).Format(constant.DateFormat),
				}, admin)

				return err
			},
			wantStatus: model.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tuesdayHours(nil, nil), seeded("booking-1", tt.status, at(10, 0), at(11, 0)))
			h.store.beforeUpdate = func(store *fakeBookingStore) {
				store.setStatus("booking-1", tt.raced)
			}

			err := tt.action(h.svc, "booking-1")

			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			assert.Equal(t, tt.wantStatus, h.store.byID("booking-1").Status)
			assert.Empty(t, h.notifier.types())
		})
	}
}

func TestHappyPathLifecycle(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil), seeded("booking-1", model.StatusPending, at(10, 0), at(11, 0)))
	ctx := context.Background()

	res, err := h.svc.Update(ctx, "booking-1", dto.UpdateBookingRequest{Status: string(model.StatusConfirmed)}, owner)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), res.Status)
	assert.NotNil(t, res.ConfirmedAt)

	res, err = h.svc.CheckIn(ctx, "booking-1", owner)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusInProgress), res.Status)
	assert.NotNil(t, res.CheckedInAt)

	res, err = h.svc.Complete(ctx, "booking-1", owner)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), res.Status)
	assert.NotNil(t, res.CompletedAt)

	assert.Equal(t, []notificationModel.Type{notificationModel.TypeReviewRequest}, h.notifier.types())
	assert.Equal(t, customerID, h.notifier.sent[0].UserID)
}

func TestAuthorization(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil), seeded("booking-1", model.StatusConfirmed, at(10, 0), at(11, 0)))
	ctx := context.Background()

	_, err := h.svc.Cancel(ctx, "booking-1", dto.CancelBookingRequest{}, stranger)
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))

	_, err = h.svc.CheckIn(ctx, "booking-1", customer)
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))

	err = h.svc.Remove(ctx, "booking-1", owner)
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))

	_, err = h.svc.Update(ctx, "booking-1", dto.UpdateBookingRequest{CustomerNotes: "hi"}, stranger)
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))

	res, err := h.svc.Cancel(ctx, "booking-1", dto.CancelBookingRequest{Reason: "sick"}, customer)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCancelled), res.Status)
	assert.Equal(t, "sick", res.CancellationReason)
	assert.Equal(t, providerUserID, h.notifier.sent[0].UserID)

	require.NoError(t, h.svc.Remove(ctx, "booking-1", customer))

	_, err = h.svc.FindOne(ctx, "booking-1", customer)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestUpdate_TimeChangeRechecksConflicts(t *testing.T) {
	rfc := func(value time.Time) string { return value.Format(constant.DateFormat) }

	tests := []struct {
		name         string
		id           string
		req          dto.UpdateBookingRequest
		requester    model.Requester
		wantCode     int
		wantStart    time.Time
		wantEnd      time.Time
		wantDuration int
	}{
		{
			name:      "both bounds overlapping a confirmed booking",
			id:        "booking-b",
			req:       dto.UpdateBookingRequest{StartTime: rfc(at(10, 30)), EndTime: rfc(at(11, 30))},
			requester: customer,
			wantCode:  http.StatusConflict,
		},
		{
			name:         "both bounds into a free window",
			id:           "booking-b",
			req:          dto.UpdateBookingRequest{StartTime: rfc(at(15, 0)), EndTime: rfc(at(16, 30))},
			requester:    customer,
			wantStart:    at(15, 0),
			wantEnd:      at(16, 30),
			wantDuration: 90,
		},
		{
			name:         "end only extends the stored window",
			id:           "booking-b",
			req:          dto.UpdateBookingRequest{EndTime: rfc(at(15, 30))},
			requester:    customer,
			wantStart:    at(14, 0),
			wantEnd:      at(15, 30),
			wantDuration: 90,
		},
		{
			name:         "start only moves the stored window earlier",
			id:           "booking-b",
			req:          dto.UpdateBookingRequest{StartTime: rfc(at(13, 30))},
			requester:    customer,
			wantStart:    at(13, 30),
			wantEnd:      at(15, 0),
			wantDuration: 90,
		},
		{
			name:      "start only merged window overlaps a confirmed booking",
			id:        "booking-b",
			req:       dto.UpdateBookingRequest{StartTime: rfc(at(10, 45))},
			requester: customer,
			wantCode:  http.StatusConflict,
		},
		{
			name:      "end only before the stored start",
			id:        "booking-b",
			req:       dto.UpdateBookingRequest{EndTime: rfc(at(13, 0))},
			requester: customer,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:         "a booking does not conflict with itself",
			id:           "booking-a",
			req:          dto.UpdateBookingRequest{StartTime: rfc(at(10, 15)), EndTime: rfc(at(11, 15))},
			requester:    admin,
			wantStart:    at(10, 15),
			wantEnd:      at(11, 15),
			wantDuration: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tuesdayHours(nil, nil),
				seeded("booking-a", model.StatusConfirmed, at(10, 0), at(11, 0)),
				seeded("booking-b", model.StatusPending, at(14, 0), at(15, 0)),
			)
			before := h.store.byID(tt.id)

			res, err := h.svc.Update(context.Background(), tt.id, tt.req, tt.requester)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				stored := h.store.byID(tt.id)
				assert.True(t, before.StartDateTime.Equal(stored.StartDateTime))
				assert.True(t, before.EndDateTime.Equal(stored.EndDateTime))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDuration, res.DurationMinutes)

			stored := h.store.byID(tt.id)
			assert.True(t, tt.wantStart.Equal(stored.StartDateTime))
			assert.True(t, tt.wantEnd.Equal(stored.EndDateTime))
			assert.Equal(t, tt.wantDuration, stored.DurationMinutes)
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil),
		seeded("booking-c", model.StatusCancelled, at(12, 0), at(13, 0)),
		seeded("booking-n", model.StatusNoShow, at(13, 0), at(14, 0)),
		seeded("booking-p", model.StatusPending, at(15, 0), at(16, 0)),
	)

	tests := []struct {
		name       string
		providerID string
		start      time.Time
		end        time.Time
		available  bool
		message    string
	}{
		{"unknown provider", "provider-x", at(9, 0), at(10, 0), false, "Provider not found"},
		{"inverted window", providerID, at(10, 0), at(9, 0), false, "End time must be after start time"},
		{"cancelled and no show do not block", providerID, at(12, 0), at(14, 0), true, "Time slot is available"},
		{"pending blocks", providerID, at(15, 30), at(16, 30), false, "Time slot is already booked"},
		{"adjacent window is free", providerID, at(16, 0), at(17, 0), true, "Time slot is available"},
		{"past window", providerID, now.Add(-2 * time.Hour), now.Add(-time.Hour), false, "Cannot book in the past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.svc.CheckAvailability(context.Background(), tt.providerID, tt.start, tt.end)
			require.NoError(t, err)

			assert.Equal(t, tt.available, res.Available)
			assert.Equal(t, tt.message, res.Message)

			again, err := h.svc.CheckAvailability(context.Background(), tt.providerID, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, res, again)
		})
	}
}

func TestGetAvailableTimeSlots(t *testing.T) {
	t.Run("breaks are skipped", func(t *testing.T) {
		h := newHarness(t, tuesdayHours(strPtr("12:00"), strPtr("13:00")))

		res, err := h.svc.GetAvailableTimeSlots(context.Background(), providerID, serviceID, bookingDay)
		require.NoError(t, err)

		starts := []string{}
		for _, slot := range res.TimeSlots {
			starts = append(starts, slot.StartTime)
		}

		assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, starts)
	})

	t.Run("confirmed bookings remove slots and output is deterministic", func(t *testing.T) {
		h := newHarness(t, tuesdayHours(nil, nil),
			seeded("booking-1", model.StatusConfirmed, at(10, 30), at(11, 30)),
			seeded("booking-2", model.StatusPending, at(14, 0), at(15, 0)),
		)

		first, err := h.svc.GetAvailableTimeSlots(context.Background(), providerID, serviceID, bookingDay)
		require.NoError(t, err)

		second, err := h.svc.GetAvailableTimeSlots(context.Background(), providerID, serviceID, bookingDay)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first.TimeSlots, 6)

		for _, slot := range first.TimeSlots {
			assert.NotContains(t, []string{"10:00", "11:00"}, slot.StartTime)
		}
	})

	t.Run("closed day", func(t *testing.T) {
		h := newHarness(t, tuesdayHours(nil, nil))

		res, err := h.svc.GetAvailableTimeSlots(context.Background(), providerID, serviceID, bookingDay.AddDate(0, 0, 1))
		require.NoError(t, err)

		assert.False(t, res.Available)
		assert.Empty(t, res.TimeSlots)
	})

	t.Run("unknown service", func(t *testing.T) {
		h := newHarness(t, tuesdayHours(nil, nil))

		_, err := h.svc.GetAvailableTimeSlots(context.Background(), providerID, "service-x", bookingDay)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGetCalendarView(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil),
		seeded("booking-1", model.StatusConfirmed, at(10, 0), at(11, 0)),
		seeded("booking-2", model.StatusPending, at(13, 30), at(14, 45)),
		seeded("booking-3", model.StatusCancelled, at(15, 0), at(16, 0)),
		seeded("booking-4", model.StatusConfirmed, at(10, 0).AddDate(0, 0, 1), at(11, 0).AddDate(0, 0, 1)),
	)

	res, err := h.svc.GetCalendarView(context.Background(), bookingDay, providerID, stranger)
	require.NoError(t, err)

	assert.Equal(t, "2025-10-07", res.Date)
	assert.Equal(t, 2, res.TotalBookings)
	require.Len(t, res.Bookings, 2)
	assert.Equal(t, "booking-1", res.Bookings[0].ID)
	assert.Equal(t, "booking-2", res.Bookings[1].ID)
	assert.InDelta(t, 2.25, res.TotalHours, 1e-9)
	assert.Equal(t, []string{"09:00", "11:00", "12:00", "15:00", "16:00", "17:00"}, res.AvailableSlots)

	scoped, err := h.svc.GetCalendarView(context.Background(), bookingDay, "", stranger)
	require.NoError(t, err)
	assert.Zero(t, scoped.TotalBookings)

	mine, err := h.svc.GetCalendarView(context.Background(), bookingDay, "", owner)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.TotalBookings)
}

func TestFindAll_ScopesByRequester(t *testing.T) {
	h := newHarness(t, tuesdayHours(nil, nil),
		seeded("booking-1", model.StatusConfirmed, at(10, 0), at(11, 0)),
		seeded("booking-2", model.StatusPending, at(12, 0), at(13, 0)),
		seeded("booking-3", model.StatusPending, at(14, 0), at(15, 0)),
	)

	other := seeded("booking-4", model.StatusPending, at(16, 0), at(17, 0))
	other.CustomerID = stranger.UserID
	require.NoError(t, h.store.Insert(context.Background(), other))

	ctx := context.Background()
	params := gDto.QueryParams{Page: 1, Limit: 2}

	res, err := h.svc.FindAll(ctx, params, dto.BookingFilter{}, customer)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 2, res.Limit)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "booking-3", res.Items[0].ID)

	res, err = h.svc.FindAll(ctx, params, dto.BookingFilter{Status: string(model.StatusPending)}, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)

	res, err = h.svc.FindAll(ctx, params, dto.BookingFilter{CustomerID: stranger.UserID}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	// Non admins cannot widen their scope.
	res, err = h.svc.FindAll(ctx, params, dto.BookingFilter{CustomerID: customerID}, stranger)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = h.svc.FindAll(ctx, params, dto.BookingFilter{Status: "unknown"}, admin)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
