package service_test

import (
	"context"
	"fmt"
	"salonbook/internal/domains/booking/model"
	"salonbook/internal/domains/booking/repository"
	catalogModel "salonbook/internal/domains/catalog/model"
	notificationModel "salonbook/internal/domains/notification/model"
	providerModel "salonbook/internal/domains/provider/model"
	"salonbook/shared/cache"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// fakeBookingStore keeps bookings in memory and evaluates filter groups the
// way the SQL store would.
type fakeBookingStore struct {
	mu       sync.Mutex
	section  sync.Mutex
	bookings map[string]model.Booking
	order    []string
	// beforeUpdate runs ahead of every Update, standing in for a request that
	// commits between the service's read and its write.
	beforeUpdate func(store *fakeBookingStore)
}

func newFakeBookingStore(bookings ...model.Booking) *fakeBookingStore {
	store := &fakeBookingStore{bookings: map[string]model.Booking{}}
	for _, booking := range bookings {
		store.put(booking)
	}

	return store
}

func (f *fakeBookingStore) put(booking model.Booking) {
	if _, ok := f.bookings[booking.ID]; !ok {
		f.order = append(f.order, booking.ID)
	}

	f.bookings[booking.ID] = booking
}

func (f *fakeBookingStore) snapshot() []model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]model.Booking, 0, len(f.order))
	for _, id := range f.order {
		if booking, ok := f.bookings[id]; ok {
			res = append(res, booking)
		}
	}

	return res
}

func (f *fakeBookingStore) byID(id string) model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bookings[id]
}

func (f *fakeBookingStore) Insert(_ context.Context, booking model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.bookings {
		if existing.BookingNumber == booking.BookingNumber {
			return repository.ErrDuplicateNumber
		}

		if booking.Status == model.StatusConfirmed && existing.Status == model.StatusConfirmed &&
			existing.ProviderID == booking.ProviderID && existing.Overlaps(booking.StartDateTime, booking.EndDateTime) {
			return repository.ErrSlotTaken
		}
	}

	f.put(booking)

	return nil
}

func (f *fakeBookingStore) Get(_ context.Context, filter gDto.FilterGroup) (model.Booking, error) {
	for _, booking := range f.snapshot() {
		if matchGroup(booking, filter) {
			return booking, nil
		}
	}

	return model.Booking{}, nil
}

func (f *fakeBookingStore) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	booking, err := f.Get(ctx, filter)

	return model.BookingDetail{Booking: booking}, err
}

func (f *fakeBookingStore) GetAllDetails(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	details := []model.BookingDetail{}

	for _, booking := range f.snapshot() {
		if matchGroup(booking, filter) {
			details = append(details, model.BookingDetail{Booking: booking})
		}
	}

	sort.SliceStable(details, func(i, j int) bool {
		if params.SortDir == gDto.SortDirDesc {
			return details[i].StartDateTime.After(details[j].StartDateTime)
		}

		return details[i].StartDateTime.Before(details[j].StartDateTime)
	})

	if params.Page > 0 && params.Limit > 0 {
		from := min((params.Page-1)*params.Limit, len(details))
		to := min(from+params.Limit, len(details))
		details = details[from:to]
	}

	return details, nil
}

func (f *fakeBookingStore) Count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	total := 0

	for _, booking := range f.snapshot() {
		if matchGroup(booking, filter) {
			total++
		}
	}

	return total, nil
}

func (f *fakeBookingStore) Update(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
	if hook := f.beforeUpdate; hook != nil {
		f.beforeUpdate = nil
		hook(f)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	matched := 0

	for _, id := range f.order {
		booking := f.bookings[id]
		if !matchGroup(booking, filter) {
			continue
		}

		for field, value := range fields {
			applyField(&booking, field, value)
		}

		f.bookings[id] = booking
		matched++
	}

	if matched == 0 {
		return repository.ErrStaleWrite
	}

	return nil
}

// setStatus overwrites a booking's status directly.
func (f *fakeBookingStore) setStatus(id string, status model.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking := f.bookings[id]
	booking.Status = status
	f.bookings[id] = booking
}

func (f *fakeBookingStore) Delete(_ context.Context, filter gDto.FilterGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, booking := range f.bookings {
		if matchGroup(booking, filter) {
			delete(f.bookings, id)
		}
	}

	return nil
}

func (f *fakeBookingStore) FindOverlapping(_ context.Context, query model.OverlapQuery) ([]model.Booking, error) {
	res := []model.Booking{}

	for _, booking := range f.snapshot() {
		if query.Matches(booking) {
			res = append(res, booking)
		}
	}

	return res, nil
}

func (f *fakeBookingStore) Atomic(ctx context.Context, _ string, fn func(ctx context.Context, repo repository.Booking) error) error {
	f.section.Lock()
	defer f.section.Unlock()

	return fn(ctx, f)
}

func matchGroup(booking model.Booking, group gDto.FilterGroup) bool {
	if len(group.Filters) == 0 {
		return true
	}

	or := group.Operator == gDto.FilterGroupOperatorOr

	for _, filter := range group.Filters {
		var ok bool

		switch typed := filter.(type) {
		case gDto.Filter:
			ok = matchFilter(booking, typed)
		case gDto.FilterGroup:
			if len(typed.Filters) == 0 {
				continue
			}

			ok = matchGroup(booking, typed)
		}

		if or && ok {
			return true
		}

		if !or && !ok {
			return false
		}
	}

	return !or
}

func matchFilter(booking model.Booking, filter gDto.Filter) bool {
	actual := fieldValue(booking, filter.Field)

	switch filter.Operator {
	case gDto.FilterOperatorEq:
		return compare(actual, filter.Value) == 0
	case gDto.FilterOperatorNotEq:
		return compare(actual, filter.Value) != 0
	case gDto.FilterOperatorIn:
		values, _ := filter.Value.([]string)

		return slices.Contains(values, fmt.Sprint(actual))
	case gDto.FilterOperatorGreaterEq:
		return compare(actual, filter.Value) >= 0
	case gDto.FilterOperatorGreater:
		return compare(actual, filter.Value) > 0
	case gDto.FilterOperatorLessEq:
		return compare(actual, filter.Value) <= 0
	case gDto.FilterOperatorLess:
		return compare(actual, filter.Value) < 0
	default:
		panic("unsupported operator " + filter.Operator)
	}
}

func compare(actual, expected any) int {
	if at, ok := actual.(time.Time); ok {
		return at.Compare(expected.(time.Time)) //nolint:forcetypeassert
	}

	return strings.Compare(fmt.Sprint(actual), fmt.Sprint(expected))
}

func fieldValue(booking model.Booking, field string) any {
	switch field {
	case model.FieldID:
		return booking.ID
	case model.FieldCustomerID:
		return booking.CustomerID
	case model.FieldProviderID:
		return booking.ProviderID
	case model.FieldServiceID:
		return booking.ServiceID
	case model.FieldStatus:
		return string(booking.Status)
	case model.FieldStartDateTime:
		return booking.StartDateTime
	case model.FieldEndDateTime:
		return booking.EndDateTime
	default:
		panic("unsupported field " + field)
	}
}

func applyField(booking *model.Booking, field string, value any) {
	switch field {
	case model.FieldStatus:
		switch status := value.(type) {
		case model.Status:
			booking.Status = status
		case string:
			booking.Status = model.Status(status)
		}
	case model.FieldStartDateTime:
		booking.StartDateTime = value.(time.Time) //nolint:forcetypeassert
	case model.FieldEndDateTime:
		booking.EndDateTime = value.(time.Time) //nolint:forcetypeassert
	case model.FieldDurationMinutes:
		booking.DurationMinutes = value.(int) //nolint:forcetypeassert
	case model.FieldProviderNotes:
		booking.ProviderNotes = value.(string) //nolint:forcetypeassert
	case model.FieldCustomerNotes:
		booking.CustomerNotes = value.(string) //nolint:forcetypeassert
	case model.FieldAdminNotes:
		booking.AdminNotes = value.(string) //nolint:forcetypeassert
	case model.FieldCancellationReason:
		booking.CancellationReason = value.(string) //nolint:forcetypeassert
	case model.FieldCancelledAt:
		booking.CancelledAt = stamp(value)
	case model.FieldConfirmedAt:
		booking.ConfirmedAt = stamp(value)
	case model.FieldCompletedAt:
		booking.CompletedAt = stamp(value)
	case model.FieldCheckedInAt:
		booking.CheckedInAt = stamp(value)
	case constant.FieldUpdatedAt:
		booking.UpdatedAt = value.(time.Time) //nolint:forcetypeassert
	case constant.FieldUpdatedBy:
		booking.UpdatedBy = value.(string) //nolint:forcetypeassert
	}
}

func stamp(value any) *time.Time {
	t := value.(time.Time) //nolint:forcetypeassert

	return &t
}

type fakeProviders struct {
	providers []providerModel.Provider
	hours     []providerModel.WorkingHours
}

func (f *fakeProviders) Get(_ context.Context, filter gDto.FilterGroup) (providerModel.Provider, error) {
	for _, provider := range f.providers {
		if matchProvider(provider, filter) {
			return provider, nil
		}
	}

	return providerModel.Provider{}, nil
}

func matchProvider(provider providerModel.Provider, group gDto.FilterGroup) bool {
	for _, filter := range group.Filters {
		typed, ok := filter.(gDto.Filter)
		if !ok {
			continue
		}

		switch typed.Field {
		case providerModel.FieldID:
			if provider.ID != typed.Value {
				return false
			}
		case providerModel.FieldUserID:
			if provider.UserID != typed.Value {
				return false
			}
		}
	}

	return true
}

func (f *fakeProviders) FindActiveWorkingHours(_ context.Context, providerID string, weekday time.Weekday) (providerModel.WorkingHours, bool, error) {
	for _, hours := range f.hours {
		if hours.ProviderID == providerID && hours.DayOfWeek == int(weekday) && hours.IsActive {
			return hours, true, nil
		}
	}

	return providerModel.WorkingHours{}, false, nil
}

type fakeCatalog struct {
	services []catalogModel.Service
}

func (f *fakeCatalog) Get(_ context.Context, filter gDto.FilterGroup) (catalogModel.Service, error) {
	for _, service := range f.services {
		for _, item := range filter.Filters {
			if typed, ok := item.(gDto.Filter); ok && typed.Field == catalogModel.FieldID && typed.Value == service.ID {
				return service, nil
			}
		}
	}

	return catalogModel.Service{}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notificationModel.Notification
}

func (f *fakeNotifier) Dispatch(_ context.Context, notification notificationModel.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, notification)
}

func (f *fakeNotifier) Run(ctx context.Context) {
	<-ctx.Done()
}

func (f *fakeNotifier) types() []notificationModel.Type {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]notificationModel.Type, len(f.sent))
	for i, notification := range f.sent {
		res[i] = notification.Type
	}

	return res
}

// missCache never holds anything.
type missCache struct{}

func (missCache) Save(context.Context, string, any, int) error { return nil }
func (missCache) Get(context.Context, string, any) error       { return cache.Nil }
func (missCache) Delete(context.Context, string) error         { return nil }
func (missCache) Clear(context.Context, string) error          { return nil }

func strPtr(value string) *string {
	return &value
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
