package model

import (
	"salonbook/shared/model"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldBookingNumber      = "booking_number"
	FieldCustomerID         = "customer_id"
	FieldProviderID         = "provider_id"
	FieldServiceID          = "service_id"
	FieldStartDateTime      = "start_date_time"
	FieldEndDateTime        = "end_date_time"
	FieldDurationMinutes    = "duration_minutes"
	FieldStatus             = "status"
	FieldTotalPrice         = "total_price"
	FieldCurrency           = "currency"
	FieldCustomerNotes      = "customer_notes"
	FieldProviderNotes      = "provider_notes"
	FieldAdminNotes         = "admin_notes"
	FieldCancellationReason = "cancellation_reason"
	FieldCancelledAt        = "cancelled_at"
	FieldConfirmedAt        = "confirmed_at"
	FieldCompletedAt        = "completed_at"
	FieldCheckedInAt        = "checked_in_at"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
	StatusRescheduled,
}

// InactiveStatuses never block availability.
var InactiveStatuses = []Status{StatusCancelled, StatusNoShow}

// UpcomingStatuses are counted as upcoming when they start in the future.
var UpcomingStatuses = []Status{StatusPending, StatusConfirmed}

// ReschedulableStatuses may still be moved to another window.
var ReschedulableStatuses = []Status{StatusPending, StatusConfirmed}

// CancellableStatuses are every status except cancelled and completed.
var CancellableStatuses = slices.DeleteFunc(slices.Clone(Statuses), func(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted
})

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) String() string {
	return string(s)
}

// StatusStrings converts statuses for query arguments.
func StatusStrings(statuses []Status) []string {
	res := make([]string, len(statuses))
	for i, status := range statuses {
		res[i] = string(status)
	}

	return res
}

type Booking struct {
	ID                 string          `db:"id"`
	BookingNumber      string          `db:"booking_number"`
	CustomerID         string          `db:"customer_id"`
	ProviderID         string          `db:"provider_id"`
	ServiceID          string          `db:"service_id"`
	StartDateTime      time.Time       `db:"start_date_time"`
	EndDateTime        time.Time       `db:"end_date_time"`
	DurationMinutes    int             `db:"duration_minutes"`
	Status             Status          `db:"status"`
	TotalPrice         decimal.Decimal `db:"total_price"`
	Currency           string          `db:"currency"`
	CustomerNotes      string          `db:"customer_notes"`
	ProviderNotes      string          `db:"provider_notes"`
	AdminNotes         string          `db:"admin_notes"`
	CancellationReason string          `db:"cancellation_reason"`
	CancelledAt        *time.Time      `db:"cancelled_at"`
	ConfirmedAt        *time.Time      `db:"confirmed_at"`
	CompletedAt        *time.Time      `db:"completed_at"`
	CheckedInAt        *time.Time      `db:"checked_in_at"`
	model.Metadata
}

// CanBeRescheduled is true while the booking is pending or confirmed and has not ended.
func (b Booking) CanBeRescheduled(now time.Time) bool {
	return slices.Contains(ReschedulableStatuses, b.Status) && b.EndDateTime.After(now)
}

// CanBeCancelled rejects bookings that are already cancelled or completed.
func (b Booking) CanBeCancelled() bool {
	return slices.Contains(CancellableStatuses, b.Status)
}

// Overlaps applies the half-open interval test against [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartDateTime, b.EndDateTime, start, end)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DurationMinutes returns the whole minutes between start and end.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// BookingDetail is the booking joined with its service, provider and customer.
type BookingDetail struct {
	Booking
	ServiceName            *string `column:"name"             db:"service_name"             table:"services"`
	ServiceDurationMinutes *int    `column:"duration_minutes" db:"service_duration_minutes" table:"services"`
	ProviderBusinessName   *string `column:"business_name"    db:"provider_business_name"   table:"providers"`
	ProviderUserID         *string `column:"user_id"          db:"provider_user_id"         table:"providers"`
	CustomerName           *string `column:"name"             db:"customer_name"            table:"users"`
	CustomerEmail          *string `column:"email"            db:"customer_email"           table:"users"`
}

func (BookingDetail) GetJoinQuery() string {
	return "LEFT JOIN services ON services.id = bookings.service_id " +
		"LEFT JOIN providers ON providers.id = bookings.provider_id " +
		"LEFT JOIN users ON users.id = bookings.customer_id"
}

// OverlapQuery selects bookings of one provider intersecting [Start, End).
type OverlapQuery struct {
	ProviderID      string
	Start           time.Time
	End             time.Time
	Statuses        []Status
	ExcludeStatuses []Status
	ExcludeID       string
}

// Matches applies the query to a single booking.
func (q OverlapQuery) Matches(b Booking) bool {
	if b.ProviderID != q.ProviderID || !b.Overlaps(q.Start, q.End) {
		return false
	}

	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, b.Status) {
		return false
	}

	if slices.Contains(q.ExcludeStatuses, b.Status) {
		return false
	}

	return q.ExcludeID == "" || b.ID != q.ExcludeID
}
