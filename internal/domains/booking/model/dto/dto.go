package dto

import (
	"net/http"
	"salonbook/internal/domains/booking/model"
	"salonbook/shared"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	"salonbook/shared/timezone"
	"time"
)

type CreateBookingRequest struct {
	ServiceID  string `json:"service_id"  validate:"required"`
	ProviderID string `json:"provider_id" validate:"required"`
	StartTime  string `json:"start_time"  validate:"required,rfc3339"`
	EndTime    string `json:"end_time"    validate:"required,rfc3339"`
	Notes      string `json:"notes"       validate:"omitempty,max=1000"`
	Status     string `json:"status"      validate:"omitempty,oneof=pending confirmed in_progress completed cancelled no_show rescheduled"`
	// TotalPrice is accepted for compatibility and never persisted; the price comes from the service.
	TotalPrice *float64 `json:"total_price,omitempty" swaggerignore:"true"`
}

// Window parses the requested start and end instants.
func (c *CreateBookingRequest) Window() (time.Time, time.Time, error) {
	return parseWindow(c.StartTime, c.EndTime)
}

func (c *CreateBookingRequest) InitialStatus() model.Status {
	if c.Status == constant.Empty {
		return model.StatusPending
	}

	return model.Status(c.Status)
}

type UpdateBookingRequest struct {
	StartTime     string `json:"start_time"     validate:"omitempty,rfc3339"`
	EndTime       string `json:"end_time"       validate:"omitempty,rfc3339"`
	Status        string `db:"status"           json:"status"         validate:"omitempty,oneof=pending confirmed in_progress completed cancelled no_show rescheduled"`
	CustomerNotes string `db:"customer_notes"   json:"customer_notes" validate:"omitempty,max=1000"`
	ProviderNotes string `db:"provider_notes"   json:"provider_notes" validate:"omitempty,max=1000"`
	AdminNotes    string `db:"admin_notes"      json:"admin_notes"    validate:"omitempty,max=1000"`
}

func (u *UpdateBookingRequest) ChangesWindow() bool {
	return u.StartTime != constant.Empty || u.EndTime != constant.Empty
}

// Window merges the supplied bounds over the stored ones. An omitted bound
// keeps its current value, so a request may move only the start or the end.
func (u *UpdateBookingRequest) Window(currentStart, currentEnd time.Time) (time.Time, time.Time, error) {
	start, end := currentStart, currentEnd

	var err error

	if u.StartTime != constant.Empty {
		if start, err = time.Parse(constant.DateFormat, u.StartTime); err != nil {
			return time.Time{}, time.Time{}, err //nolint:wrapcheck
		}
	}

	if u.EndTime != constant.Empty {
		if end, err = time.Parse(constant.DateFormat, u.EndTime); err != nil {
			return time.Time{}, time.Time{}, err //nolint:wrapcheck
		}
	}

	return start, end, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleBookingRequest struct {
	StartTime string `json:"start_time" validate:"required,rfc3339"`
	EndTime   string `json:"end_time"   validate:"required,rfc3339"`
	Reason    string `json:"reason"     validate:"omitempty,max=500"`
}

func (r *RescheduleBookingRequest) Window() (time.Time, time.Time, error) {
	return parseWindow(r.StartTime, r.EndTime)
}

// BookingFilter carries the optional list filters accepted by findAll.
type BookingFilter struct {
	ProviderID string
	CustomerID string
	Status     string
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.ProviderID = query.Get(constant.RequestParamProviderID)
	f.CustomerID = query.Get(constant.RequestParamCustomerID)
	f.Status = query.Get(constant.RequestParamStatus)
}

type AvailabilityQuery struct {
	ProviderID string `json:"provider_id" validate:"required"`
	StartTime  string `json:"start_time"  validate:"required,rfc3339"`
	EndTime    string `json:"end_time"    validate:"required,rfc3339"`
}

func (q *AvailabilityQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.ProviderID = query.Get(constant.RequestParamProviderID)
	q.StartTime = query.Get(constant.RequestParamStartTime)
	q.EndTime = query.Get(constant.RequestParamEndTime)
}

func (q *AvailabilityQuery) Window() (time.Time, time.Time, error) {
	return parseWindow(q.StartTime, q.EndTime)
}

type SlotsQuery struct {
	ProviderID string `json:"provider_id" validate:"required"`
	ServiceID  string `json:"service_id"`
	Date       string `json:"date"        validate:"required,dateonly"`
}

func (q *SlotsQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.ProviderID = query.Get(constant.RequestParamProviderID)
	q.ServiceID = query.Get(constant.RequestParamServiceID)
	q.Date = query.Get(constant.RequestParamDate)
}

// Day resolves the date in the application timezone.
func (q *SlotsQuery) Day() (time.Time, error) {
	return timezone.Parse(constant.DateOnlyFormat, q.Date) //nolint:wrapcheck
}

type CalendarQuery struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"        validate:"omitempty,dateonly"`
}

func (q *CalendarQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.ProviderID = query.Get(constant.RequestParamProviderID)
	q.Date = query.Get(constant.RequestParamDate)
}

// Day defaults to today when no date was given.
func (q *CalendarQuery) Day(now time.Time) (time.Time, error) {
	if q.Date == constant.Empty {
		return timezone.StartOfDay(now), nil
	}

	return timezone.Parse(constant.DateOnlyFormat, q.Date) //nolint:wrapcheck
}

func parseWindow(start, end string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(constant.DateFormat, start)
	if err != nil {
		return time.Time{}, time.Time{}, err //nolint:wrapcheck
	}

	endTime, err := time.Parse(constant.DateFormat, end)
	if err != nil {
		return time.Time{}, time.Time{}, err //nolint:wrapcheck
	}

	return startTime, endTime, nil
}

type ServiceSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ProviderSummary struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	UserID       string `json:"user_id"`
}

type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type BookingResponse struct {
	ID                 string           `json:"id"`
	BookingNumber      string           `json:"booking_number"`
	CustomerID         string           `json:"customer_id"`
	ProviderID         string           `json:"provider_id"`
	ServiceID          string           `json:"service_id"`
	StartDateTime      string           `json:"start_date_time"`
	EndDateTime        string           `json:"end_date_time"`
	DurationMinutes    int              `json:"duration_minutes"`
	Status             string           `json:"status"`
	TotalPrice         string           `json:"total_price"`
	Currency           string           `json:"currency"`
	CustomerNotes      string           `json:"customer_notes"`
	ProviderNotes      string           `json:"provider_notes"`
	AdminNotes         string           `json:"admin_notes"`
	CancellationReason string           `json:"cancellation_reason"`
	CancelledAt        *string          `json:"cancelled_at,omitempty"`
	ConfirmedAt        *string          `json:"confirmed_at,omitempty"`
	CompletedAt        *string          `json:"completed_at,omitempty"`
	CheckedInAt        *string          `json:"checked_in_at,omitempty"`
	Service            *ServiceSummary  `json:"service,omitempty"`
	Provider           *ProviderSummary `json:"provider,omitempty"`
	Customer           *CustomerSummary `json:"customer,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.BookingNumber = booking.BookingNumber
	r.CustomerID = booking.CustomerID
	r.ProviderID = booking.ProviderID
	r.ServiceID = booking.ServiceID
	r.StartDateTime = timezone.Format(booking.StartDateTime, constant.DateFormat)
	r.EndDateTime = timezone.Format(booking.EndDateTime, constant.DateFormat)
	r.DurationMinutes = booking.DurationMinutes
	r.Status = booking.Status.String()
	r.TotalPrice = booking.TotalPrice.StringFixed(2) //nolint:mnd
	r.Currency = booking.Currency
	r.CustomerNotes = booking.CustomerNotes
	r.ProviderNotes = booking.ProviderNotes
	r.AdminNotes = booking.AdminNotes
	r.CancellationReason = booking.CancellationReason
	r.CancelledAt = formatOptional(booking.CancelledAt)
	r.ConfirmedAt = formatOptional(booking.ConfirmedAt)
	r.CompletedAt = formatOptional(booking.CompletedAt)
	r.CheckedInAt = formatOptional(booking.CheckedInAt)
	r.Metadata.FromModel(booking.Metadata)
}

// FromDetail fills the booking and the nested summaries available from the joins.
func (r *BookingResponse) FromDetail(detail model.BookingDetail) {
	r.FromModel(detail.Booking)

	if detail.ServiceName != nil {
		r.Service = &ServiceSummary{
			ID:              detail.ServiceID,
			Name:            *detail.ServiceName,
			DurationMinutes: deref(detail.ServiceDurationMinutes),
		}
	}

	if detail.ProviderBusinessName != nil {
		r.Provider = &ProviderSummary{
			ID:           detail.ProviderID,
			BusinessName: *detail.ProviderBusinessName,
			UserID:       deref(detail.ProviderUserID),
		}
	}

	if detail.CustomerName != nil || detail.CustomerEmail != nil {
		r.Customer = &CustomerSummary{
			ID:    detail.CustomerID,
			Name:  deref(detail.CustomerName),
			Email: deref(detail.CustomerEmail),
		}
	}
}

// HideContactFrom drops the customer's email for requesters who are neither
// admins nor parties to the booking. The summary is replaced rather than
// edited so copies sharing it keep the address.
func (r *BookingResponse) HideContactFrom(requester model.Requester) {
	if r.Customer == nil || r.Customer.Email == constant.Empty || requester.IsAdmin() {
		return
	}

	if requester.UserID != constant.Empty {
		if requester.UserID == r.CustomerID || (r.Provider != nil && r.Provider.UserID == requester.UserID) {
			return
		}
	}

	customer := *r.Customer
	customer.Email = constant.Empty
	r.Customer = &customer
}

type GetBookingsResponse struct {
	Items      []BookingResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func (r *GetBookingsResponse) FromModels(details []model.BookingDetail, total, page, limit int) {
	r.Total = total
	r.Page = page
	r.Limit = limit
	r.TotalPages = shared.CalculateTotalPage(total, limit)

	r.Items = make([]BookingResponse, len(details))
	for i, detail := range details {
		r.Items[i].FromDetail(detail)
	}
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type TimeSlotsResponse struct {
	Available    bool       `json:"available"`
	Date         string     `json:"date"`
	SlotDuration int        `json:"slot_duration"`
	TimeSlots    []TimeSlot `json:"time_slots"`
}

type CalendarResponse struct {
	Date           string            `json:"date"`
	Bookings       []BookingResponse `json:"bookings"`
	AvailableSlots []string          `json:"available_slots"`
	TotalBookings  int               `json:"total_bookings"`
	TotalHours     float64           `json:"total_hours"`
}

type StatsResponse struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	Upcoming       int     `json:"upcoming"`
	CompletionRate float64 `json:"completion_rate"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}

	return *value
}
