package model

type Type string

const (
	TypeBookingCreated     Type = "booking_created"
	TypeReviewRequest      Type = "review_request"
	TypeBookingCancelled   Type = "booking_cancelled"
	TypeBookingRescheduled Type = "booking_rescheduled"
)

// Notification is the payload handed to the delivery pipeline.
type Notification struct {
	UserID  string         `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    Type           `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
}
