package model

import (
	"fmt"
	"salonbook/shared/model"
	"time"
)

const (
	TableName             = "providers"
	WorkingHoursTableName = "provider_working_hours"
	EntityName            = "provider"
	WorkingHoursEntity    = "provider_working_hours"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldBusinessName = "business_name"
	FieldIsActive     = "is_active"

	FieldProviderID = "provider_id"
	FieldDayOfWeek  = "day_of_week"
)

const clockLayout = "15:04"

type Provider struct {
	ID           string `db:"id"`
	UserID       string `db:"user_id"`
	BusinessName string `db:"business_name"`
	IsActive     bool   `db:"is_active"`
	model.Metadata
}

// WorkingHours is one weekday window. Times are wall-clock HH:mm strings.
type WorkingHours struct {
	ID             string  `db:"id"`
	ProviderID     string  `db:"provider_id"`
	DayOfWeek      int     `db:"day_of_week"`
	StartTime      string  `db:"start_time"`
	EndTime        string  `db:"end_time"`
	BreakStartTime *string `db:"break_start_time"`
	BreakEndTime   *string `db:"break_end_time"`
	IsActive       bool    `db:"is_active"`
	model.Metadata
}

// Window is a working-hours window resolved onto a concrete date.
type Window struct {
	Start      time.Time
	End        time.Time
	BreakStart time.Time
	BreakEnd   time.Time
	HasBreak   bool
}

// On resolves the HH:mm fields onto the calendar day of date, in date's location.
func (w WorkingHours) On(date time.Time) (Window, error) {
	var (
		window Window
		err    error
	)

	if window.Start, err = clockOn(date, w.StartTime); err != nil {
		return window, err
	}

	if window.End, err = clockOn(date, w.EndTime); err != nil {
		return window, err
	}

	if w.BreakStartTime == nil || w.BreakEndTime == nil || *w.BreakStartTime == "" || *w.BreakEndTime == "" {
		return window, nil
	}

	if window.BreakStart, err = clockOn(date, *w.BreakStartTime); err != nil {
		return window, err
	}

	if window.BreakEnd, err = clockOn(date, *w.BreakEndTime); err != nil {
		return window, err
	}

	window.HasBreak = window.BreakEnd.After(window.BreakStart)

	return window, nil
}

func clockOn(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid working hours time %q: %w", clock, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
