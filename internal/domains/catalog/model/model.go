package model

import (
	"salonbook/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID         = "id"
	FieldProviderID = "provider_id"
)

// Service is a bookable offering of a provider. Read only here.
type Service struct {
	ID              string          `db:"id"`
	ProviderID      string          `db:"provider_id"`
	Name            string          `db:"name"`
	DurationMinutes int             `db:"duration_minutes"`
	BasePrice       decimal.Decimal `db:"base_price"`
	Currency        string          `db:"currency"`
	IsActive        bool            `db:"is_active"`
	model.Metadata
}
