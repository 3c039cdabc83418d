package types

import (
	"context"

	"github.com/angas/entsoe-go/hours"
)

type EnergyPrice struct {
	Hour  hours.DateHour
	Price float64 // Price per kWh in the configured currency, excluding VAT
}

// PriceProvider delivers the day-ahead price curve for today and,
// when published, tomorrow.
type PriceProvider interface {
	GetDayAheadPrices(ctx context.Context) ([]EnergyPrice, error)
}
