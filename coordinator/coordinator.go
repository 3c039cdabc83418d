package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/angas/entsoe-go/database"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/types"
)

// Coordinator owns the fetched day-ahead curve. Entities only ever
// read from it, through HasData and ProcessedData.
type Coordinator struct {
	logger    *slog.Logger
	db        *database.Database
	providers []types.PriceProvider
	mu        sync.RWMutex
	prices    []types.EnergyPrice
}

func New(db *database.Database, providers []types.PriceProvider) *Coordinator {
	if len(providers) == 0 {
		panic("no price providers")
	}
	return &Coordinator{
		logger:    slog.Default().With("module", "coordinator"),
		db:        db,
		providers: providers,
	}
}

// LoadFromStore seeds the curve from previously persisted prices so a
// restart does not leave the entities without data until the next fetch.
func (c *Coordinator) LoadFromStore(ctx context.Context) error {
	if c.db == nil {
		return nil
	}

	rows, err := c.db.GetEnergyPriceFrom(ctx, hours.FromMidnight())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	prices := make([]types.EnergyPrice, len(rows))
	for i, row := range rows {
		prices[i] = types.EnergyPrice{Hour: row.When, Price: row.Price}
	}

	c.mu.Lock()
	c.prices = prices
	c.mu.Unlock()

	c.logger.Debug("seeded price curve from store", slog.Int("noOfHours", len(prices)))
	return nil
}

// Refresh asks the providers for the day-ahead curve, first success
// wins, and persists the result.
func (c *Coordinator) Refresh(ctx context.Context) error {
	var prices []types.EnergyPrice
	for _, provider := range c.providers {
		var err error
		prices, err = provider.GetDayAheadPrices(ctx)
		if err != nil {
			c.logger.Error("provider failed, trying next", slog.Any("error", err))
			continue
		}
		if len(prices) > 0 {
			break
		}
	}

	if len(prices) == 0 {
		return errors.New("no day-ahead prices fetched from any provider")
	}

	c.mu.Lock()
	c.prices = prices
	c.mu.Unlock()

	if c.db != nil {
		rows := make([]database.EnergyPriceRow, len(prices))
		for i, p := range prices {
			rows[i] = database.EnergyPriceRow{When: p.Hour, Price: p.Price}
		}
		if err := c.db.SaveEnergyPrices(ctx, rows); err != nil {
			c.logger.Error("failed to persist price curve", slog.Any("error", err))
		}
	}

	c.logger.Info("price curve refreshed", slog.Int("noOfHours", len(prices)))
	return nil
}

// HasData reports whether any curve has been fetched or reloaded yet.
func (c *Coordinator) HasData() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prices != nil
}

// ProcessedData computes the snapshot for the current moment from the
// stored curve. Nothing is cached, every call recomputes.
func (c *Coordinator) ProcessedData() Snapshot {
	c.mu.RLock()
	prices := c.prices
	c.mu.RUnlock()
	return BuildSnapshot(prices, time.Now())
}

// HasPricesFor reports whether the stored curve covers the given hour.
func (c *Coordinator) HasPricesFor(dh hours.DateHour) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.prices {
		if p.Hour == dh {
			return true
		}
	}
	return false
}
