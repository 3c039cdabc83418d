package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/entsoe-go/coordinator"
	"github.com/angas/entsoe-go/hours"
)

// NewPriceFetchTask builds the cron closure refreshing the
// coordinator's day-ahead curve. When the stored curve does not even
// cover the coming hours (cold start, long downtime) the task runs
// once immediately instead of waiting for the next cron fire.
func NewPriceFetchTask(logger *slog.Logger, coord *coordinator.Coordinator, onRefreshed func()) func() {
	if needImmediatePriceFetch(coord) {
		logger.Info("need an immediate update of energy prices")
		runPriceFetchTask(logger, coord, onRefreshed)
	} else {
		logger.Debug("no need for immediate update of energy prices")
	}

	return func() { runPriceFetchTask(logger, coord, onRefreshed) }
}

func runPriceFetchTask(logger *slog.Logger, coord *coordinator.Coordinator, onRefreshed func()) {
	logger.Debug("running price fetch task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := coord.Refresh(ctx); err != nil {
		logger.Error("price fetch task error", slog.Any("error", err))
		return
	}

	if onRefreshed != nil {
		onRefreshed()
	}

	logger.Info("price fetch task done")
}

func needImmediatePriceFetch(coord *coordinator.Coordinator) bool {
	return !coord.HasPricesFor(hours.FromNow().Add(1))
}
