package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/entsoe-go/config"
	"github.com/angas/entsoe-go/database"
)

func NewMaintenanceTask(logger *slog.Logger, db *database.Database, cnfg *config.AppConfig) func() {
	return func() {
		logger.Debug("running maintenance task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		retentionDays := cnfg.Database.GetDataRetentionDays()

		if err := db.PurgeLog(ctx, cnfg.Logging.GetDbMaxEntries()); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeEnergyPrice(ctx, retentionDays); err != nil {
			logger.Error("energy_price maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeSensorState(ctx, retentionDays); err != nil {
			logger.Error("sensor_state maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeBackups(ctx, cnfg.Database.GetBackupRetentionDays()); err != nil {
			logger.Error("backup maintenance error", slog.Any("error", err))
		}

		logger.Info("maintenance task done")
	}
}
