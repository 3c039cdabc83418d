package task

import (
	"context"
	"log/slog"

	"github.com/angas/entsoe-go/config"
	"github.com/angas/entsoe-go/coordinator"
	"github.com/angas/entsoe-go/database"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	PriceFetchTask  func()
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	coord *coordinator.Coordinator,
	onRefreshed func(),
	cnfg *config.AppConfig,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		PriceFetchTask:  NewPriceFetchTask(logger.With(slog.String("task", "price_fetch")), coord, onRefreshed),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.cnfg.Price.GetRunAt(), t.PriceFetchTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("30 2 * * *", t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
