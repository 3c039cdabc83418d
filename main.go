package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/angas/entsoe-go/config"
	"github.com/angas/entsoe-go/coordinator"
	"github.com/angas/entsoe-go/database"
	"github.com/angas/entsoe-go/entsoe"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/logging"
	"github.com/angas/entsoe-go/mqtt"
	"github.com/angas/entsoe-go/nordpool"
	"github.com/angas/entsoe-go/sensor"
	"github.com/angas/entsoe-go/task"
	"github.com/angas/entsoe-go/types"
	"github.com/angas/entsoe-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := hours.SetGuiTimezone(cnfg.Gui.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set GUI timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("entsoe-go is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	priceProviders := []types.PriceProvider{
		entsoe.New(cnfg.Price.Area, cnfg.Price.SecurityToken), // Primary provider
		nordpool.New(cnfg.Price.NordpoolArea, cnfg.Sensor.GetCurrency()),
	}

	coord := coordinator.New(db, priceProviders)
	if err := coord.LoadFromStore(ctx); err != nil {
		panic(fmt.Sprintf("failed to load stored prices: %v", err))
	}

	var publisher *mqtt.Publisher
	if cnfg.Mqtt.Enabled() {
		publisher = mqtt.NewPublisher(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopicPrefix())
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer publisher.Disconnect()
	}

	var server *www.Server
	onStateChange := func(s *sensor.Sensor) {
		if server != nil {
			server.BroadcastSensorState(s)
		}
		if publisher != nil {
			publisher.PublishState(s)
		}
		if err := db.SaveSensorState(ctx, database.SensorStateRow{
			EntityId:  s.EntityId,
			Timestamp: time.Now().UTC(),
			State:     s.StateString(),
			Available: s.Available(),
		}); err != nil {
			logger.Error("failed to save sensor state", slog.Any("error", err))
		}
	}

	platform := sensor.SetupEntry(
		coord,
		sensor.Options{Name: cnfg.Sensor.GetName(), Currency: cnfg.Sensor.GetCurrency()},
		func(sensors []*sensor.Sensor) {
			for _, s := range sensors {
				s.OnStateChange = onStateChange
			}
		})
	defer platform.Teardown()

	tasks := task.NewTasks(db, coord, platform.UpdateStale, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		tasks.Run()
		defer tasks.Stop()
	}

	platform.UpdateAll()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("main context done")
				return
			case sig := <-sigCh:
				logger.Info("received signal", slog.Any("signal", sig))
				cancel()
			}
		}
	}()

	server = www.StartServer(db, tasks, platform, cnfg.Api, Version)
	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
