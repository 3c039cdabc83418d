package www

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/angas/entsoe-go/config"
	"github.com/angas/entsoe-go/database"
	"github.com/angas/entsoe-go/sensor"
	"github.com/angas/entsoe-go/task"
)

type Server struct {
	logger   *slog.Logger
	config   config.AppConfigApi
	db       *database.Database
	platform *sensor.Platform
	hub      *Hub
	tm       *TemplateManager
	version  string
}

//go:embed static
var embeddedStaticDir embed.FS

func StartServer(db *database.Database, tasks *task.Tasks, platform *sensor.Platform, cnfg config.AppConfigApi, version string) *Server {
	logger := slog.Default().With("module", "www")
	tm, err := NewTemplateManager(logger, cnfg.WwwDir)
	if err != nil {
		logger.Error("template manager initialization error", slog.Any("error", err))
	}

	s := &Server{
		logger:   logger,
		config:   cnfg,
		db:       db,
		platform: platform,
		hub:      NewHub(logger),
		tm:       tm,
		version:  version,
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	http.Handle("/", staticFilesHandler(cnfg.WwwDir))

	http.Handle("/sensors", logReqMW(NewSensorsHandler(
		logger.With(slog.String("handler", "sensors")),
		s.platform,
		s.tm)))

	http.Handle("/api/sensors", logReqMW(NewSensorsApiHandler(
		logger.With(slog.String("handler", "api_sensors")),
		s.platform)))

	http.Handle("/prices", logReqMW(NewPricesHandler(
		logger.With(slog.String("handler", "prices")),
		s.db,
		s.tm,
		tasks.PriceFetchTask)))

	http.Handle("/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		s.db,
		s.tm)))

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// BroadcastSensorState pushes one entity's current state to all
// connected websocket clients. Wired as the entity's state listener.
func (s *Server) BroadcastSensorState(entity *sensor.Sensor) {
	payload, err := json.Marshal(sensorView(entity))
	if err != nil {
		s.logger.Error("failed to encode sensor state", slog.Any("error", err))
		return
	}
	s.hub.Broadcast <- payload
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "address", s.config.Address, "port", s.config.Port)
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}

func staticFilesHandler(extDir *string) http.Handler {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
