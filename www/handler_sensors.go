package www

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/angas/entsoe-go/sensor"
)

type sensorRow struct {
	EntityId    string         `json:"entityId"`
	UniqueId    string         `json:"uniqueId"`
	Name        string         `json:"name"`
	State       string         `json:"state"`
	Unit        string         `json:"unit,omitempty"`
	DeviceClass string         `json:"deviceClass,omitempty"`
	StateClass  string         `json:"stateClass,omitempty"`
	Icon        string         `json:"icon"`
	Available   bool           `json:"available"`
	Attribution string         `json:"attribution"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

func sensorView(s *sensor.Sensor) sensorRow {
	desc := s.Description()
	return sensorRow{
		EntityId:    s.EntityId,
		UniqueId:    s.UniqueId,
		Name:        s.Name,
		State:       s.StateString(),
		Unit:        desc.Unit,
		DeviceClass: string(desc.DeviceClass),
		StateClass:  string(desc.StateClass),
		Icon:        s.Icon,
		Available:   s.Available(),
		Attribution: sensor.Attribution,
		Attributes:  s.ExtraAttributes(),
	}
}

func NewSensorsHandler(logger *slog.Logger, platform *sensor.Platform, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "text/html")

			var rows []sensorRow
			for _, s := range platform.Sensors() {
				rows = append(rows, sensorView(s))
			}

			if err := tm.ExecuteToWriter("sensors.html", rows, &w); err != nil {
				logger.Error("handling sensors request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

		case http.MethodPost:
			platform.UpdateAll()
			w.WriteHeader(http.StatusAccepted)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func NewSensorsApiHandler(logger *slog.Logger, platform *sensor.Platform) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var rows []sensorRow
		for _, s := range platform.Sensors() {
			rows = append(rows, sensorView(s))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			logger.Error("handling sensors api request", slog.Any("error", err))
		}
	}
}
