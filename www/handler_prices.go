package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/entsoe-go/database"
	"github.com/angas/entsoe-go/hours"
)

func NewPricesHandler(logger *slog.Logger, db *database.Database, tm *TemplateManager, fetchTask func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "text/html")
			from := hours.FromMidnight().Sub(intOrDefault(r.URL, "hours", 0))

			prices, err := db.GetEnergyPriceFrom(r.Context(), from)
			if err != nil {
				logger.Error("handling prices request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			if err := tm.ExecuteToWriter("prices.html", prices, &w); err != nil {
				logger.Error("handling prices request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

		case http.MethodPost:
			fetchTask()
			w.WriteHeader(http.StatusAccepted)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
