package nordpool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/angas/entsoe-go/convert"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/types"
)

const apiUrl = "https://dataportal-api.nordpoolgroup.com"

type nordpoolData struct {
	DeliveryDateCET  string           `json:"deliveryDateCET"`
	Currency         string           `json:"currency"`
	MultiAreaEntries []multiAreaEntry `json:"multiAreaEntries"`
}

type multiAreaEntry struct {
	DeliveryStart time.Time          `json:"deliveryStart"`
	DeliveryEnd   time.Time          `json:"deliveryEnd"`
	EntryPerArea  map[string]float64 `json:"entryPerArea"`
}

type Nordpool struct {
	area     string // Delivery area code, e.g. "NL"
	currency string // Currency the prices are requested in, e.g. "EUR"
}

func New(area string, currency string) Nordpool {
	return Nordpool{area: area, currency: currency}
}

func (n Nordpool) GetDayAheadPrices(ctx context.Context) ([]types.EnergyPrice, error) {
	t := time.Now()
	today, err := n.getDayAheadPrices(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices from nordpool for today: %w", err)
	}

	tomorrow, err := n.getDayAheadPrices(ctx, t.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices from nordpool for tomorrow: %w", err)
	}

	return append(today, tomorrow...), nil
}

func (n Nordpool) getDayAheadPrices(ctx context.Context, date time.Time) ([]types.EnergyPrice, error) {
	url := fmt.Sprintf("%s/api/DayAheadPrices?date=%s&market=DayAhead&deliveryArea=%s&currency=%s",
		apiUrl,
		date.Format("2006-01-02"),
		n.area,
		n.currency)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	// Tomorrow's prices are published in the afternoon, a 404 before
	// that is expected and not an error.
	if resp.StatusCode == http.StatusNotFound {
		return []types.EnergyPrice{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data nordpoolData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prices := make([]types.EnergyPrice, 0)
	for _, entry := range data.MultiAreaEntries {
		hour := hours.FromTime(entry.DeliveryStart)
		if slices.ContainsFunc(prices, func(p types.EnergyPrice) bool { return p.Hour == hour }) {
			continue
		}
		price, ok := entry.EntryPerArea[n.area]
		if ok {
			prices = append(prices, types.EnergyPrice{
				Hour:  hour,
				Price: convert.RoundFloat64(convert.MWhToKWh(price), 4),
			})
		}
	}

	return prices, nil
}
