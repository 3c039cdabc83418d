package entsoe

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/angas/entsoe-go/convert"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/types"
)

const apiUrl = "https://web-api.tp.entsoe.eu/api"

// Times in API requests are expressed as yyyyMMddHHmm in UTC.
const periodLayout = "200601021504"

// Interval timestamps in documents lack the seconds of RFC3339, e.g. "2025-01-01T23:00Z".
const docTimeLayout = "2006-01-02T15:04Z07:00"

type Entsoe struct {
	area  string // EIC code of the bidding zone, e.g. "10YNL----------L"
	token string // Security token for the transparency platform
}

func New(area string, token string) Entsoe {
	return Entsoe{area: area, token: token}
}

func (e Entsoe) GetDayAheadPrices(ctx context.Context) ([]types.EnergyPrice, error) {
	now := time.Now().UTC()
	start := now.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 2)

	doc, err := e.getPriceDocument(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day-ahead prices: %w", err)
	}

	return pricesFromDocument(doc)
}

func (e Entsoe) getPriceDocument(ctx context.Context, start, end time.Time) (*publicationMarketDocument, error) {
	q := url.Values{}
	q.Set("securityToken", e.token)
	q.Set("documentType", "A44")
	q.Set("in_Domain", e.area)
	q.Set("out_Domain", e.area)
	q.Set("periodStart", start.Format(periodLayout))
	q.Set("periodEnd", end.Format(periodLayout))

	req, err := http.NewRequestWithContext(ctx, "GET", apiUrl+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// The platform answers 200 with an acknowledgement document
	// when no data matches the requested period.
	var ack acknowledgementMarketDocument
	if err := xml.Unmarshal(body, &ack); err == nil && ack.Reason.Code != "" {
		return &publicationMarketDocument{}, nil
	}

	var doc publicationMarketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &doc, nil
}

func pricesFromDocument(doc *publicationMarketDocument) ([]types.EnergyPrice, error) {
	var prices []types.EnergyPrice
	for _, ts := range doc.TimeSeries {
		for _, p := range ts.Periods {
			if p.Resolution != "PT60M" {
				continue
			}
			start, err := time.Parse(docTimeLayout, p.TimeInterval.Start)
			if err != nil {
				return nil, fmt.Errorf("failed to parse period start %q: %w", p.TimeInterval.Start, err)
			}
			for _, pt := range p.Points {
				if pt.Position < 1 {
					continue
				}
				hour := hours.FromTime(start.Add(time.Duration(pt.Position-1) * time.Hour))
				prices = append(prices, types.EnergyPrice{
					Hour:  hour,
					Price: convert.RoundFloat64(convert.MWhToKWh(pt.Price), 4),
				})
			}
		}
	}
	return prices, nil
}
