package sensor

import (
	"errors"
	"fmt"

	"github.com/angas/entsoe-go/convert"
	"github.com/angas/entsoe-go/coordinator"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/types/maybe"
)

type DeviceClass string

const (
	DeviceClassNone      DeviceClass = ""
	DeviceClassTimestamp DeviceClass = "timestamp"
)

type StateClass string

const (
	StateClassNone        StateClass = ""
	StateClassMeasurement StateClass = "measurement"
)

const (
	KeyCurrentPrice          = "current_price"
	KeyNextHourPrice         = "next_hour_price"
	KeyMinPrice              = "min_price"
	KeyMaxPrice              = "max_price"
	KeyAvgPrice              = "avg_price"
	KeyPercentageOfMax       = "percentage_of_max"
	KeyHighestPriceTimeToday = "highest_price_time_today"
	KeyLowestPriceTimeToday  = "lowest_price_time_today"
)

// Description declares one derived metric: its metadata and how to
// extract its value from a processed-data snapshot. Extraction may
// return an error when the snapshot lacks a required field; the
// entity absorbs it.
type Description struct {
	Key         string
	Name        string
	Unit        string
	DeviceClass DeviceClass
	StateClass  StateClass
	Icon        string
	Value       func(coordinator.Snapshot) (any, error)
}

func requireFloat(key string, m maybe.Maybe[float64]) (float64, error) {
	if !m.IsValid() {
		return 0, fmt.Errorf("no value for %s in snapshot", key)
	}
	return m.Value(), nil
}

func requireHour(key string, m maybe.Maybe[hours.DateHour]) (hours.DateHour, error) {
	if !m.IsValid() {
		return hours.DateHour{}, fmt.Errorf("no value for %s in snapshot", key)
	}
	return m.Value(), nil
}

// Descriptions returns the metric catalog. The order is the
// display/registration order.
func Descriptions(currency string) []Description {
	priceUnit := fmt.Sprintf("%s/kWh", currency)
	return []Description{
		{
			Key:        KeyCurrentPrice,
			Name:       "Current electricity market price",
			Unit:       priceUnit,
			StateClass: StateClassMeasurement,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireFloat(KeyCurrentPrice, s.CurrentPrice)
			},
		},
		{
			Key:        KeyNextHourPrice,
			Name:       "Next hour electricity market price",
			Unit:       priceUnit,
			StateClass: StateClassMeasurement,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireFloat(KeyNextHourPrice, s.NextHourPrice)
			},
		},
		{
			Key:        KeyMinPrice,
			Name:       "Lowest energy price today",
			Unit:       priceUnit,
			StateClass: StateClassMeasurement,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireFloat(KeyMinPrice, s.MinPrice)
			},
		},
		{
			Key:        KeyMaxPrice,
			Name:       "Highest energy price today",
			Unit:       priceUnit,
			StateClass: StateClassMeasurement,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireFloat(KeyMaxPrice, s.MaxPrice)
			},
		},
		{
			Key:        KeyAvgPrice,
			Name:       "Average electricity price today",
			Unit:       priceUnit,
			StateClass: StateClassMeasurement,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireFloat(KeyAvgPrice, s.AvgPrice)
			},
		},
		{
			Key:        KeyPercentageOfMax,
			Name:       "Current percentage of highest electricity price today",
			Unit:       "%",
			Icon:       "mdi:percent",
			StateClass: StateClassMeasurement,
			Value: func(s coordinator.Snapshot) (any, error) {
				curr, err := requireFloat(KeyCurrentPrice, s.CurrentPrice)
				if err != nil {
					return nil, err
				}
				max, err := requireFloat(KeyMaxPrice, s.MaxPrice)
				if err != nil {
					return nil, err
				}
				if max == 0 {
					return nil, errors.New("division by zero, max_price is zero")
				}
				return convert.RoundFloat64(curr/max*100, 1), nil
			},
		},
		{
			Key:         KeyHighestPriceTimeToday,
			Name:        "Time of highest price today",
			DeviceClass: DeviceClassTimestamp,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireHour("time_max", s.TimeMax)
			},
		},
		{
			Key:         KeyLowestPriceTimeToday,
			Name:        "Time of lowest price today",
			DeviceClass: DeviceClassTimestamp,
			Value: func(s coordinator.Snapshot) (any, error) {
				return requireHour("time_min", s.TimeMin)
			},
		},
	}
}
