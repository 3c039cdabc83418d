package coordinator

import (
	"time"

	"github.com/angas/entsoe-go/convert"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/types"
	"github.com/angas/entsoe-go/types/maybe"
)

// Snapshot is the processed view of the day-ahead curve that the
// sensor entities consume. Fields that cannot be derived from the
// stored curve (hour missing, empty day) are None.
type Snapshot struct {
	CurrentPrice   maybe.Maybe[float64]
	NextHourPrice  maybe.Maybe[float64]
	MinPrice       maybe.Maybe[float64]
	MaxPrice       maybe.Maybe[float64]
	AvgPrice       maybe.Maybe[float64]
	TimeMin        maybe.Maybe[hours.DateHour]
	TimeMax        maybe.Maybe[hours.DateHour]
	PricesToday    []types.EnergyPrice
	PricesTomorrow []types.EnergyPrice
	Prices         []types.EnergyPrice
}

// BuildSnapshot derives the processed data for the given instant from
// the fetched price curve.
func BuildSnapshot(prices []types.EnergyPrice, now time.Time) Snapshot {
	snap := Snapshot{Prices: prices}

	thisHour := hours.FromTime(now)
	nextHour := thisHour.Add(1)

	for _, p := range prices {
		switch {
		case p.Hour.Date == thisHour.Date:
			snap.PricesToday = append(snap.PricesToday, p)
		case p.Hour.Date == thisHour.Add(24).Date:
			snap.PricesTomorrow = append(snap.PricesTomorrow, p)
		}

		if p.Hour == thisHour {
			snap.CurrentPrice = maybe.Some(p.Price)
		}
		if p.Hour == nextHour {
			snap.NextHourPrice = maybe.Some(p.Price)
		}
	}

	if len(snap.PricesToday) == 0 {
		return snap
	}

	min := snap.PricesToday[0]
	max := snap.PricesToday[0]
	sum := 0.0
	for _, p := range snap.PricesToday {
		if p.Price < min.Price {
			min = p
		}
		if p.Price > max.Price {
			max = p
		}
		sum += p.Price
	}

	snap.MinPrice = maybe.Some(min.Price)
	snap.MaxPrice = maybe.Some(max.Price)
	snap.AvgPrice = maybe.Some(convert.RoundFloat64(sum/float64(len(snap.PricesToday)), 4))
	snap.TimeMin = maybe.Some(min.Hour)
	snap.TimeMax = maybe.Some(max.Hour)

	return snap
}
