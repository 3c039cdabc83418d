package sensor

import (
	"testing"
	"time"

	"github.com/angas/entsoe-go/coordinator"
	"github.com/angas/entsoe-go/hours"
	"github.com/angas/entsoe-go/types"
	"github.com/angas/entsoe-go/types/maybe"
)

type fakeCoordinator struct {
	hasData bool
	snap    coordinator.Snapshot
}

func (f *fakeCoordinator) HasData() bool                       { return f.hasData }
func (f *fakeCoordinator) ProcessedData() coordinator.Snapshot { return f.snap }

// recordingScheduler captures scheduled wake-ups instead of arming
// real timers.
type recordingScheduler struct {
	scheduled []time.Time
	pending   int
}

func (r *recordingScheduler) Schedule(at time.Time, fn func()) CancelFunc {
	r.scheduled = append(r.scheduled, at)
	r.pending++
	cancelled := false
	return func() {
		if !cancelled {
			cancelled = true
			r.pending--
		}
	}
}

func description(t *testing.T, key string) Description {
	t.Helper()
	for _, d := range Descriptions("EUR") {
		if d.Key == key {
			return d
		}
	}
	t.Fatalf("no description for key %q", key)
	return Description{}
}

func newTestSensor(key string, coord Coordinator, sched Scheduler, at time.Time) (*Sensor, Description) {
	desc := Description{}
	for _, d := range Descriptions("EUR") {
		if d.Key == key {
			desc = d
		}
	}
	s := newSensor(coord, desc, "", sched)
	s.now = func() time.Time { return at }
	return s, desc
}

func snapshotWith(current, max float64) coordinator.Snapshot {
	return coordinator.Snapshot{
		CurrentPrice: maybe.Some(current),
		MaxPrice:     maybe.Some(max),
	}
}

func TestPercentageOfMaxExtraction(t *testing.T) {
	desc := description(t, KeyPercentageOfMax)

	value, err := desc.Value(snapshotWith(50, 100))
	if err != nil {
		t.Fatalf("unexpected extraction error: %v", err)
	}
	if value != 50.0 {
		t.Errorf("expected 50.0, got %v", value)
	}
}

func TestPercentageOfMaxRounding(t *testing.T) {
	desc := description(t, KeyPercentageOfMax)

	value, err := desc.Value(snapshotWith(0.333, 1.0))
	if err != nil {
		t.Fatalf("unexpected extraction error: %v", err)
	}
	if value != 33.3 {
		t.Errorf("expected 33.3 (rounded to one decimal), got %v", value)
	}
}

func TestPercentageOfMaxFailures(t *testing.T) {
	desc := description(t, KeyPercentageOfMax)

	tests := []struct {
		name string
		snap coordinator.Snapshot
	}{
		{
			name: "zero max price",
			snap: snapshotWith(50, 0),
		},
		{
			name: "missing current price",
			snap: coordinator.Snapshot{MaxPrice: maybe.Some(100.0)},
		},
		{
			name: "missing max price",
			snap: coordinator.Snapshot{CurrentPrice: maybe.Some(50.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := desc.Value(tt.snap); err == nil {
				t.Errorf("expected an extraction error")
			}
		})
	}
}

func TestDescriptionsCarryCurrency(t *testing.T) {
	priceKeys := map[string]bool{
		KeyCurrentPrice:  true,
		KeyNextHourPrice: true,
		KeyMinPrice:      true,
		KeyMaxPrice:      true,
		KeyAvgPrice:      true,
	}

	for _, currency := range []string{"EUR", "DKK"} {
		for _, d := range Descriptions(currency) {
			if priceKeys[d.Key] {
				expected := currency + "/kWh"
				if d.Unit != expected {
					t.Errorf("description %s: expected unit %q, got %q", d.Key, expected, d.Unit)
				}
			}
		}
	}
}

func TestDescriptionsOrderIsStable(t *testing.T) {
	first := Descriptions("EUR")
	second := Descriptions("EUR")
	if len(first) != len(second) {
		t.Fatalf("catalog size changed between calls")
	}
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Errorf("position %d: %q vs %q", i, first[i].Key, second[i].Key)
		}
	}
}

func TestUpdateSkipsWithoutCoordinatorData(t *testing.T) {
	coord := &fakeCoordinator{hasData: false}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyCurrentPrice, coord, sched, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC))

	s.Update()

	if !s.Available() {
		t.Errorf("availability must stay at its default after a no-data skip")
	}
	if s.State() != nil {
		t.Errorf("state must stay unset after a no-data skip")
	}
	if sched.pending != 0 {
		t.Errorf("a no-data skip must not arm a wake-up, found %d pending", sched.pending)
	}
}

func TestUpdatePublishesValueAndReschedules(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)
	coord := &fakeCoordinator{hasData: true, snap: snapshotWith(0.25, 0.40)}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyCurrentPrice, coord, sched, now)

	s.Update()

	if !s.Available() {
		t.Errorf("expected entity to be available after a successful update")
	}
	if s.State() != 0.25 {
		t.Errorf("expected state 0.25, got %v", s.State())
	}
	if sched.pending != 1 {
		t.Fatalf("expected exactly one pending wake-up, got %d", sched.pending)
	}
	expected := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	if !sched.scheduled[0].Equal(expected) {
		t.Errorf("expected wake-up at %v, got %v", expected, sched.scheduled[0])
	}
}

func TestUpdateNeverLeavesTwoPendingWakeups(t *testing.T) {
	coord := &fakeCoordinator{hasData: true, snap: snapshotWith(0.25, 0.40)}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyCurrentPrice, coord, sched, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC))

	// Two fires in direct succession.
	s.Update()
	s.Update()

	if sched.pending != 1 {
		t.Errorf("expected exactly one pending wake-up after two updates, got %d", sched.pending)
	}
	if len(sched.scheduled) != 2 {
		t.Errorf("expected two schedule calls, got %d", len(sched.scheduled))
	}
}

func TestUpdateFailureKeepsLastGoodValue(t *testing.T) {
	coord := &fakeCoordinator{hasData: true, snap: snapshotWith(50, 100)}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyPercentageOfMax, coord, sched, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC))

	s.Update()
	if s.State() != 50.0 || !s.Available() {
		t.Fatalf("expected a successful first update, state %v available %v", s.State(), s.Available())
	}

	// The next snapshot makes the extractor fail with a zero divisor.
	coord.snap = snapshotWith(50, 0)
	s.Update()

	if s.Available() {
		t.Errorf("expected entity to be unavailable after a failed update")
	}
	if s.State() != 50.0 {
		t.Errorf("expected last good value 50.0 to be preserved, got %v", s.State())
	}
	if sched.pending != 1 {
		t.Errorf("a failed update must still rearm exactly one wake-up, got %d", sched.pending)
	}

	// Recovery on the next tick.
	coord.snap = snapshotWith(30, 100)
	s.Update()
	if !s.Available() || s.State() != 30.0 {
		t.Errorf("expected recovery, state %v available %v", s.State(), s.Available())
	}
}

func TestTimestampMetricConvertsToTime(t *testing.T) {
	coord := &fakeCoordinator{hasData: true, snap: coordinator.Snapshot{
		TimeMax: maybe.Some(hours.DateHour{Date: "2025-01-01", Hour: 19}),
	}}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyHighestPriceTimeToday, coord, sched, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC))

	s.Update()

	ts, ok := s.State().(time.Time)
	if !ok {
		t.Fatalf("expected a time.Time state, got %T", s.State())
	}
	expected := time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC)
	if !ts.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, ts)
	}
}

func TestAvgPricePopulatesExtraAttributes(t *testing.T) {
	today := []types.EnergyPrice{{Hour: hours.DateHour{Date: "2025-01-01", Hour: 0}, Price: 0.2}}
	tomorrow := []types.EnergyPrice{{Hour: hours.DateHour{Date: "2025-01-02", Hour: 0}, Price: 0.3}}
	all := append(append([]types.EnergyPrice{}, today...), tomorrow...)

	coord := &fakeCoordinator{hasData: true, snap: coordinator.Snapshot{
		AvgPrice:       maybe.Some(0.25),
		PricesToday:    today,
		PricesTomorrow: tomorrow,
		Prices:         all,
	}}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyAvgPrice, coord, sched, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC))

	s.Update()

	attrs := s.ExtraAttributes()
	if attrs == nil {
		t.Fatalf("expected extra attributes for avg_price")
	}
	if got, ok := attrs["prices_today"].([]types.EnergyPrice); !ok || len(got) != 1 || got[0].Price != 0.2 {
		t.Errorf("prices_today not captured verbatim: %v", attrs["prices_today"])
	}
	if got, ok := attrs["prices_tomorrow"].([]types.EnergyPrice); !ok || len(got) != 1 || got[0].Price != 0.3 {
		t.Errorf("prices_tomorrow not captured verbatim: %v", attrs["prices_tomorrow"])
	}
	if got, ok := attrs["prices"].([]types.EnergyPrice); !ok || len(got) != 2 {
		t.Errorf("prices not captured verbatim: %v", attrs["prices"])
	}
}

func TestOnlyAvgPriceGetsExtraAttributes(t *testing.T) {
	coord := &fakeCoordinator{hasData: true, snap: coordinator.Snapshot{
		CurrentPrice:  maybe.Some(0.25),
		NextHourPrice: maybe.Some(0.30),
		MinPrice:      maybe.Some(0.10),
		MaxPrice:      maybe.Some(0.40),
		AvgPrice:      maybe.Some(0.22),
		TimeMin:       maybe.Some(hours.DateHour{Date: "2025-01-01", Hour: 4}),
		TimeMax:       maybe.Some(hours.DateHour{Date: "2025-01-01", Hour: 19}),
		Prices:        []types.EnergyPrice{{Hour: hours.DateHour{Date: "2025-01-01", Hour: 0}, Price: 0.2}},
	}}

	for _, d := range Descriptions("EUR") {
		if d.Key == KeyAvgPrice {
			continue
		}
		sched := &recordingScheduler{}
		s := newSensor(coord, d, "", sched)
		s.now = func() time.Time { return time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC) }
		s.Update()
		if s.ExtraAttributes() != nil {
			t.Errorf("entity %s must not get extra attributes", d.Key)
		}
	}
}

func TestStateChangeListener(t *testing.T) {
	coord := &fakeCoordinator{hasData: true, snap: snapshotWith(0.25, 0.40)}
	sched := &recordingScheduler{}
	s, _ := newTestSensor(KeyCurrentPrice, coord, sched, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC))

	calls := 0
	s.OnStateChange = func(got *Sensor) {
		calls++
		if got != s {
			t.Errorf("listener called with the wrong entity")
		}
	}

	s.Update()
	if calls != 1 {
		t.Errorf("expected one listener call, got %d", calls)
	}

	// No-data skips must not notify.
	coord.hasData = false
	s.Update()
	if calls != 1 {
		t.Errorf("expected no listener call for a no-data skip, got %d", calls)
	}
}
