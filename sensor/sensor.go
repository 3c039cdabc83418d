package sensor

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/angas/entsoe-go/coordinator"
	"github.com/angas/entsoe-go/hours"
)

const (
	Domain      = "sensor"
	Attribution = "Data provided by ENTSO-e Transparency Platform"
	defaultIcon = "mdi:currency-eur"
)

// Coordinator is the read-only view the entities get of the shared
// price coordinator.
type Coordinator interface {
	HasData() bool
	ProcessedData() coordinator.Snapshot
}

// StateListener is notified after every update that processed a
// snapshot, successful or not.
type StateListener func(s *Sensor)

// Sensor is one live entity for one metric description. It drives its
// own hourly update loop: every Update that saw a snapshot rearms a
// single one-shot wake-up for the next whole hour.
type Sensor struct {
	logger      *slog.Logger
	coordinator Coordinator
	description Description
	scheduler   Scheduler
	now         func() time.Time

	EntityId string
	UniqueId string
	Name     string
	Icon     string

	// Called outside the entity lock, may be nil.
	OnStateChange StateListener

	mu         sync.Mutex
	state      any
	extraAttrs map[string]any
	available  bool
	unsub      CancelFunc
}

func newSensor(coordinator Coordinator, description Description, name string, scheduler Scheduler) *Sensor {
	s := &Sensor{
		coordinator: coordinator,
		description: description,
		scheduler:   scheduler,
		now:         time.Now,
		Icon:        description.Icon,
		// Not shown as unavailable during the startup race window
		// before the first update has completed.
		available: true,
	}

	if s.Icon == "" {
		s.Icon = defaultIcon
	}

	if name != "" {
		// The id used for addressing the entity in the UI, recorder history etc.
		s.EntityId = fmt.Sprintf("%s.%s", Domain, Slug(name+" "+description.Name))
		// Unique id for the stored UI configuration, stable across restarts.
		s.UniqueId = fmt.Sprintf("entsoe.%s_%s", name, description.Key)
		s.Name = fmt.Sprintf("%s (%s)", description.Name, name)
	} else {
		s.EntityId = fmt.Sprintf("%s.%s", Domain, Slug(description.Name))
		s.UniqueId = fmt.Sprintf("entsoe.%s", description.Key)
		s.Name = description.Name
	}

	s.logger = slog.Default().With("module", "sensor", slog.String("entityId", s.EntityId))

	return s
}

func (s *Sensor) Description() Description {
	return s.description
}

// Update pulls the coordinator's snapshot, republishes the extracted
// value and rearms the hourly wake-up. A coordinator without data is
// a silent no-op: no state change, no reschedule.
func (s *Sensor) Update() {
	s.mu.Lock()

	if !s.coordinator.HasData() {
		s.logger.Debug("no coordinator data yet, skipping update")
		s.mu.Unlock()
		return
	}

	processed := s.coordinator.ProcessedData()
	value, err := s.description.Value(processed)
	if err != nil {
		// Any extraction failure is absorbed here: availability drops,
		// the last good value stays, the next whole hour retries.
		s.available = false
		s.logger.Warn("unable to update entity due to data processing error",
			slog.Any("error", err),
			slog.Int("noOfPrices", len(processed.Prices)))
	} else {
		if dh, ok := value.(hours.DateHour); ok {
			value = dh.ToTime()
		}
		s.state = value

		if s.description.Key == KeyAvgPrice && value != nil {
			s.extraAttrs = map[string]any{
				"prices_today":    processed.PricesToday,
				"prices_tomorrow": processed.PricesTomorrow,
				"prices":          processed.Prices,
			}
		}

		s.available = true
		s.logger.Debug("updated entity", slog.Any("value", value))
	}

	// Cancel-then-schedule as one step: at most one pending wake-up.
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.unsub = s.scheduler.Schedule(hours.NextWholeHour(s.now()), s.Update)

	listener := s.OnStateChange
	s.mu.Unlock()

	if listener != nil {
		listener(s)
	}
}

// Available reports whether the most recent completed update attempt
// succeeded. True before the first attempt.
func (s *Sensor) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// State returns the last successfully extracted value, nil before the
// first successful update.
func (s *Sensor) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ExtraAttributes returns the price-curve attributes, only ever
// populated for the average-price entity.
func (s *Sensor) ExtraAttributes() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extraAttrs
}

// HasPendingWakeup reports whether an hourly wake-up is armed.
func (s *Sensor) HasPendingWakeup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsub != nil
}

// Teardown cancels the pending wake-up, normally the host's job when
// the entity is removed.
func (s *Sensor) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// StateString renders the current value for the recorder, MQTT and
// the web UI. "unknown" before the first successful update.
func (s *Sensor) StateString() string {
	switch v := s.State().(type) {
	case nil:
		return "unknown"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Slug normalizes a display name into an entity id fragment the same
// way for every caller, so ids stay deterministic.
func Slug(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
