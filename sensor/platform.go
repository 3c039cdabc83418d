package sensor

import (
	"log/slog"
)

const DefaultCurrency = "EUR"

// AddEntitiesCallback is the host's registration hook, handed the
// constructed entities once during setup.
type AddEntitiesCallback func(sensors []*Sensor)

// Options is the per-entry options bag.
type Options struct {
	Name     string // optional display-name prefix
	Currency string // empty means DefaultCurrency
}

// Platform holds the entities of one configuration entry.
type Platform struct {
	logger  *slog.Logger
	sensors []*Sensor
}

// SetupEntry builds one entity per catalog entry, all sharing the
// given coordinator, and registers them through addEntities. The
// caller triggers the first update (UpdateAll) once listeners are
// attached.
func SetupEntry(coordinator Coordinator, opts Options, addEntities AddEntitiesCallback) *Platform {
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	scheduler := NewWallClockScheduler()

	var sensors []*Sensor
	for _, description := range Descriptions(currency) {
		sensors = append(sensors, newSensor(coordinator, description, opts.Name, scheduler))
	}

	p := &Platform{
		logger:  slog.Default().With("module", "sensor"),
		sensors: sensors,
	}

	addEntities(sensors)
	p.logger.Info("sensor entities registered", slog.Int("noOfEntities", len(sensors)))

	return p
}

func (p *Platform) Sensors() []*Sensor {
	return p.sensors
}

// UpdateAll is the host's immediate first update after registration.
func (p *Platform) UpdateAll() {
	for _, s := range p.sensors {
		s.Update()
	}
}

// UpdateStale pokes entities that have no wake-up armed, i.e. those
// whose updates so far were no-data skips. Called after a coordinator
// refresh so entities created before the first fetch come alive.
func (p *Platform) UpdateStale() {
	for _, s := range p.sensors {
		if !s.HasPendingWakeup() {
			s.Update()
		}
	}
}

// Teardown cancels all pending wake-ups.
func (p *Platform) Teardown() {
	for _, s := range p.sensors {
		s.Teardown()
	}
}
