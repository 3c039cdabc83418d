package database

import (
	"context"
	"fmt"
	"time"
)

// SensorStateRow is one recorded state publication of an entity.
// State is the value's string rendition, timestamps as RFC3339.
type SensorStateRow struct {
	EntityId  string
	Timestamp time.Time
	State     string
	Available bool
}

func (d *Database) SaveSensorState(ctx context.Context, r SensorStateRow) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO sensor_state (entity_id, timestamp, state, available)
		VALUES (?, ?, ?, ?)`,
		r.EntityId,
		r.Timestamp.UTC().Format(time.RFC3339),
		r.State,
		r.Available)
	if err != nil {
		return fmt.Errorf("saving sensor state for %s: %w", r.EntityId, err)
	}
	return nil
}

func (d *Database) GetSensorStates(ctx context.Context, entityId string, limit int) ([]SensorStateRow, error) {
	if limit < 1 {
		limit = 24
	}

	rows, err := d.read.QueryContext(ctx, `
		SELECT entity_id, timestamp, state, available
		FROM sensor_state
		WHERE entity_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		entityId, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching sensor states: %w", err)
	}
	defer rows.Close()

	var ts string
	var states []SensorStateRow
	for rows.Next() {
		var r SensorStateRow
		err := rows.Scan(&r.EntityId, &ts, &r.State, &r.Available)
		if err != nil {
			return nil, fmt.Errorf("scanning sensor state row: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		states = append(states, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sensor state rows: %w", err)
	}

	return states, nil
}

func (d *Database) PurgeSensorState(ctx context.Context, retentionDays int) error {
	d.logger.Debug("purging sensor states")
	before := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339)
	_, err := d.write.ExecContext(ctx, `
		DELETE FROM sensor_state WHERE timestamp < ?`, before)
	if err != nil {
		return fmt.Errorf("purging sensor states: %w", err)
	}
	return nil
}
