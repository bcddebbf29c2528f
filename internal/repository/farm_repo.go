package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"krishimitra/internal/models"
)

type FarmSQLite struct {
	db *sql.DB
}

func NewFarmSQLite(db *sql.DB) *FarmSQLite {
	return &FarmSQLite{db: db}
}

const (
	farmStateRowID = 1

	insertOrUpdateFarmSQL = `
		INSERT INTO farm_state (id, sensors, weather, crop, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sensors=excluded.sensors,
			weather=excluded.weather,
			crop=excluded.crop,
			updated_at=excluded.updated_at
	`

	selectFarmSQL = `
		SELECT id, sensors, weather, crop, updated_at
		FROM farm_state WHERE id=?
	`
)

// Save upserts the farm_state row (id always 1). Nested snapshots are
// stored as JSON columns.
func (r *FarmSQLite) Save(ctx context.Context, state models.FarmState) error {
	sensorsJSON, err := json.Marshal(state.Sensors)
	if err != nil {
		return fmt.Errorf("marshal sensors: %w", err)
	}
	weatherJSON, err := json.Marshal(state.Weather)
	if err != nil {
		return fmt.Errorf("marshal weather: %w", err)
	}
	cropJSON, err := json.Marshal(state.Crop)
	if err != nil {
		return fmt.Errorf("marshal crop: %w", err)
	}

	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err = r.db.ExecContext(ctx, insertOrUpdateFarmSQL,
		farmStateRowID,
		string(sensorsJSON),
		string(weatherJSON),
		string(cropJSON),
		tsUTC,
	)
	return err
}

// Load fetches the single farm_state row (id=1). A missing row returns the
// zero value with no error; callers fall back to documented defaults.
func (r *FarmSQLite) Load(ctx context.Context) (models.FarmState, error) {
	row := r.db.QueryRowContext(ctx, selectFarmSQL, farmStateRowID)

	var (
		s           models.FarmState
		sensorsJSON string
		weatherJSON string
		cropJSON    string
	)
	if err := row.Scan(&s.ID, &sensorsJSON, &weatherJSON, &cropJSON, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FarmState{}, nil // no state yet
		}
		return models.FarmState{}, err
	}

	if err := json.Unmarshal([]byte(sensorsJSON), &s.Sensors); err != nil {
		return models.FarmState{}, fmt.Errorf("unmarshal sensors: %w", err)
	}
	if err := json.Unmarshal([]byte(weatherJSON), &s.Weather); err != nil {
		return models.FarmState{}, fmt.Errorf("unmarshal weather: %w", err)
	}
	if err := json.Unmarshal([]byte(cropJSON), &s.Crop); err != nil {
		return models.FarmState{}, fmt.Errorf("unmarshal crop: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
