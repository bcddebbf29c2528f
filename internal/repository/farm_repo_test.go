package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"krishimitra/internal/models"
	"krishimitra/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFarmSQLite_Save_SetsUTCNow_WhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewFarmSQLite(db)

	state := models.FarmState{
		ID: 1,
		Sensors: models.SensorReading{
			SoilMoisturePct: 35,
			TemperatureC:    30,
			HumidityPct:     55,
		},
		Crop: models.CropProfile{Type: "wheat", Stage: "vegetative", HealthStatus: "good"},
		// UpdatedAt is zero
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok {
			return false
		}
		if tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	isJSONObject := sqlmockArgumentFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		return ok && len(s) > 1 && s[0] == '{'
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO farm_state")).
		WithArgs(
			1, // single-row id constant
			isJSONObject,
			isJSONObject,
			isJSONObject,
			isUTCRecent,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFarmSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewFarmSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO farm_state")).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	if err := repo.Save(context.Background(), models.FarmState{ID: 1}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestFarmSQLite_Load_NoRowsReturnsZeroValueAndNilError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewFarmSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sensors, weather, crop, updated_at")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	var zero models.FarmState
	if !reflect.DeepEqual(got, zero) {
		t.Fatalf("Load() expected zero state, got: %+v", got)
	}
}

func TestFarmSQLite_Load_HappyPath_UnmarshalsAndUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewFarmSQLite(db)

	cols := []string{"id", "sensors", "weather", "crop", "updated_at"}
	locNY, _ := time.LoadLocation("America/New_York")
	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, locNY)

	rows := sqlmock.NewRows(cols).
		AddRow(
			1,
			`{"soil_moisture_pct":35,"temperature_c":30,"humidity_pct":55,"is_raining":false,"rain_probability_pct":10}`,
			`{"condition":"sunny","current_temp_c":30}`,
			`{"type":"rice","stage":"flowering","health_status":"good"}`,
			nonUTC, // Load should convert to UTC
		)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sensors, weather, crop, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if got.ID != 1 ||
		got.Sensors.SoilMoisturePct != 35 ||
		got.Sensors.TemperatureC != 30 ||
		got.Crop.Type != "rice" ||
		got.Crop.Stage != "flowering" {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("Load() UpdatedAt not UTC: %v (%v)", got.UpdatedAt, got.UpdatedAt.Location())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFarmSQLite_Load_InvalidSensorsJSON_ReturnsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {

		}
	}(db)

	repo := repository.NewFarmSQLite(db)

	cols := []string{"id", "sensors", "weather", "crop", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow(1, `not json`, `{}`, `{}`, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sensors, weather, crop, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	_, err = repo.Load(context.Background())
	if err == nil {
		t.Fatalf("Load() expected error due to invalid sensors JSON, got nil")
	}
}

// Helpers

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
