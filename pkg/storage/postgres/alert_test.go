package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"pumpdetector/internal/pump"
	"pumpdetector/pkg/storage/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestToAlertRecord
func TestToAlertRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := postgres.ToAlertRecord(pump.Alert{
		Symbol:           "ETHBTC",
		PercentDiff:      8,
		PriceFrom:        0.05,
		PriceTo:          0.055,
		DayChangePercent: 9,
		DayHigh:          0.056,
		DayLow:           0.049,
		MinutesElapsed:   2,
		SecondsElapsed:   5,
		DetectedAt:       at,
	}, []string{"@pump_detect", "@backup"})

	assert.Equal(t, "ETHBTC", rec.Symbol)
	assert.Equal(t, at, rec.DetectedAt)
	assert.Equal(t, 125, rec.ElapsedSeconds)
	assert.Equal(t, "@pump_detect,@backup", rec.Channels)
	assert.Equal(t, "pump_alert", rec.TableName())
}

// go test -v --run TestPostgresInvalidDSN
func TestPostgresInvalidDSN(t *testing.T) {
	_, err := postgres.NewClient("host=invalid port=5432 user=fail password=fail dbname=fail sslmode=disable connect_timeout=1")
	assert.Error(t, err)
}

// Requires a reachable database:
// PUMP_TEST_POSTGRES_DSN="host=localhost port=5432 user=postgres password=pw dbname=pumpdetector sslmode=disable" go test -v --run TestAlertCRUD
func TestAlertCRUD(t *testing.T) {
	dsn := os.Getenv("PUMP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PUMP_TEST_POSTGRES_DSN not set")
	}

	client, err := postgres.NewClient(dsn)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.True(t, client.IsHealthy(ctx))
	require.NoError(t, client.AutoMigrateAlertRecord())

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, client.InsertAlert(ctx, postgres.ToAlertRecord(pump.Alert{
		Symbol:      "TESTUSDT",
		PercentDiff: 9.5,
		PriceFrom:   1,
		PriceTo:     1.1,
		DetectedAt:  now,
	}, []string{"@pump_detect"})))

	got, err := client.ListAlerts(ctx, "TESTUSDT", now.Add(-time.Minute))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 9.5, got[0].PercentDiff)

	require.NoError(t, client.DeleteOldAlerts(ctx, now.Add(time.Minute)))

	got, err = client.ListAlerts(ctx, "TESTUSDT", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got)
}
