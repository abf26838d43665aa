package notify

import (
	"context"
	"fmt"

	"pumpdetector/internal/pump"
	"pumpdetector/pkg/storage/postgres"
)

// AlertStore persists alert rows.
type AlertStore interface {
	InsertAlert(ctx context.Context, record *postgres.AlertRecord) error
}

// PostgresSink appends every alert to the audit table.
type PostgresSink struct {
	store AlertStore
}

func NewPostgresSink(store AlertStore) *PostgresSink {
	return &PostgresSink{store: store}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Send(ctx context.Context, channels []string, alert pump.Alert) error {
	if err := s.store.InsertAlert(ctx, postgres.ToAlertRecord(alert, channels)); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}
