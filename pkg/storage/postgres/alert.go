package postgres

import (
	"context"
	"strings"
	"time"

	"pumpdetector/internal/pump"
)

func (p *PostgresClient) InsertAlert(ctx context.Context, record *AlertRecord) error {
	return p.DB.WithContext(ctx).Create(record).Error
}

// ListAlerts returns alerts for symbol detected at or after since, newest first.
// An empty symbol matches every symbol.
func (p *PostgresClient) ListAlerts(ctx context.Context, symbol string, since time.Time) ([]AlertRecord, error) {
	q := p.DB.WithContext(ctx).Where("detected_at >= ?", since)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}

	var records []AlertRecord
	if err := q.Order("detected_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (p *PostgresClient) DeleteOldAlerts(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("detected_at < ?", before).
		Delete(&AlertRecord{}).Error
}

// ToAlertRecord converts an alert and its target channels into a row for insertion.
func ToAlertRecord(alert pump.Alert, channels []string) *AlertRecord {
	return &AlertRecord{
		Symbol:           alert.Symbol,
		DetectedAt:       alert.DetectedAt,
		PercentDiff:      alert.PercentDiff,
		PriceFrom:        alert.PriceFrom,
		PriceTo:          alert.PriceTo,
		DayChangePercent: alert.DayChangePercent,
		DayHigh:          alert.DayHigh,
		DayLow:           alert.DayLow,
		ElapsedSeconds:   alert.MinutesElapsed*60 + alert.SecondsElapsed,
		Channels:         strings.Join(channels, ","),
	}
}
