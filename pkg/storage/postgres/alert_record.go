package postgres

import "time"

// AlertRecord is one delivered pump alert, kept as an audit trail.
type AlertRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Symbol     string    `gorm:"type:text;not null;index:idx_pump_alert_symbol_detected" json:"symbol"`
	DetectedAt time.Time `gorm:"not null;index:idx_pump_alert_symbol_detected;index:idx_pump_alert_detected" json:"detectedAt"`

	PercentDiff      float64 `gorm:"type:numeric;not null" json:"percentDiff"`
	PriceFrom        float64 `gorm:"type:numeric;not null" json:"priceFrom"`
	PriceTo          float64 `gorm:"type:numeric;not null" json:"priceTo"`
	DayChangePercent float64 `gorm:"type:numeric;not null" json:"dayChangePercent"`
	DayHigh          float64 `gorm:"type:numeric;not null" json:"dayHigh"`
	DayLow           float64 `gorm:"type:numeric;not null" json:"dayLow"`

	// window age when the alert fired
	ElapsedSeconds int `gorm:"not null" json:"elapsedSeconds"`

	Channels string `gorm:"type:text;not null" json:"channels"` // comma separated

	RecordedAt time.Time `gorm:"autoCreateTime" json:"recordedAt"`
}

// TableName overrides the default table name for GORM.
func (AlertRecord) TableName() string {
	return "pump_alert"
}
