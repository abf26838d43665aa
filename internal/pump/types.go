package pump

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedSnapshot marks a snapshot whose numeric fields did not parse to finite values.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is one symbol's ticker state at the moment a batch was received.
type Snapshot struct {
	Symbol           string  `json:"symbol"`           // e.g. "BTCUSDT"
	Price            float64 `json:"price"`            // last (current close) price
	DayChangePercent float64 `json:"dayChangePercent"` // 24h price change, in percent
	DayHigh          float64 `json:"dayHigh"`          // 24h high
	DayLow           float64 `json:"dayLow"`           // 24h low
}

// Validate reports ErrMalformedSnapshot when any numeric field is NaN or infinite.
func (s Snapshot) Validate() error {
	fields := [...]struct {
		name  string
		value float64
	}{
		{"price", s.Price},
		{"dayChangePercent", s.DayChangePercent},
		{"dayHigh", s.DayHigh},
		{"dayLow", s.DayLow},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: symbol=%s field=%s value=%v", ErrMalformedSnapshot, s.Symbol, f.name, f.value)
		}
	}
	return nil
}

// DiffRecord compares one symbol between the start and the end of the window.
// Day fields are taken from the end snapshot.
type DiffRecord struct {
	Symbol           string
	PriceFrom        float64
	PriceTo          float64
	Diff             float64 // PriceTo - PriceFrom
	DayChangePercent float64
	DayHigh          float64
	DayLow           float64
	PercentDiff      float64 // |end.DayChangePercent - start.DayChangePercent|
}

// Elapsed is a display-only approximation of the window age,
// assuming roughly one batch per second.
type Elapsed struct {
	Minutes int
	Seconds int
}

// Alert is the payload handed to the notifier for every diff that passed the trigger policy.
type Alert struct {
	Symbol           string    `json:"symbol"`
	PercentDiff      float64   `json:"percentDiff"`
	PriceFrom        float64   `json:"priceFrom"`
	PriceTo          float64   `json:"priceTo"`
	DayChangePercent float64   `json:"dayChangePercent"`
	DayHigh          float64   `json:"dayHigh"`
	DayLow           float64   `json:"dayLow"`
	MinutesElapsed   int       `json:"minutesElapsed"`
	SecondsElapsed   int       `json:"secondsElapsed"`
	DetectedAt       time.Time `json:"detectedAt"`
}

// NewAlert builds the notifier payload for a diff.
func NewAlert(d DiffRecord, elapsed Elapsed, at time.Time) Alert {
	return Alert{
		Symbol:           d.Symbol,
		PercentDiff:      d.PercentDiff,
		PriceFrom:        d.PriceFrom,
		PriceTo:          d.PriceTo,
		DayChangePercent: d.DayChangePercent,
		DayHigh:          d.DayHigh,
		DayLow:           d.DayLow,
		MinutesElapsed:   elapsed.Minutes,
		SecondsElapsed:   elapsed.Seconds,
		DetectedAt:       at,
	}
}

// Notifier receives alerts. Delivery is fire-and-forget: the detector neither
// waits for nor inspects the outcome.
type Notifier interface {
	Deliver(channels []string, alert Alert)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(channels []string, alert Alert)

func (f NotifierFunc) Deliver(channels []string, alert Alert) { f(channels, alert) }
