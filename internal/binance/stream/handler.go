package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"

	"pumpdetector/internal/pump"
	"pumpdetector/pkg/binance"

	"go.uber.org/zap"
)

// Submitter accepts ticker batches for detection.
type Submitter interface {
	Submit(ctx context.Context, batch []pump.Snapshot) error
}

// MakeMessageHandler returns a function that handles incoming WebSocket
// messages by parsing all-market ticker arrays and submitting each one as a batch.
func MakeMessageHandler(ctx context.Context, logger *zap.Logger, sub Submitter) func(msg []byte) {
	return func(msg []byte) {
		// Ticker frames are JSON arrays; subscription acks and errors are objects.
		if !isTickerArray(msg) {
			logger.Debug("ignoring non-ticker message", zap.ByteString("msg", msg))
			return
		}

		var tickers []binance.StreamTicker
		if err := json.Unmarshal(msg, &tickers); err != nil {
			logger.Warn("failed to parse ticker payload", zap.Error(err))
			return
		}

		batch := make([]pump.Snapshot, 0, len(tickers))
		for _, t := range tickers {
			batch = append(batch, FromStreamTicker(t))
		}

		if err := sub.Submit(ctx, batch); err != nil {
			logger.Warn("failed to submit ticker batch", zap.Int("size", len(batch)), zap.Error(err))
		}
	}
}

func isTickerArray(msg []byte) bool {
	trimmed := bytes.TrimLeft(msg, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// FromStreamTicker converts a stream element into a snapshot.
func FromStreamTicker(t binance.StreamTicker) pump.Snapshot {
	return pump.Snapshot{
		Symbol:           t.Symbol,
		Price:            parseFloat(t.CurrentClose),
		DayChangePercent: parseFloat(t.PriceChangePercent),
		DayHigh:          parseFloat(t.High),
		DayLow:           parseFloat(t.Low),
	}
}

// FromRESTTicker converts a REST 24h ticker into a snapshot.
func FromRESTTicker(t binance.RESTTicker) pump.Snapshot {
	return pump.Snapshot{
		Symbol:           t.Symbol,
		Price:            parseFloat(t.LastPrice),
		DayChangePercent: parseFloat(t.PriceChangePercent),
		DayHigh:          parseFloat(t.HighPrice),
		DayLow:           parseFloat(t.LowPrice),
	}
}

// parseFloat returns NaN for anything that is not a number; the detector
// drops such snapshots.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
