package snapshot

import (
	"context"
	"time"

	"pumpdetector/pkg/binance"

	"go.uber.org/zap"
)

// PairFetcher returns base/quote metadata for every trading symbol.
type PairFetcher interface {
	GetSymbolPairs(ctx context.Context) ([]binance.SymbolPair, error)
}

type SymbolLoader struct {
	Fetcher PairFetcher
	Timeout time.Duration
	Logger  *zap.Logger
}

// LoadSymbols fetches symbol pairs from Binance and streams them into the
// provided channel. The channel is always closed on return.
func (l *SymbolLoader) LoadSymbols(ctx context.Context, ch chan<- binance.SymbolPair) error {
	defer close(ch) // Ensure downstream consumers can exit cleanly

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	pairs, err := l.Fetcher.GetSymbolPairs(ctx)
	if err != nil {
		l.Logger.Error("failed to load symbol pairs", zap.Error(err))
		return err
	}
	l.Logger.Info("loaded symbols", zap.Int("count", len(pairs)))

	for _, pair := range pairs {
		select {
		case ch <- pair:
		case <-ctx.Done():
			l.Logger.Warn("symbol streaming interrupted", zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}

	return nil
}
