package symbolmeta

import (
	"context"
	"time"

	"pumpdetector/internal/binance/snapshot"
	"pumpdetector/pkg/binance"

	"go.uber.org/zap"
)

type MidnightLoader struct {
	Load   func(ctx context.Context) <-chan binance.SymbolPair
	Logger *zap.Logger
}

// DefaultLoadFn streams pairs from loader on a fresh channel. A failed load
// closes the channel early and is logged by the loader; the previous
// metadata stays in place until the next run.
func DefaultLoadFn(loader *snapshot.SymbolLoader) func(ctx context.Context) <-chan binance.SymbolPair {
	return func(ctx context.Context) <-chan binance.SymbolPair {
		symbolCh := make(chan binance.SymbolPair, 100)

		go func() {
			_ = loader.LoadSymbols(ctx, symbolCh)
		}()

		return symbolCh
	}
}

// Start runs proc once immediately, then at every UTC midnight until ctx is done.
func (m *MidnightLoader) Start(ctx context.Context, proc func(<-chan binance.SymbolPair)) {
	go func() {
		m.runOnce(ctx, proc)

		for {
			now := time.Now().UTC()
			nextMidnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)

			timer := time.NewTimer(time.Until(nextMidnight))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			m.Logger.Info("refreshing symbol metadata")
			m.runOnce(ctx, proc)
		}
	}()
}

func (m *MidnightLoader) runOnce(ctx context.Context, proc func(<-chan binance.SymbolPair)) {
	symbolCh := m.Load(ctx)
	proc(symbolCh)
}
