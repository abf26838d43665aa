package stream

import (
	"context"
	"time"

	"pumpdetector/internal/pump"
	"pumpdetector/pkg/binance"

	"go.uber.org/zap"
)

// TickerFetcher returns the current 24h ticker of every symbol.
type TickerFetcher interface {
	GetTickers(ctx context.Context) ([]binance.RESTTicker, error)
}

// Poller is the REST alternative to the WebSocket feed: it fetches all
// tickers on a fixed interval and submits each response as one batch.
type Poller struct {
	fetcher  TickerFetcher
	sub      Submitter
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func NewPoller(fetcher TickerFetcher, sub Submitter, interval, timeout time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		sub:      sub,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run polls until ctx is done. A failed poll is logged and skipped.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("REST ticker poller started", zap.Duration("interval", p.interval))
	for {
		p.pollOnce(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("REST ticker poller stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	tickers, err := p.fetcher.GetTickers(reqCtx)
	cancel()
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("failed to fetch tickers", zap.Error(err))
		}
		return
	}

	batch := make([]pump.Snapshot, 0, len(tickers))
	for _, t := range tickers {
		batch = append(batch, FromRESTTicker(t))
	}
	if err := p.sub.Submit(ctx, batch); err != nil && ctx.Err() == nil {
		p.logger.Warn("failed to submit ticker batch", zap.Error(err))
	}
}
