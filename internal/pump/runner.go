package pump

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Status is a read-only summary of the window, published after every batch.
type Status struct {
	Phase     Phase             `json:"phase"`
	TickCount int               `json:"tickCount"`
	Minutes   int               `json:"minutes"`
	Seconds   int               `json:"seconds"`
	Symbols   int               `json:"symbols"`
	Triggered []TriggeredSymbol `json:"triggered"`
}

type TriggeredSymbol struct {
	Symbol      string  `json:"symbol"`
	PercentDiff float64 `json:"percentDiff"`
}

// Runner serializes batches from any number of feeds onto a single detector.
type Runner struct {
	detector *Detector
	batches  chan []Snapshot
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
}

func NewRunner(detector *Detector, queueSize int, logger *zap.Logger) *Runner {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Runner{
		detector: detector,
		batches:  make(chan []Snapshot, queueSize),
		logger:   logger,
		status:   Status{Phase: PhaseEmpty},
	}
}

// Submit queues a batch. It blocks until the batch is queued or ctx is done.
func (r *Runner) Submit(ctx context.Context, batch []Snapshot) error {
	select {
	case r.batches <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run feeds queued batches to the detector one at a time until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("detector runner started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("detector runner stopped", zap.Error(ctx.Err()))
			return
		case batch := <-r.batches:
			r.detector.OnBatch(batch)
			r.publish(r.detector.State())
		}
	}
}

// Status returns the summary of the most recently processed batch.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.status
	out.Triggered = append([]TriggeredSymbol(nil), r.status.Triggered...)
	return out
}

func (r *Runner) publish(state WindowState) {
	triggered := make([]TriggeredSymbol, 0, len(state.TriggerMemory))
	for symbol, pct := range state.TriggerMemory {
		triggered = append(triggered, TriggeredSymbol{Symbol: symbol, PercentDiff: pct})
	}
	sort.Slice(triggered, func(i, j int) bool { return triggered[i].Symbol < triggered[j].Symbol })

	elapsed := ElapsedFor(state.TickCount)
	symbols := state.Start.Len()
	if !state.End.Empty() {
		symbols = state.End.Len()
	}

	r.mu.Lock()
	r.status = Status{
		Phase:     state.Phase(),
		TickCount: state.TickCount,
		Minutes:   elapsed.Minutes,
		Seconds:   elapsed.Seconds,
		Symbols:   symbols,
		Triggered: triggered,
	}
	r.mu.Unlock()
}
