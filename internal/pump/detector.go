package pump

import (
	"time"

	"go.uber.org/zap"
)

// Recorder receives detector events for metrics. All methods must be cheap.
type Recorder interface {
	Tick(phase Phase)
	WindowReset()
	MalformedSnapshot()
	DiffsComputed(n int)
	AlertEmitted(symbol string)
}

type nopRecorder struct{}

func (nopRecorder) Tick(Phase)          {}
func (nopRecorder) WindowReset()        {}
func (nopRecorder) MalformedSnapshot()  {}
func (nopRecorder) DiffsComputed(int)   {}
func (nopRecorder) AlertEmitted(string) {}

// Config holds the detector tunables.
type Config struct {
	ThresholdPercent float64
	RearmDelta       float64
	WindowLimitTicks int
	TargetChannels   []string
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		ThresholdPercent: DefaultThresholdPercent,
		RearmDelta:       DefaultRearmDelta,
		WindowLimitTicks: DefaultWindowLimit,
		TargetChannels:   []string{"@pump_detect"},
	}
}

// Detector turns a stream of ticker batches into pump alerts.
//
// Detector holds no locks: OnBatch must not be called concurrently.
// Use Runner to serialize batches from several feeds.
type Detector struct {
	clock    WindowClock
	policy   TriggerPolicy
	channels []string
	state    WindowState

	notifier Notifier
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Detector)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Detector) { d.recorder = r }
}

// WithClock overrides the wall clock used to stamp alerts.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

func NewDetector(cfg Config, notifier Notifier, logger *zap.Logger, opts ...Option) *Detector {
	d := &Detector{
		clock:    WindowClock{Limit: cfg.WindowLimitTicks},
		policy:   TriggerPolicy{ThresholdPercent: cfg.ThresholdPercent, RearmDelta: cfg.RearmDelta},
		channels: append([]string(nil), cfg.TargetChannels...),
		state:    NewWindowState(),
		notifier: notifier,
		recorder: nopRecorder{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnBatch processes one ticker batch: reset the window if due, ingest,
// advance the tick count, diff, filter and hand every alert to the notifier.
func (d *Detector) OnBatch(batch []Snapshot) {
	state, reset := d.clock.Advance(d.state)
	if reset {
		d.logger.Info("window reset", zap.Int("ticks", d.state.TickCount),
			zap.Int("triggered", len(d.state.TriggerMemory)))
		d.recorder.WindowReset()
	}

	state = Ingest(state, d.validSnapshots(batch))
	state.TickCount++
	d.state = state
	d.recorder.Tick(state.Phase())

	diffs := ComputeDiffs(state.Start, state.End)
	d.recorder.DiffsComputed(len(diffs))

	alerts := d.policy.Filter(diffs, state.TriggerMemory)
	if len(alerts) == 0 {
		return
	}

	elapsed := ElapsedFor(state.TickCount)
	at := d.now()
	for _, diff := range alerts {
		d.logger.Info("pump detected",
			zap.String("symbol", diff.Symbol),
			zap.Float64("percent_diff", diff.PercentDiff),
			zap.Float64("price_from", diff.PriceFrom),
			zap.Float64("price_to", diff.PriceTo),
			zap.Int("tick", state.TickCount),
		)
		d.recorder.AlertEmitted(diff.Symbol)
		d.notifier.Deliver(d.channels, NewAlert(diff, elapsed, at))
	}
}

// validSnapshots drops snapshots with non-finite numbers. A malformed
// snapshot is counted and logged but never fails the batch.
func (d *Detector) validSnapshots(batch []Snapshot) []Snapshot {
	valid := make([]Snapshot, 0, len(batch))
	for _, s := range batch {
		if err := s.Validate(); err != nil {
			d.logger.Debug("skipping snapshot", zap.Error(err))
			d.recorder.MalformedSnapshot()
			continue
		}
		valid = append(valid, s)
	}
	return valid
}

// State returns a copy of the current window, safe to read after OnBatch returns.
func (d *Detector) State() WindowState {
	memory := make(map[string]float64, len(d.state.TriggerMemory))
	for symbol, v := range d.state.TriggerMemory {
		memory[symbol] = v
	}
	cp := d.state
	cp.TriggerMemory = memory
	return cp
}
