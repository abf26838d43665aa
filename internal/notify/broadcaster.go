package notify

import (
	"context"
	"time"

	"pumpdetector/internal/pump"

	"go.uber.org/zap"
)

// Sink delivers one alert to one destination system.
type Sink interface {
	Name() string
	Send(ctx context.Context, channels []string, alert pump.Alert) error
}

// Recorder receives delivery outcomes for metrics.
type Recorder interface {
	AlertDropped()
	SinkDelivered(sink string)
	SinkFailed(sink string)
}

type nopRecorder struct{}

func (nopRecorder) AlertDropped()        {}
func (nopRecorder) SinkDelivered(string) {}
func (nopRecorder) SinkFailed(string)    {}

type job struct {
	channels []string
	alert    pump.Alert
}

// Broadcaster fans alerts out to every sink from a background worker.
// Deliver never blocks: when the queue is full the alert is dropped.
type Broadcaster struct {
	sinks    []Sink
	queue    chan job
	timeout  time.Duration
	logger   *zap.Logger
	recorder Recorder
	done     chan struct{}
}

func NewBroadcaster(sinks []Sink, queueSize int, timeout time.Duration, logger *zap.Logger, recorder Recorder) *Broadcaster {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Broadcaster{
		sinks:    sinks,
		queue:    make(chan job, queueSize),
		timeout:  timeout,
		logger:   logger,
		recorder: recorder,
		done:     make(chan struct{}),
	}
}

// Deliver implements pump.Notifier.
func (b *Broadcaster) Deliver(channels []string, alert pump.Alert) {
	select {
	case b.queue <- job{channels: channels, alert: alert}:
	default:
		b.logger.Warn("dropping alert, delivery queue full", zap.String("symbol", alert.Symbol))
		b.recorder.AlertDropped()
	}
}

// Run sends queued alerts until ctx is done. A send in progress finishes
// before Run returns. Run must be called at most once.
func (b *Broadcaster) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-b.queue:
			b.send(ctx, j)
		}
	}
}

// Done is closed once Run has returned. Sinks may be closed after that.
func (b *Broadcaster) Done() <-chan struct{} { return b.done }

func (b *Broadcaster) send(ctx context.Context, j job) {
	for _, sink := range b.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, b.timeout)
		err := sink.Send(sendCtx, j.channels, j.alert)
		cancel()

		if err != nil {
			b.logger.Error("alert delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("symbol", j.alert.Symbol),
				zap.Error(err))
			b.recorder.SinkFailed(sink.Name())
			continue
		}
		b.recorder.SinkDelivered(sink.Name())
	}
}
