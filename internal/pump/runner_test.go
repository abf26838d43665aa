package pump

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type syncNotifier struct {
	mu     sync.Mutex
	alerts []Alert
}

func (s *syncNotifier) Deliver(_ []string, alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

func (s *syncNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

// go test -v --run TestRunnerSerializesFeeds
func TestRunnerSerializesFeeds(t *testing.T) {
	n := &syncNotifier{}
	d := NewDetector(DefaultConfig(), n, zap.NewNop())
	r := NewRunner(d, 4, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.NoError(t, r.Submit(ctx, []Snapshot{snap("A", 100, 1)}))

	// Two feeds submitting concurrently must not race on the detector.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = r.Submit(ctx, []Snapshot{snap("A", 110, 9)})
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return r.Status().TickCount == 21 }, 2*time.Second, 10*time.Millisecond)

	status := r.Status()
	assert.Equal(t, PhaseActive, status.Phase)
	assert.Equal(t, 0, status.Minutes)
	assert.Equal(t, 21, status.Seconds)
	assert.Equal(t, 1, status.Symbols)
	assert.Equal(t, []TriggeredSymbol{{Symbol: "A", PercentDiff: 8}}, status.Triggered)
	assert.Equal(t, 1, n.count())

	cancel()
	<-done
}

// go test -v --run TestRunnerSubmitCancelled
func TestRunnerSubmitCancelled(t *testing.T) {
	r := NewRunner(NewDetector(DefaultConfig(), &syncNotifier{}, zap.NewNop()), 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Submit(ctx, nil)) // fills the queue, nobody is running

	cancel()
	assert.ErrorIs(t, r.Submit(ctx, nil), context.Canceled)
}

// go test -v --run TestRunnerInitialStatus
func TestRunnerInitialStatus(t *testing.T) {
	r := NewRunner(NewDetector(DefaultConfig(), &syncNotifier{}, zap.NewNop()), 1, zap.NewNop())
	assert.Equal(t, PhaseEmpty, r.Status().Phase)
}
