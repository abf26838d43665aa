package pump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPolicy = TriggerPolicy{ThresholdPercent: DefaultThresholdPercent, RearmDelta: DefaultRearmDelta}

func diff(symbol string, d, pct float64) DiffRecord {
	return DiffRecord{Symbol: symbol, Diff: d, PercentDiff: pct}
}

// go test -v --run TestFilterThreshold
func TestFilterThreshold(t *testing.T) {
	memory := map[string]float64{}

	out := defaultPolicy.Filter([]DiffRecord{
		diff("AT", 1, 7.5),    // equal to threshold: no
		diff("ABOVE", 1, 7.6), // yes
		diff("BELOW", 1, 3),   // no
	}, memory)

	require.Len(t, out, 1)
	assert.Equal(t, "ABOVE", out[0].Symbol)
	assert.Equal(t, map[string]float64{"ABOVE": 7.6}, memory)
}

// go test -v --run TestFilterNegativeDiff
func TestFilterNegativeDiff(t *testing.T) {
	memory := map[string]float64{}

	out := defaultPolicy.Filter([]DiffRecord{
		diff("DOWN", -5, 50),
		diff("FLAT", 0, 50),
	}, memory)

	assert.Empty(t, out)
	assert.Empty(t, memory)
}

// go test -v --run TestFilterNaN
func TestFilterNaN(t *testing.T) {
	memory := map[string]float64{}

	out := defaultPolicy.Filter([]DiffRecord{
		diff("NANDIFF", nan(), 50),
		diff("NANPCT", 1, nan()),
	}, memory)

	assert.Empty(t, out)
	assert.Empty(t, memory)
}

// go test -v --run TestFilterRearm
func TestFilterRearm(t *testing.T) {
	memory := map[string]float64{"AAA": 8}

	assert.Empty(t, defaultPolicy.Filter([]DiffRecord{diff("AAA", 1, 13)}, memory), "8+5 < 13 is false")
	assert.Equal(t, 8.0, memory["AAA"])

	out := defaultPolicy.Filter([]DiffRecord{diff("AAA", 1, 13.5)}, memory)
	require.Len(t, out, 1)
	assert.Equal(t, 13.5, memory["AAA"])
}

// go test -v --run TestFilterMonotonicMemory
func TestFilterMonotonicMemory(t *testing.T) {
	memory := map[string]float64{}
	series := []float64{8, 9, 20, 10, 26, 25.5, 31.1, 8}

	last := 0.0
	for _, pct := range series {
		defaultPolicy.Filter([]DiffRecord{diff("AAA", 1, pct)}, memory)
		cur := memory["AAA"]
		assert.GreaterOrEqual(t, cur, last)
		last = cur
	}
	assert.Equal(t, 31.1, last)
}

// go test -v --run TestFilterPreservesOrder
func TestFilterPreservesOrder(t *testing.T) {
	out := defaultPolicy.Filter([]DiffRecord{
		diff("C", 1, 10),
		diff("A", 1, 10),
		diff("B", -1, 10),
		diff("D", 1, 10),
	}, map[string]float64{})

	var symbols []string
	for _, d := range out {
		symbols = append(symbols, d.Symbol)
	}
	assert.Equal(t, []string{"C", "A", "D"}, symbols)
}
