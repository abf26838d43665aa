package pump

const (
	DefaultThresholdPercent = 7.5
	DefaultRearmDelta       = 5.0
)

// TriggerPolicy selects alert-worthy diffs and suppresses repeats for
// incremental moves within the same window.
type TriggerPolicy struct {
	ThresholdPercent float64
	RearmDelta       float64
}

// Filter keeps the diffs that moved up by more than the threshold and, for
// symbols that already triggered, grew by more than RearmDelta since the last
// trigger. Memory is updated for every diff that passes, before any delivery
// happens. Input order is preserved.
func (p TriggerPolicy) Filter(diffs []DiffRecord, memory map[string]float64) []DiffRecord {
	var out []DiffRecord
	for _, d := range diffs {
		if !p.passes(d, memory) {
			continue
		}
		memory[d.Symbol] = d.PercentDiff
		out = append(out, d)
	}
	return out
}

func (p TriggerPolicy) passes(d DiffRecord, memory map[string]float64) bool {
	// Written as positive comparisons so NaN never passes.
	if !(d.Diff > 0 && d.PercentDiff > p.ThresholdPercent) {
		return false
	}
	last, triggered := memory[d.Symbol]
	return !triggered || last+p.RearmDelta < d.PercentDiff
}
