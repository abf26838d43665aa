package pump

// SnapshotSet maps symbols to snapshots and remembers the order in which
// symbols were first added.
type SnapshotSet struct {
	symbols  []string
	bySymbol map[string]Snapshot
}

// NewSnapshotSet builds a fresh set from a batch. A later entry for a symbol
// replaces the earlier value but keeps the symbol's original position.
func NewSnapshotSet(batch []Snapshot) SnapshotSet {
	set := SnapshotSet{
		symbols:  make([]string, 0, len(batch)),
		bySymbol: make(map[string]Snapshot, len(batch)),
	}
	for _, s := range batch {
		if _, seen := set.bySymbol[s.Symbol]; !seen {
			set.symbols = append(set.symbols, s.Symbol)
		}
		set.bySymbol[s.Symbol] = s
	}
	return set
}

func (s SnapshotSet) Len() int { return len(s.symbols) }

func (s SnapshotSet) Empty() bool { return len(s.symbols) == 0 }

func (s SnapshotSet) Get(symbol string) (Snapshot, bool) {
	snap, ok := s.bySymbol[symbol]
	return snap, ok
}

// Symbols returns a copy of the symbols in insertion order.
func (s SnapshotSet) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Phase is the global window state machine position.
type Phase string

const (
	PhaseEmpty        Phase = "empty"        // no start snapshot yet
	PhaseAccumulating Phase = "accumulating" // start set, waiting for a second batch
	PhaseActive       Phase = "active"       // start and end set, diffs computed every tick
)

// WindowState anchors the current observation window.
type WindowState struct {
	Start         SnapshotSet
	End           SnapshotSet
	TickCount     int
	TriggerMemory map[string]float64 // percentDiff at the last trigger, per symbol
}

// NewWindowState returns an empty window.
func NewWindowState() WindowState {
	return WindowState{TriggerMemory: make(map[string]float64)}
}

func (w WindowState) Phase() Phase {
	switch {
	case w.Start.Empty():
		return PhaseEmpty
	case w.End.Empty():
		return PhaseAccumulating
	default:
		return PhaseActive
	}
}

// Ingest stores a batch in the window. The first batch of a window becomes
// the start; every later batch replaces the end wholesale.
func Ingest(state WindowState, batch []Snapshot) WindowState {
	set := NewSnapshotSet(batch)
	if state.Start.Empty() {
		state.Start = set
	} else {
		state.End = set
	}
	return state
}
