package pump

// DefaultWindowLimit is the number of batches in one window (five minutes at one batch per second).
const DefaultWindowLimit = 60 * 5

// WindowClock decides when the window resets.
type WindowClock struct {
	Limit int
}

// Advance returns a fresh empty window once the tick count has reached the
// limit, otherwise the state unchanged. It runs before the batch is ingested,
// so the batch that crosses the limit becomes the new window's start.
func (c WindowClock) Advance(state WindowState) (WindowState, bool) {
	if state.TickCount >= c.Limit {
		return NewWindowState(), true
	}
	return state, false
}

// ElapsedFor converts a tick count into minutes and seconds.
func ElapsedFor(tickCount int) Elapsed {
	minutes := tickCount / 60
	return Elapsed{
		Minutes: minutes,
		Seconds: tickCount - minutes*60,
	}
}
