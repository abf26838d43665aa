package pump

import "math"

// ComputeDiffs compares every symbol of the start set with the end set, in
// start insertion order. Symbols missing from the end set are skipped. The
// result is empty until both sets hold data.
//
// PercentDiff is the distance between the two reported 24h change percentages,
// not the percent change from PriceFrom to PriceTo.
func ComputeDiffs(start, end SnapshotSet) []DiffRecord {
	if start.Empty() || end.Empty() {
		return nil
	}

	diffs := make([]DiffRecord, 0, start.Len())
	for _, symbol := range start.symbols {
		to, ok := end.Get(symbol)
		if !ok {
			continue // delisted or missing from the latest batch
		}
		from := start.bySymbol[symbol]

		diffs = append(diffs, DiffRecord{
			Symbol:           symbol,
			PriceFrom:        from.Price,
			PriceTo:          to.Price,
			Diff:             to.Price - from.Price,
			DayChangePercent: to.DayChangePercent,
			DayHigh:          to.DayHigh,
			DayLow:           to.DayLow,
			PercentDiff:      math.Abs(to.DayChangePercent - from.DayChangePercent),
		})
	}
	return diffs
}
