package leveling

// Overflow returns a generator of per-level XP deltas that continues past the
// end of a finite table, for skills with no hard cap. Each call to the
// returned function yields the next delta; ok reports whether a term was
// produced. The sequence is:
//
//	term 0: 0 (level 0 is free)
//	terms 1..len(table): the table verbatim
//	beyond: start from slope = (last − secondLast) × 2, add slope each
//	level, and double the slope after every 10 levels.
//
// maxTerms > 0 truncates the sequence; maxTerms <= 0 means unbounded. Every
// call to Overflow produces fresh iteration state, so generators are cheap to
// reconstruct per command.
func Overflow(table DeltaTable, maxTerms int) func() (float64, bool) {
	pos := 0
	level := 0
	var xp, slope float64
	return func() (float64, bool) {
		if maxTerms > 0 && pos >= maxTerms {
			return 0, false
		}
		pos++
		switch {
		case pos == 1:
			return 0, true
		case pos-1 <= len(table):
			return table[pos-2], true
		}
		// Extrapolation needs two trailing entries to derive a slope.
		if len(table) < 2 {
			return 0, false
		}
		if pos-1 == len(table)+1 {
			level = len(table)
			slope = (table[len(table)-1] - table[len(table)-2]) * 2
			xp = table[len(table)-1] + slope
			return xp, true
		}
		level++
		xp += slope
		if level%10 == 0 {
			slope *= 2
		}
		return xp, true
	}
}

// OverflowLevel walks the overflow sequence, paying deltas out of xp until
// the next one cannot be covered, and returns the fractional level reached.
func OverflowLevel(table DeltaTable, xp float64) float64 {
	next := Overflow(table, 0)
	remaining := xp
	level := -1
	for {
		delta, ok := next()
		if !ok {
			return max(float64(level), 0)
		}
		if remaining < delta {
			if delta > 0 {
				return max(float64(level)+remaining/delta, 0)
			}
			return max(float64(level), 0)
		}
		level++
		remaining -= delta
	}
}
