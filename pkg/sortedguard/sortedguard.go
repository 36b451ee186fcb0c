// Package sortedguard enforces or abandons the "feeded sorted" contract
// (spec section 4.4): it detects timestamp regressions, deduplicates
// equal-timestamp frame segments, and clamps non-monotonic output while
// sorted mode holds.
package sortedguard

// Guard tracks the last accepted extended RTP timestamp and emitted PTS
// for a sorted-mode stream.
type Guard struct {
	have    bool
	lastExt uint64
	lastPTS uint64
}

// PreCheckResult is the outcome of checking an incoming packet's
// extended timestamp before PTS computation.
type PreCheckResult struct {
	// Regressed is true whenever a packet's timestamp is lower than the
	// last accepted one; the caller must demote out of sorted mode and
	// report an error, but still process the packet normally.
	Regressed bool

	// Duplicate is true when this timestamp equals the previous one;
	// PTSIfDuplicate should be used verbatim and PTS computation
	// skipped entirely.
	Duplicate      bool
	PTSIfDuplicate uint64
}

// PreCheck inspects extended timestamp r against the last accepted one.
func (g *Guard) PreCheck(r uint64) PreCheckResult {
	if !g.have {
		return PreCheckResult{}
	}

	if r < g.lastExt {
		return PreCheckResult{Regressed: true}
	}

	if r == g.lastExt {
		return PreCheckResult{Duplicate: true, PTSIfDuplicate: g.lastPTS}
	}

	return PreCheckResult{}
}

// PostFix clamps a freshly computed PTS to the last emitted one if it
// would otherwise regress, then records the new (r, pts) pair as the
// last accepted one.
func (g *Guard) PostFix(r, pts uint64) uint64 {
	if g.have && pts < g.lastPTS {
		pts = g.lastPTS
	}

	g.have = true
	g.lastExt = r
	g.lastPTS = pts

	return pts
}
