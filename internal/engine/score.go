package engine

import (
	"github.com/prospectscan/prospectscan/internal/model"
)

// Opportunity-score bands per priority. Bands do not overlap, which is what
// guarantees the monotonicity contract: a higher-severity priority always
// scores above a lower one regardless of the within-band deltas.
var scoreBands = map[model.ActionPriority]struct{ lo, hi int }{
	model.PriorityCritical:  {80, 100},
	model.PriorityHigh:      {60, 79},
	model.PriorityMedium:    {40, 59},
	model.PriorityLow:       {20, 39},
	model.PriorityDiscarded: {0, 19},
}

// opportunityScore places the pair inside its priority band and nudges it by
// additive deltas from the same inputs the rule lookup saw. The exact weights
// are not load-bearing; staying inside the band is.
func opportunityScore(priority model.ActionPriority, bc model.BusinessContext, sp model.SecurityPosture) int {
	band, ok := scoreBands[priority]
	if !ok {
		band = scoreBands[model.PriorityMedium]
	}

	score := band.lo

	// Investment signals raise urgency within the band.
	bonus := 3 * len(bc.InvestmentSignals)
	if bonus > 9 {
		bonus = 9
	}
	score += bonus

	switch bc.Pressure {
	case model.PressureCritical:
		score += 7
	case model.PressureHigh:
		score += 4
	}

	// Hygiene gaps mean faster wins.
	if !sp.HasDMARC {
		score += 2
	}
	if !sp.HasHTTPS {
		score += 2
	}

	if score > band.hi {
		score = band.hi
	}
	return score
}
