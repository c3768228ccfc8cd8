package sport

import (
	"fmt"
	"math"
)

// CricketExtensionKey is the top-level extension block holding per-side
// innings counters.
const CricketExtensionKey = "cricket"

const (
	cricketFieldRuns    = "runs"
	cricketFieldOvers   = "overs"
	cricketFieldWickets = "wickets"
	cricketFieldFours   = "fours"
	cricketFieldSixes   = "sixes"
	cricketFieldWides   = "wides"
	cricketFieldExtras  = "extras"
	cricketFieldRunRate = "run_rate"

	ballsPerOver = 6
)

// CricketStrategy merges cricket innings blocks and recomputes the run
// rate from raw counters; caller-supplied run_rate values are never
// trusted.
type CricketStrategy struct{}

func NewCricketStrategy() CricketStrategy { return CricketStrategy{} }

func (CricketStrategy) Name() string { return "cricket" }

func (CricketStrategy) ScoreUnit(delta int) string {
	if delta == 1 {
		return "run"
	}
	return "runs"
}

func (CricketStrategy) ValidateExtension(extra map[string]any) error {
	raw, ok := extra[CricketExtensionKey]
	if !ok {
		return nil
	}
	block, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("cricket block must be an object")
	}

	for _, sideKey := range []string{SideKeyTeamA, SideKeyTeamB} {
		sideRaw, ok := block[sideKey]
		if !ok {
			continue
		}
		innings, ok := sideRaw.(map[string]any)
		if !ok {
			return fmt.Errorf("cricket.%s must be an object", sideKey)
		}
		for _, field := range []string{
			cricketFieldRuns, cricketFieldWickets, cricketFieldFours,
			cricketFieldSixes, cricketFieldWides, cricketFieldExtras,
		} {
			v, ok := innings[field]
			if !ok {
				continue
			}
			n, ok := numberValue(v)
			if !ok || n < 0 {
				return fmt.Errorf("cricket.%s.%s must be a non-negative number", sideKey, field)
			}
		}
		if v, ok := innings[cricketFieldOvers]; ok {
			overs, ok := numberValue(v)
			if !ok || overs < 0 {
				return fmt.Errorf("cricket.%s.overs must be a non-negative number", sideKey)
			}
			if _, err := OversToBalls(overs); err != nil {
				return fmt.Errorf("cricket.%s.overs: %v", sideKey, err)
			}
		}
	}

	return nil
}

func (CricketStrategy) MergeExtension(existing, incoming map[string]any) map[string]any {
	merged := shallowMerge(existing, incoming)

	raw, ok := merged[CricketExtensionKey]
	if !ok {
		return merged
	}
	block, ok := raw.(map[string]any)
	if !ok {
		return merged
	}

	recomputed := make(map[string]any, len(block))
	for k, v := range block {
		recomputed[k] = v
	}
	for _, sideKey := range []string{SideKeyTeamA, SideKeyTeamB} {
		innings, ok := recomputed[sideKey].(map[string]any)
		if !ok {
			continue
		}
		next := make(map[string]any, len(innings)+1)
		for k, v := range innings {
			next[k] = v
		}
		next[cricketFieldRunRate] = recomputeRunRate(next)
		recomputed[sideKey] = next
	}
	merged[CricketExtensionKey] = recomputed

	return merged
}

func (s CricketStrategy) ScoreIncident(side, sideKey string, delta int, prevExt, newExt map[string]any) string {
	prev := cricketInnings(prevExt, sideKey)
	next := cricketInnings(newExt, sideKey)

	// Extension deltas take priority over the generic wording:
	// six > four > wicket > wide/extra.
	if inningsDelta(prev, next, cricketFieldSixes) > 0 {
		return "Six! " + side + " cleared the ropes"
	}
	if inningsDelta(prev, next, cricketFieldFours) > 0 {
		return "Four! " + side + " found the boundary"
	}
	if inningsDelta(prev, next, cricketFieldWickets) > 0 {
		return "Wicket! " + side + " lost a wicket"
	}
	if inningsDelta(prev, next, cricketFieldWides)+inningsDelta(prev, next, cricketFieldExtras) > 0 {
		return "Extras added to " + side + "'s total"
	}

	return renderScored(side, delta, s.ScoreUnit(delta))
}

// OversToBalls converts the wholeOvers.ballsInOver encoding into legal
// balls. The fractional digit counts balls 0-5 within the current over;
// it is not a base-10 fraction, so 4.3 means 4*6+3 = 27 balls.
func OversToBalls(overs float64) (int, error) {
	if overs < 0 {
		return 0, fmt.Errorf("overs cannot be negative")
	}
	tenths := int(math.Round(overs * 10))
	whole := tenths / 10
	balls := tenths % 10
	if balls > ballsPerOver-1 {
		return 0, fmt.Errorf("balls digit must be 0-5, got %d", balls)
	}
	return whole*ballsPerOver + balls, nil
}

// RunRate is runs per six-ball over, defined as 0 when no legal ball has
// been bowled.
func RunRate(runs, totalBalls int) float64 {
	if totalBalls == 0 {
		return 0
	}
	return float64(runs) / (float64(totalBalls) / float64(ballsPerOver))
}

func recomputeRunRate(innings map[string]any) float64 {
	runs, _ := numberValue(innings[cricketFieldRuns])
	overs, _ := numberValue(innings[cricketFieldOvers])
	balls, err := OversToBalls(overs)
	if err != nil {
		return 0
	}
	return RunRate(int(runs), balls)
}

func cricketInnings(ext map[string]any, sideKey string) map[string]any {
	block, ok := ext[CricketExtensionKey].(map[string]any)
	if !ok {
		return nil
	}
	innings, _ := block[sideKey].(map[string]any)
	return innings
}

func inningsDelta(prev, next map[string]any, field string) int {
	before, _ := numberValue(prev[field])
	after, _ := numberValue(next[field])
	d := int(after) - int(before)
	if d < 0 {
		return 0
	}
	return d
}
