package scoring

import "strings"

// Strategy selects the weighting profile used to combine factor points.
type Strategy string

const (
	StrategySmart    Strategy = "smart"
	StrategyDeadline Strategy = "deadline"
	StrategyFastest  Strategy = "fastest"
	StrategyImpact   Strategy = "impact"
)

// WeightSet defines the multiplier applied to each factor's points.
type WeightSet struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
}

// Profile describes one strategy: its weights and the clause it appends.
type Profile struct {
	Strategy Strategy  `json:"strategy"`
	Label    string    `json:"label"`
	Weights  WeightSet `json:"weights"`
	Clause   string    `json:"clause"`
}

var profiles = map[Strategy]Profile{
	StrategyDeadline: {
		Strategy: StrategyDeadline,
		Label:    "Deadline Driven",
		Weights:  WeightSet{Urgency: 2, Importance: 1, Effort: 0.5},
		Clause:   "Strategy: Deadline Driven (urgency heavily weighted).",
	},
	StrategyFastest: {
		Strategy: StrategyFastest,
		Label:    "Fastest Wins",
		Weights:  WeightSet{Urgency: 0.5, Importance: 1, Effort: 2},
		Clause:   "Strategy: Fastest Wins (low effort heavily weighted).",
	},
	StrategyImpact: {
		Strategy: StrategyImpact,
		Label:    "High Impact",
		Weights:  WeightSet{Urgency: 1, Importance: 2, Effort: 0.5},
		Clause:   "Strategy: High Impact (importance heavily weighted).",
	},
	StrategySmart: {
		Strategy: StrategySmart,
		Label:    "Smart Balance",
		Weights:  WeightSet{Urgency: 1.3, Importance: 1.3, Effort: 1.0},
		Clause:   "Strategy: Smart Balance (balanced across factors).",
	},
}

// ParseStrategy normalises s case-insensitively. Unknown or empty values
// resolve to StrategySmart.
func ParseStrategy(s string) Strategy {
	st := Strategy(strings.ToLower(s))
	if _, ok := profiles[st]; ok {
		return st
	}
	return StrategySmart
}

// ProfileFor returns the profile of st, falling back to smart.
func ProfileFor(st Strategy) Profile {
	return profiles[ParseStrategy(string(st))]
}

// Profiles lists every strategy profile in a stable order.
func Profiles() []Profile {
	return []Profile{
		profiles[StrategySmart],
		profiles[StrategyDeadline],
		profiles[StrategyFastest],
		profiles[StrategyImpact],
	}
}
