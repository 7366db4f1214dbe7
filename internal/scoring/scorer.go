package scoring

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// Input holds the task attributes the scorer reads. Nil fields take defaults.
type Input struct {
	DueDate        *time.Time
	Importance     *float64
	EstimatedHours *float64

	// FloatImportance marks importance read from a floating-point literal
	// such as 5.0; its points are then printed with a decimal part.
	FloatImportance bool
}

// Result is the outcome of scoring one task.
type Result struct {
	Score       float64        `json:"score"`
	Explanation string         `json:"explanation"`
	Strategy    Strategy       `json:"strategy"`
	Band        Band           `json:"priority"`
	Factors     []FactorResult `json:"factors"`
}

// Clock supplies the reference "today".
type Clock func() time.Time

// Scorer combines urgency, importance and effort points under a strategy.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	clock  Clock
	logger *slog.Logger
}

// NewScorer creates a Scorer. A nil clock means time.Now.
func NewScorer(clock Clock, logger *slog.Logger) *Scorer {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{clock: clock, logger: logger}
}

// Today returns the scorer's current reference date.
func (s *Scorer) Today() time.Time {
	return civil(s.clock())
}

// Score scores in against today's date.
func (s *Scorer) Score(in Input, strategy Strategy) Result {
	r := ScoreAt(in, strategy, s.clock())
	s.logger.Debug("scored task", "strategy", r.Strategy, "score", r.Score)
	return r
}

// CalculateTaskScore scores a loosely typed task record, as decoded from JSON.
func (s *Scorer) CalculateTaskScore(task map[string]any, strategy string) Result {
	return s.Score(InputFromMap(task), Strategy(strategy))
}

// ScoreAt is the pure scoring function: identical arguments always yield an
// identical result.
func ScoreAt(in Input, strategy Strategy, today time.Time) Result {
	profile := ProfileFor(strategy)

	factors := []FactorResult{
		UrgencyFactor(in, today),
		ImportanceFactor(in),
		EffortFactor(in),
	}
	weights := []float64{
		profile.Weights.Urgency,
		profile.Weights.Importance,
		profile.Weights.Effort,
	}

	var total float64
	clauses := make([]string, 0, len(factors)+1)
	for i := range factors {
		factors[i].Weight = weights[i]
		factors[i].Weighted = factors[i].Points * weights[i]
		total += factors[i].Weighted
		clauses = append(clauses, factors[i].Reason)
	}
	clauses = append(clauses, profile.Clause)

	score := round2(total)
	return Result{
		Score:       score,
		Explanation: strings.Join(clauses, " "),
		Strategy:    profile.Strategy,
		Band:        BandFor(score),
		Factors:     factors,
	}
}

// InputFromMap reads due_date, importance and estimated_hours from a record.
// Values of the wrong type are treated as missing.
func InputFromMap(task map[string]any) Input {
	var in Input
	if d, ok := ParseDueDate(task["due_date"]); ok {
		in.DueDate = &d
	}
	if v, ok := number(task["importance"]); ok {
		in.Importance = &v
		in.FloatImportance = floatLiteral(task["importance"])
	}
	if v, ok := number(task["estimated_hours"]); ok {
		in.EstimatedHours = &v
	}
	return in
}

func number(raw any) (float64, bool) {
	f, ok := asFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatLiteral(raw any) bool {
	switch v := raw.(type) {
	case float64, float32:
		return true
	case json.Number:
		return strings.ContainsAny(string(v), ".eE")
	case string:
		return strings.ContainsAny(strings.TrimSpace(v), ".eE")
	}
	return false
}

func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// round2 rounds to two decimals. Magnitudes past 1e15 carry no fractional
// digits and would overflow when scaled, so they pass through.
func round2(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*100) / 100
}
