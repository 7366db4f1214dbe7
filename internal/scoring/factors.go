package scoring

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FactorResult captures one component's contribution to the total score.
type FactorResult struct {
	Name      string  `json:"name"`
	Points    float64 `json:"points"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

// Default values used when an input attribute is missing.
const (
	DefaultImportance     = 5.0
	DefaultEstimatedHours = 1.0
)

// UrgencyFactor maps days remaining until the due date to 0–100 points.
// Upper bounds of each bucket are inclusive.
func UrgencyFactor(in Input, today time.Time) FactorResult {
	if in.DueDate == nil {
		return FactorResult{Name: "urgency", Points: 0, Available: false,
			Reason: "No valid due date; treated as low urgency."}
	}

	days := daysBetween(today, *in.DueDate)
	switch {
	case days < 0:
		return FactorResult{Name: "urgency", Points: 100, Available: true, Reason: "Task is overdue."}
	case days <= 1:
		return FactorResult{Name: "urgency", Points: 60, Available: true, Reason: "Task due today/tomorrow."}
	case days <= 3:
		return FactorResult{Name: "urgency", Points: 40, Available: true, Reason: "Task due within 3 days."}
	case days <= 7:
		return FactorResult{Name: "urgency", Points: 20, Available: true, Reason: "Task due within a week."}
	default:
		return FactorResult{Name: "urgency", Points: 5, Available: true, Reason: "Task due later than a week."}
	}
}

// ImportanceFactor scales importance by 5. Out-of-range values are not clamped.
func ImportanceFactor(in Input) FactorResult {
	importance := DefaultImportance
	if in.Importance != nil {
		importance = *in.Importance
	}
	points := importance * 5
	shown := formatPoints(points)
	if in.FloatImportance {
		shown = formatFloatPoints(points)
	}
	return FactorResult{
		Name:      "importance",
		Points:    points,
		Available: in.Importance != nil,
		Reason:    "Importance contributes " + shown + " points.",
	}
}

// EffortFactor rewards quick wins and slightly penalises large tasks.
func EffortFactor(in Input) FactorResult {
	hours := DefaultEstimatedHours
	if in.EstimatedHours != nil {
		hours = *in.EstimatedHours
	}
	available := in.EstimatedHours != nil

	switch {
	case hours <= 1:
		return FactorResult{Name: "effort", Points: 20, Available: available,
			Reason: "Very small task (≤1h); strong quick-win bonus."}
	case hours <= 3:
		return FactorResult{Name: "effort", Points: 10, Available: available,
			Reason: "Small task (≤3h); quick-win bonus."}
	case hours <= 6:
		return FactorResult{Name: "effort", Points: 0, Available: available,
			Reason: "Medium task; neutral effort impact."}
	default:
		return FactorResult{Name: "effort", Points: -10, Available: available,
			Reason: "Large task; slight penalty for high effort."}
	}
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFloatPoints prints v the way a float literal round-trips: always with
// a decimal part, switching to exponent form outside [1e-4, 1e16).
func formatFloatPoints(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
