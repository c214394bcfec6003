// Package domain holds the explainable period-comparison insight value object.
package domain

// Insight is one self-contained comparison result. The rule description,
// literal inputs, and gating thresholds travel with the title so a consumer
// can explain the number without recomputing it. Insights are query-scoped:
// recomputed per request, never cached across periods.
type Insight struct {
	Title           string
	RuleDescription string
	// InputValues are the literal values the rule used.
	InputValues map[string]float64
	// Thresholds are the numeric gates that allowed the insight to fire.
	Thresholds map[string]float64
}
