package homeassess

import "sort"

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

func PriorityLabel(p int) string {
	switch {
	case p >= PriorityUrgent:
		return "URGENT"
	case p == PriorityHigh:
		return "HIGH"
	case p == PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

type PriorityCost struct {
	Priority int
	Label    string
	Count    int
	Cost     float64
}

type CostSummary struct {
	Total          float64
	BudgetCap      float64
	WithinBudget   bool
	OverBy         float64
	EquipmentTotal float64
	// ByPriority runs from urgent down to low and always has four entries.
	ByPriority []PriorityCost
}

func CostBreakdown(out AssessmentOutput, budgetCap float64) CostSummary {
	s := CostSummary{
		Total:     TotalRecommendationCost(out.Recommendations),
		BudgetCap: budgetCap,
	}
	s.WithinBudget = s.Total <= budgetCap
	if !s.WithinBudget {
		s.OverBy = s.Total - budgetCap
	}
	for _, e := range out.EquipmentSuggestions {
		s.EquipmentTotal += e.EstimatedCost
	}
	for p := PriorityUrgent; p >= PriorityLow; p-- {
		pc := PriorityCost{Priority: p, Label: PriorityLabel(p)}
		for _, r := range out.Recommendations {
			if priorityBucket(r.Priority) == p {
				pc.Count++
				pc.Cost += r.EstimatedCost.Total
			}
		}
		s.ByPriority = append(s.ByPriority, pc)
	}
	return s
}

func priorityBucket(p int) int {
	switch {
	case p >= PriorityUrgent:
		return PriorityUrgent
	case p <= PriorityLow:
		return PriorityLow
	}
	return p
}

// SortByPriority returns a copy ordered by priority descending, then cost
// ascending. Ties keep their original order.
func SortByPriority(recs []RecommendedModification) []RecommendedModification {
	sorted := append([]RecommendedModification(nil), recs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].EstimatedCost.Total < sorted[j].EstimatedCost.Total
	})
	return sorted
}

// PrioritizeWithinBudget greedily selects recommendations in priority order
// until the budget is spent. Items that do not fit are returned as deferred.
func PrioritizeWithinBudget(recs []RecommendedModification, budget float64) (funded, deferred []RecommendedModification) {
	remaining := budget
	for _, r := range SortByPriority(recs) {
		if r.EstimatedCost.Total <= remaining {
			funded = append(funded, r)
			remaining -= r.EstimatedCost.Total
			continue
		}
		deferred = append(deferred, r)
	}
	return funded, deferred
}
