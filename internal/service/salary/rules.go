package salary

import (
	"strings"

	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

const (
	manualReasonKey   = "Manual"
	halfDayDefaultKey = "Half Day (Default)"
)

// Deductions is the engine's output: a total and its per-key breakdown.
type Deductions struct {
	Total  decimal.Decimal
	ByRule map[string]decimal.Decimal
}

func (d *Deductions) add(key string, amount decimal.Decimal) {
	d.Total = d.Total.Add(amount)
	d.ByRule[key] = d.ByRule[key].Add(amount)
}

// RuleEngine turns attendance events into deductions. Rules are grouped by
// type and keep the order they were given in (creation order).
type RuleEngine struct {
	byType map[salary.RuleType][]salary.DeductionRule
}

// NewRuleEngine keeps only active rules.
func NewRuleEngine(rules []salary.DeductionRule) *RuleEngine {
	e := &RuleEngine{byType: make(map[salary.RuleType][]salary.DeductionRule)}
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		e.byType[rule.RuleType] = append(e.byType[rule.RuleType], rule)
	}
	return e
}

// Apply evaluates events in the order given; callers pass them oldest
// first so the monthly late allowance is consumed chronologically.
func (e *RuleEngine) Apply(events []salary.AttendanceEvent, perDay decimal.Decimal) Deductions {
	d := Deductions{Total: decimal.Zero, ByRule: make(map[string]decimal.Decimal)}

	lateRules := e.byType[salary.RuleLateComing]
	lateSeen := make([]int, len(lateRules))

	// countLate advances each late rule's running count and reports which
	// rules are past their monthly allowance for this event.
	countLate := func(ev salary.AttendanceEvent) []bool {
		over := make([]bool, len(lateRules))
		for i, rule := range lateRules {
			if ev.LateMinutes <= rule.GraceMinutes {
				continue
			}
			lateSeen[i]++
			over[i] = lateSeen[i] > rule.MaxLateCount
		}
		return over
	}

	for _, ev := range events {
		if ev.DeductionAmount.IsPositive() && strings.TrimSpace(ev.DeductionReason) != "" {
			// Precomputed late arrivals still consume the allowance.
			if ev.Status == salary.StatusLate {
				countLate(ev)
			}
			d.add(reasonKey(ev.DeductionReason), ev.DeductionAmount)
			continue
		}

		switch ev.Status {
		case salary.StatusPresent:
		case salary.StatusAbsent:
			e.applyAll(&d, salary.RuleAbsent, perDay)
		case salary.StatusHalfDay:
			if len(e.byType[salary.RuleHalfDay]) == 0 {
				d.add(halfDayDefaultKey, perDay.Div(decimal.NewFromInt(2)))
				continue
			}
			e.applyAll(&d, salary.RuleHalfDay, perDay)
		case salary.StatusLate:
			for i, over := range countLate(ev) {
				if over {
					d.add(lateRules[i].Key(), lateRules[i].Amount(perDay))
				}
			}
		case salary.StatusEarlyDeparture:
			e.applyAll(&d, salary.RuleEarlyDeparture, perDay)
		}
	}

	return d
}

func (e *RuleEngine) applyAll(d *Deductions, t salary.RuleType, perDay decimal.Decimal) {
	for _, rule := range e.byType[t] {
		d.add(rule.Key(), rule.Amount(perDay))
	}
}

// reasonKey is the text before the first colon, e.g. "Late arrival" for
// "Late arrival: 12 minutes".
func reasonKey(reason string) string {
	i := strings.Index(reason, ":")
	if i < 0 {
		return manualReasonKey
	}
	key := strings.TrimSpace(reason[:i])
	if key == "" {
		return manualReasonKey
	}
	return key
}
