package salary

import (
	"testing"

	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/stretchr/testify/assert"
)

func rule(name string, rt salary.RuleType, dt salary.DeductionType, value int64) salary.DeductionRule {
	return salary.DeductionRule{
		RuleName:       name,
		RuleType:       rt,
		DeductionType:  dt,
		DeductionValue: d(value),
		MaxLateCount:   salary.DefaultMaxLateCount,
		IsActive:       true,
	}
}

func events(status salary.AttendanceStatus, n int) []salary.AttendanceEvent {
	out := make([]salary.AttendanceEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, salary.AttendanceEvent{Date: day(2024, 3, i+1), Status: status})
	}
	return out
}

func TestRuleAmount(t *testing.T) {
	perDay := d(1000)

	assert.True(t, d(250).Equal(rule("p", salary.RuleAbsent, salary.DeductionPercentage, 25).Amount(perDay)))
	assert.True(t, d(75).Equal(rule("f", salary.RuleAbsent, salary.DeductionFixedAmount, 75).Amount(perDay)))
	assert.True(t, d(1000).Equal(rule("full", salary.RuleAbsent, salary.DeductionFullDay, 0).Amount(perDay)))
	assert.True(t, d(500).Equal(rule("half", salary.RuleAbsent, salary.DeductionHalfDay, 0).Amount(perDay)))
}

func TestRuleEngine_AbsentFullDay(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Absence", salary.RuleAbsent, salary.DeductionFullDay, 0),
	})

	got := engine.Apply(events(salary.StatusAbsent, 2), d(1000))

	assert.True(t, d(2000).Equal(got.Total))
	assert.True(t, d(2000).Equal(got.ByRule["Absence"]))
}

func TestRuleEngine_MultipleRulesOnOneEventAreSummed(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Absence", salary.RuleAbsent, salary.DeductionFullDay, 0),
		rule("Absence Fine", salary.RuleAbsent, salary.DeductionFixedAmount, 50),
	})

	got := engine.Apply(events(salary.StatusAbsent, 1), d(1000))

	assert.True(t, d(1050).Equal(got.Total))
	assert.Len(t, got.ByRule, 2)
}

func TestRuleEngine_InactiveRulesIgnored(t *testing.T) {
	inactive := rule("Old Absence", salary.RuleAbsent, salary.DeductionFullDay, 0)
	inactive.IsActive = false

	got := NewRuleEngine([]salary.DeductionRule{inactive}).Apply(events(salary.StatusAbsent, 3), d(1000))

	assert.True(t, got.Total.IsZero())
	assert.Empty(t, got.ByRule)
}

func TestRuleEngine_HalfDayDefault(t *testing.T) {
	got := NewRuleEngine(nil).Apply(events(salary.StatusHalfDay, 2), d(900))

	assert.True(t, d(900).Equal(got.Total))
	assert.True(t, d(900).Equal(got.ByRule["Half Day (Default)"]))
}

func TestRuleEngine_HalfDayConfiguredRuleReplacesDefault(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Half Day Cut", salary.RuleHalfDay, salary.DeductionPercentage, 40),
	})

	got := engine.Apply(events(salary.StatusHalfDay, 1), d(1000))

	assert.True(t, d(400).Equal(got.Total))
	_, hasDefault := got.ByRule["Half Day (Default)"]
	assert.False(t, hasDefault)
}

func TestRuleEngine_LateThreshold(t *testing.T) {
	late := rule("Late Fine", salary.RuleLateComing, salary.DeductionFixedAmount, 100)
	late.GraceMinutes = 10

	lateDays := func(n, minutes int) []salary.AttendanceEvent {
		out := events(salary.StatusLate, n)
		for i := range out {
			out[i].LateMinutes = minutes
		}
		return out
	}

	tests := []struct {
		name   string
		events []salary.AttendanceEvent
		want   int64
	}{
		{"three late arrivals are free", lateDays(3, 15), 0},
		{"fourth late arrival costs one application", lateDays(4, 15), 100},
		{"sixth late arrival costs three applications", lateDays(6, 15), 300},
		{"arrivals within grace never count", lateDays(6, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRuleEngine([]salary.DeductionRule{late}).Apply(tt.events, d(1000))
			assert.True(t, d(tt.want).Equal(got.Total), "got %s", got.Total)
		})
	}
}

func TestRuleEngine_LateWithinGraceDoesNotConsumeAllowance(t *testing.T) {
	late := rule("Late Fine", salary.RuleLateComing, salary.DeductionFixedAmount, 100)
	late.GraceMinutes = 10
	late.MaxLateCount = 1

	evs := events(salary.StatusLate, 3)
	evs[0].LateMinutes = 5
	evs[1].LateMinutes = 20
	evs[2].LateMinutes = 20

	got := NewRuleEngine([]salary.DeductionRule{late}).Apply(evs, d(1000))

	assert.True(t, d(100).Equal(got.Total))
}

func TestRuleEngine_ZeroMaxLateCountChargesEveryLateArrival(t *testing.T) {
	late := rule("Late Fine", salary.RuleLateComing, salary.DeductionPercentage, 10)
	late.MaxLateCount = 0

	evs := events(salary.StatusLate, 2)
	for i := range evs {
		evs[i].LateMinutes = 1
	}

	got := NewRuleEngine([]salary.DeductionRule{late}).Apply(evs, d(1000))

	assert.True(t, d(200).Equal(got.Total))
}

func TestRuleEngine_EarlyDepartureAlwaysApplies(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Left Early", salary.RuleEarlyDeparture, salary.DeductionHalfDay, 0),
	})

	got := engine.Apply(events(salary.StatusEarlyDeparture, 1), d(800))

	assert.True(t, d(400).Equal(got.ByRule["Left Early"]))
}

func TestRuleEngine_PrecomputedDeductions(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Absence", salary.RuleAbsent, salary.DeductionFullDay, 0),
	})

	evs := []salary.AttendanceEvent{
		{Date: day(2024, 3, 1), Status: salary.StatusLate, LateMinutes: 12, DeductionAmount: d(50), DeductionReason: "Late arrival: 12 minutes"},
		{Date: day(2024, 3, 2), Status: salary.StatusLate, LateMinutes: 30, DeductionAmount: d(70), DeductionReason: "Late arrival: 30 minutes"},
		{Date: day(2024, 3, 3), Status: salary.StatusAbsent, DeductionAmount: d(10), DeductionReason: "adjusted by office"},
	}

	got := engine.Apply(evs, d(1000))

	assert.True(t, d(130).Equal(got.Total))
	assert.True(t, d(120).Equal(got.ByRule["Late arrival"]))
	assert.True(t, d(10).Equal(got.ByRule["Manual"]))
	_, ruleApplied := got.ByRule["Absence"]
	assert.False(t, ruleApplied, "precomputed events are not re-evaluated")
}

func TestRuleEngine_PrecomputedLateArrivalsCountTowardAllowance(t *testing.T) {
	late := rule("Late", salary.RuleLateComing, salary.DeductionFixedAmount, 100)
	late.GraceMinutes = 10
	late.MaxLateCount = 3

	evs := events(salary.StatusLate, 4)
	for i := range evs {
		evs[i].LateMinutes = 20
	}
	for i := 0; i < 3; i++ {
		evs[i].DeductionAmount = d(50)
		evs[i].DeductionReason = "Late arrival: 20 minutes"
	}

	got := NewRuleEngine([]salary.DeductionRule{late}).Apply(evs, d(1000))

	assert.True(t, d(250).Equal(got.Total), "got %s", got.Total)
	assert.True(t, d(150).Equal(got.ByRule["Late arrival"]))
	assert.True(t, d(100).Equal(got.ByRule["Late"]))
}

func TestRuleEngine_PrecomputedNeedsReason(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Absence", salary.RuleAbsent, salary.DeductionFullDay, 0),
	})

	evs := []salary.AttendanceEvent{{Date: day(2024, 3, 1), Status: salary.StatusAbsent, DeductionAmount: d(10)}}

	got := engine.Apply(evs, d(1000))

	assert.True(t, d(1000).Equal(got.ByRule["Absence"]))
}

func TestRuleEngine_BlankRuleNameUsesTypeLabel(t *testing.T) {
	got := NewRuleEngine([]salary.DeductionRule{
		rule(" ", salary.RuleAbsent, salary.DeductionFixedAmount, 5),
	}).Apply(events(salary.StatusAbsent, 1), d(1000))

	assert.True(t, d(5).Equal(got.ByRule["Absent"]))
}

func TestRuleEngine_PresentCostsNothing(t *testing.T) {
	engine := NewRuleEngine([]salary.DeductionRule{
		rule("Absence", salary.RuleAbsent, salary.DeductionFullDay, 0),
	})

	got := engine.Apply(events(salary.StatusPresent, 20), d(1000))

	assert.True(t, got.Total.IsZero())
}
