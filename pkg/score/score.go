// Package score computes the Attention Tax: a composite urgency/cost
// score of priority weight x energy multiplier x deadline multiplier.
package score

import (
	"fmt"
	"time"

	"tasktriage/pkg/model"
)

// Policy holds the scoring tables. The exact constants are configurable
// policy; what the engine guarantees is the composition (multiplicative
// across three independent factors) and monotonic ordering: weight
// decreases P1 to P4, and the deadline multiplier never increases as
// time-to-due grows.
type Policy struct {
	PriorityWeights   map[model.Priority]float64
	EnergyMultipliers map[model.Level]float64
	Deadline          DeadlineSteps
}

// DeadlineSteps is the step function of time-to-due. Overdue applies
// when the due date has passed, Today when it falls on the current
// calendar day, Week when it is within WeekWindow, and Far otherwise
// (and when there is no due date at all).
type DeadlineSteps struct {
	Overdue    float64
	Today      float64
	Week       float64
	Far        float64
	WeekWindow time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		PriorityWeights: map[model.Priority]float64{
			model.P1: 4,
			model.P2: 3,
			model.P3: 2,
			model.P4: 1,
		},
		EnergyMultipliers: map[model.Level]float64{
			model.High:   1.5,
			model.Medium: 1.0,
			model.Low:    0.75,
		},
		Deadline: DeadlineSteps{
			Overdue:    2.0,
			Today:      1.5,
			Week:       1.2,
			Far:        1.0,
			WeekWindow: 7 * 24 * time.Hour,
		},
	}
}

// Validate rejects tables that break the monotonicity contract.
func (p Policy) Validate() error {
	order := []model.Priority{model.P1, model.P2, model.P3, model.P4}
	for i := 1; i < len(order); i++ {
		hi, lo := p.PriorityWeights[order[i-1]], p.PriorityWeights[order[i]]
		if hi <= lo {
			return fmt.Errorf("priority weights must strictly decrease from P1 to P4: %s=%v, %s=%v",
				order[i-1], hi, order[i], lo)
		}
	}
	d := p.Deadline
	if d.Overdue < d.Today || d.Today < d.Week || d.Week < d.Far {
		return fmt.Errorf("deadline multipliers must not increase with time-to-due: overdue=%v today=%v week=%v far=%v",
			d.Overdue, d.Today, d.Week, d.Far)
	}
	if d.WeekWindow <= 0 {
		return fmt.Errorf("deadline week window must be positive, got %v", d.WeekWindow)
	}
	return nil
}

// Score is a pure function of the task and the current time.
func (p Policy) Score(task model.Task, now time.Time) float64 {
	weight, ok := p.PriorityWeights[task.Priority]
	if !ok {
		weight = p.PriorityWeights[model.DefaultPriority]
	}
	mult, ok := p.EnergyMultipliers[task.Energy]
	if !ok {
		mult = p.EnergyMultipliers[model.DefaultLevel]
	}
	return weight * mult * p.deadlineMultiplier(task.DueAt, now)
}

func (p Policy) deadlineMultiplier(due *time.Time, now time.Time) float64 {
	if due == nil {
		return p.Deadline.Far
	}
	switch {
	case due.Before(now):
		return p.Deadline.Overdue
	case sameDay(*due, now):
		return p.Deadline.Today
	case due.Sub(now) <= p.Deadline.WeekWindow:
		return p.Deadline.Week
	}
	return p.Deadline.Far
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
