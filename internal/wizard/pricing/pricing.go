package pricing

import (
	"fmt"

	"korskola/pkg/config"
	"korskola/pkg/model"
)

type LineKind string

const (
	LineBase            LineKind = "base"
	LineStudentDiscount LineKind = "student_discount"
	LineSupervisors     LineKind = "supervisors"
)

// Line is one row of the price summary. Discount lines carry a negative amount.
type Line struct {
	Kind      LineKind `json:"kind"`
	Quantity  int      `json:"quantity"`
	UnitPrice int      `json:"unit_price"`
	Amount    int      `json:"amount"`
}

// Quote is the derived price of a draft. All amounts are whole SEK.
type Quote struct {
	Base                int    `json:"base"`
	Discount            int    `json:"discount"`
	SupervisorCount     int    `json:"supervisor_count"`
	SupervisorUnitPrice int    `json:"supervisor_unit_price"`
	SupervisorFee       int    `json:"supervisor_fee"`
	Total               int    `json:"total"`
	Lines               []Line `json:"lines"`
}

// SupervisorRule returns how many of n supervisors are charged.
type SupervisorRule func(n int) int

var (
	ChargeEverySupervisor SupervisorRule = func(n int) int { return n }
	// FirstSupervisorFree includes one supervisor in the base price.
	FirstSupervisorFree SupervisorRule = func(n int) int { return max(0, n-1) }
)

type Calculator struct {
	rule SupervisorRule
}

func NewCalculator(rule SupervisorRule) *Calculator {
	if rule == nil {
		rule = ChargeEverySupervisor
	}
	return &Calculator{rule: rule}
}

// RuleByName maps a configured supervisor pricing name to its rule. An empty
// name charges every supervisor.
func RuleByName(name string) (SupervisorRule, error) {
	switch name {
	case "", config.SupervisorPricingEvery:
		return ChargeEverySupervisor, nil
	case config.SupervisorPricingFirstFree:
		return FirstSupervisorFree, nil
	}
	return nil, fmt.Errorf("unknown supervisor pricing %q", name)
}

// Quote returns false when the draft has nothing priceable yet: no selection,
// or a theory type without a chosen session.
func (c *Calculator) Quote(d model.Draft, user *model.ActingUser) (Quote, bool) {
	var q Quote

	switch s := d.Selection.(type) {
	case *model.LessonSelection:
		q.Base = s.LessonType.Price
		q.Total = q.Base
		q.Lines = append(q.Lines, Line{Kind: LineBase, Quantity: 1, UnitPrice: q.Base, Amount: q.Base})

		if user.IsStudent() && s.LessonType.PriceStudent != nil && *s.LessonType.PriceStudent != q.Base {
			q.Discount = q.Base - *s.LessonType.PriceStudent
			q.Total = *s.LessonType.PriceStudent
			q.Lines = append(q.Lines, Line{Kind: LineStudentDiscount, Quantity: 1, UnitPrice: -q.Discount, Amount: -q.Discount})
		}
		if s.AllowsSupervisors() && s.LessonType.PricePerSupervisor != nil {
			q.SupervisorUnitPrice = *s.LessonType.PricePerSupervisor
		}

	case *model.TeoriSelection:
		if s.Session == nil {
			return Quote{}, false
		}
		q.Base = s.Session.Price
		q.Total = q.Base
		q.Lines = append(q.Lines, Line{Kind: LineBase, Quantity: 1, UnitPrice: q.Base, Amount: q.Base})
		q.SupervisorUnitPrice = s.Session.SupervisorPrice(&s.LessonType)

	default:
		return Quote{}, false
	}

	if d.AllowsSupervisors() && len(d.Supervisors) > 0 {
		charged := c.rule(len(d.Supervisors))
		q.SupervisorCount = len(d.Supervisors)
		q.SupervisorFee = charged * q.SupervisorUnitPrice
		q.Total += q.SupervisorFee
		q.Lines = append(q.Lines, Line{Kind: LineSupervisors, Quantity: charged, UnitPrice: q.SupervisorUnitPrice, Amount: q.SupervisorFee})
	}

	return q, true
}

// Apply stores the quoted total on a copy of d, or clears it when nothing is
// priceable.
func (c *Calculator) Apply(d model.Draft, user *model.ActingUser) model.Draft {
	out := d.Clone()
	q, ok := c.Quote(d, user)
	if !ok {
		out.TotalPrice = nil
		return out
	}
	total := q.Total
	out.TotalPrice = &total
	return out
}
