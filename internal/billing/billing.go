// Package billing computes phone-bill totals from a comma-separated list of
// billable actions under a named price plan.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amurg-ai/phonebill/internal/store"
)

// Billable action names. Matching is exact and case-sensitive.
const (
	ActionCall = "call"
	ActionSMS  = "sms"
)

// ErrPlanNotFound is returned when no price plan carries the requested name.
var ErrPlanNotFound = errors.New("price plan not found")

// PlanFinder looks up a price plan by name. It returns (nil, nil) when no
// plan matches.
type PlanFinder interface {
	GetPricePlanByName(ctx context.Context, name string) (*store.PricePlan, error)
}

// Bill is the result of a calculation.
type Bill struct {
	Plan  store.PricePlan
	Calls int
	SMS   int
	Total decimal.Decimal
}

// FormatTotal renders the total with exactly two fractional digits.
func (b *Bill) FormatTotal() string {
	return b.Total.StringFixed(2)
}

// Calculator sums action costs against plans held by a PlanFinder.
type Calculator struct {
	plans PlanFinder
}

// NewCalculator creates a Calculator backed by the given plan lookup.
func NewCalculator(plans PlanFinder) *Calculator {
	return &Calculator{plans: plans}
}

// Calculate looks up planName and prices every action in actions.
// Tokens other than "call" and "sms" are ignored.
func (c *Calculator) Calculate(ctx context.Context, planName, actions string) (*Bill, error) {
	plan, err := c.plans.GetPricePlanByName(ctx, planName)
	if err != nil {
		return nil, fmt.Errorf("lookup plan %q: %w", planName, err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return Price(*plan, actions), nil
}

// Price sums the cost of actions under plan without touching storage.
func Price(plan store.PricePlan, actions string) *Bill {
	callPrice := decimal.NewFromFloat(plan.CallPrice)
	smsPrice := decimal.NewFromFloat(plan.SMSPrice)

	bill := &Bill{Plan: plan, Total: decimal.Zero}
	for _, token := range strings.Split(actions, ",") {
		switch strings.TrimSpace(token) {
		case ActionCall:
			bill.Calls++
			bill.Total = bill.Total.Add(callPrice)
		case ActionSMS:
			bill.SMS++
			bill.Total = bill.Total.Add(smsPrice)
		}
	}
	return bill
}
