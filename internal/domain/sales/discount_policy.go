package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountPolicy caps discount percentages per caller role. The ceiling
// applies to the highest per-item discount and to the bill discount; anything
// above it, and any item priced below list, needs an approver.
type DiscountPolicy struct {
	ceilings map[string]decimal.Decimal
	fallback decimal.Decimal
}

// NewDiscountPolicy creates a policy with per-role ceilings (percent) and a
// fallback ceiling for unknown roles
func NewDiscountPolicy(ceilings map[string]decimal.Decimal, fallback decimal.Decimal) *DiscountPolicy {
	normalized := make(map[string]decimal.Decimal, len(ceilings))
	for role, ceiling := range ceilings {
		normalized[strings.ToLower(role)] = ceiling
	}
	return &DiscountPolicy{ceilings: normalized, fallback: fallback}
}

// DefaultDiscountPolicy mirrors the standard role ladder
func DefaultDiscountPolicy() *DiscountPolicy {
	return NewDiscountPolicy(map[string]decimal.Decimal{
		"admin":   decimal.NewFromInt(100),
		"manager": decimal.NewFromInt(25),
		"sales":   decimal.NewFromInt(10),
	}, decimal.Zero)
}

// CeilingFor returns the maximum discount percent allowed for a role
func (p *DiscountPolicy) CeilingFor(role string) decimal.Decimal {
	if ceiling, ok := p.ceilings[strings.ToLower(role)]; ok {
		return ceiling
	}
	return p.fallback
}

// RequiresApproval reports whether the sale's discounts need an approver for
// the given role
func (p *DiscountPolicy) RequiresApproval(role string, lines []PricedLine, billDiscountPercent decimal.Decimal) bool {
	ceiling := p.CeilingFor(role)
	if billDiscountPercent.GreaterThan(ceiling) {
		return true
	}
	for _, line := range lines {
		if line.BelowList || line.DiscountPercent.GreaterThan(ceiling) {
			return true
		}
	}
	return false
}
