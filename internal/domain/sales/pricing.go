package sales

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/domain/shared/valueobject"
)

// PricingMode selects which price ladder rung a sale starts from
type PricingMode string

const (
	PricingModeRetail    PricingMode = "RETAIL"
	PricingModeWholesale PricingMode = "WHOLESALE"
	PricingModeCustomer  PricingMode = "CUSTOMER"
)

// IsValid checks if the mode is a valid PricingMode
func (m PricingMode) IsValid() bool {
	switch m {
	case PricingModeRetail, PricingModeWholesale, PricingModeCustomer:
		return true
	}
	return false
}

// TaxMode determines whether unit prices already contain tax
type TaxMode string

const (
	TaxModeExclusive TaxMode = "EXCLUSIVE"
	TaxModeInclusive TaxMode = "INCLUSIVE"
)

// IsValid checks if the mode is a valid TaxMode
func (m TaxMode) IsValid() bool {
	return m == TaxModeExclusive || m == TaxModeInclusive
}

// TaxScheme selects GST (split CGST/SGST) or single-rate VAT
type TaxScheme string

const (
	TaxSchemeGST TaxScheme = "GST"
	TaxSchemeVAT TaxScheme = "VAT"
)

// IsValid checks if the scheme is a valid TaxScheme
func (s TaxScheme) IsValid() bool {
	return s == TaxSchemeGST || s == TaxSchemeVAT
}

// ListPrices is the price ladder for a product as seen by one customer.
// Resolution order: customer override, wholesale, retail; first positive wins.
type ListPrices struct {
	CustomerOverride decimal.Decimal
	Wholesale        decimal.Decimal
	Retail           decimal.Decimal
}

// Resolve picks the effective list price for the mode
func (p ListPrices) Resolve(mode PricingMode) decimal.Decimal {
	if mode == PricingModeCustomer && p.CustomerOverride.IsPositive() {
		return p.CustomerOverride
	}
	if (mode == PricingModeCustomer || mode == PricingModeWholesale) && p.Wholesale.IsPositive() {
		return p.Wholesale
	}
	return p.Retail
}

// LineInput is everything needed to price one invoice line
type LineInput struct {
	Quantity        decimal.Decimal
	Prices          ListPrices
	PricingMode     PricingMode
	UnitPrice       *decimal.Decimal // caller-supplied price, overrides the ladder
	DiscountFlat    decimal.Decimal  // per-unit flat discount, wins over percent
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
	TaxScheme       TaxScheme
	TaxMode         TaxMode
}

// PricedLine is the result of pricing one line
type PricedLine struct {
	ListPrice       decimal.Decimal
	UnitPrice       decimal.Decimal
	TaxableValue    decimal.Decimal
	TaxAmount       decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	LineTotal       decimal.Decimal
	BelowList       bool
	DiscountPercent decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// PriceLine prices a single invoice line.
//
// Exclusive mode: taxable = unit*qty, tax = taxable*rate/100, total = taxable+tax.
// Inclusive mode: base = unit*qty, taxable = base*100/(100+rate), tax = base-taxable,
// total = base. GST tax splits evenly into CGST/SGST with the odd cent on CGST.
func PriceLine(in LineInput) (PricedLine, error) {
	if !in.Quantity.IsPositive() {
		return PricedLine{}, shared.NewDomainError("INVALID_AMOUNT", "Quantity must be positive")
	}
	if !in.PricingMode.IsValid() {
		return PricedLine{}, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown pricing mode %q", in.PricingMode))
	}
	if !in.TaxMode.IsValid() {
		return PricedLine{}, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown tax mode %q", in.TaxMode))
	}
	if !in.TaxScheme.IsValid() {
		return PricedLine{}, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown tax scheme %q", in.TaxScheme))
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return PricedLine{}, shared.NewDomainError("INVALID_AMOUNT", "Tax rate must be between 0 and 100")
	}
	if in.DiscountFlat.IsNegative() || in.DiscountPercent.IsNegative() {
		return PricedLine{}, shared.NewDomainError("INVALID_AMOUNT", "Discounts cannot be negative")
	}

	listPrice := in.Prices.Resolve(in.PricingMode)
	if !listPrice.IsPositive() {
		return PricedLine{}, shared.NewDomainError("VALIDATION_ERROR", "Product has no usable list price")
	}

	discounted := listPrice
	discountPercent := decimal.Zero
	switch {
	case in.DiscountFlat.IsPositive():
		discounted = listPrice.Sub(in.DiscountFlat)
		if listPrice.IsPositive() {
			discountPercent = in.DiscountFlat.Div(listPrice).Mul(hundred)
		}
	case in.DiscountPercent.IsPositive():
		discounted = listPrice.Sub(listPrice.Mul(in.DiscountPercent).Div(hundred))
		discountPercent = in.DiscountPercent
	}
	if discounted.IsNegative() {
		return PricedLine{}, shared.NewDomainError("INVALID_AMOUNT", "Discount exceeds list price")
	}

	unitPrice := discounted
	belowList := false
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
		if unitPrice.IsNegative() {
			return PricedLine{}, shared.NewDomainError("INVALID_AMOUNT", "Unit price cannot be negative")
		}
		belowList = unitPrice.LessThan(discounted)
	}

	base := unitPrice.Mul(in.Quantity)
	var taxable, tax, total decimal.Decimal
	switch in.TaxMode {
	case TaxModeInclusive:
		taxable = base.Mul(hundred).Div(hundred.Add(in.TaxRate)).Round(2)
		tax = base.Sub(taxable)
		total = base
	default:
		taxable = base
		tax = base.Mul(in.TaxRate).Div(hundred).Round(2)
		total = taxable.Add(tax)
	}

	line := PricedLine{
		ListPrice:       listPrice,
		UnitPrice:       unitPrice,
		TaxableValue:    taxable,
		TaxAmount:       tax,
		LineTotal:       total,
		BelowList:       belowList,
		DiscountPercent: discountPercent,
	}
	if in.TaxScheme == TaxSchemeGST {
		cgst, sgst := valueobject.NewMoneyINR(tax).Halve()
		line.CGSTAmount = cgst.Amount()
		line.SGSTAmount = sgst.Amount()
	}
	return line, nil
}

// BillTotals carries bill-level aggregation results
type BillTotals struct {
	Subtotal            decimal.Decimal
	TotalTax            decimal.Decimal
	GrossTotal          decimal.Decimal
	BillDiscountAmount  decimal.Decimal
	BillDiscountPercent decimal.Decimal
	RoundOffAmount      decimal.Decimal
	TotalAmount         decimal.Decimal
}

// BillInput controls bill-level discounts and rounding
type BillInput struct {
	DiscountFlat    decimal.Decimal // wins over percent
	DiscountPercent decimal.Decimal
	RoundOff        bool
}

// ComputeBillTotals aggregates priced lines into bill totals. Gross is the sum
// of line totals less the bill discount; with rounding on, the total is the
// nearest integer and round_off = total - gross.
func ComputeBillTotals(lines []PricedLine, in BillInput) (BillTotals, error) {
	if in.DiscountFlat.IsNegative() || in.DiscountPercent.IsNegative() {
		return BillTotals{}, shared.NewDomainError("INVALID_AMOUNT", "Bill discount cannot be negative")
	}

	totals := BillTotals{}
	for _, line := range lines {
		totals.Subtotal = totals.Subtotal.Add(line.TaxableValue)
		totals.TotalTax = totals.TotalTax.Add(line.TaxAmount)
		totals.GrossTotal = totals.GrossTotal.Add(line.LineTotal)
	}

	switch {
	case in.DiscountFlat.IsPositive():
		totals.BillDiscountAmount = in.DiscountFlat
		if totals.GrossTotal.IsPositive() {
			totals.BillDiscountPercent = in.DiscountFlat.Div(totals.GrossTotal).Mul(hundred)
		}
	case in.DiscountPercent.IsPositive():
		totals.BillDiscountPercent = in.DiscountPercent
		totals.BillDiscountAmount = totals.GrossTotal.Mul(in.DiscountPercent).Div(hundred).Round(2)
	}
	if totals.BillDiscountAmount.GreaterThan(totals.GrossTotal) {
		return BillTotals{}, shared.NewDomainError("INVALID_AMOUNT", "Bill discount exceeds gross total")
	}
	totals.GrossTotal = totals.GrossTotal.Sub(totals.BillDiscountAmount)

	totals.TotalAmount = totals.GrossTotal
	if in.RoundOff {
		totals.TotalAmount = totals.GrossTotal.Round(0)
		totals.RoundOffAmount = totals.TotalAmount.Sub(totals.GrossTotal)
	}
	return totals, nil
}
