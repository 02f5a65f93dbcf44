package payroll

import (
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Philippine statutory contribution constants.
var (
	sssRate    = decimal.NewFromFloat(0.045)
	sssCeiling = decimal.NewFromInt(30000)

	philHealthRate  = decimal.NewFromFloat(0.025)
	philHealthFloor = decimal.NewFromInt(10000)
	philHealthCap   = decimal.NewFromInt(100000)

	pagibigRate    = decimal.NewFromFloat(0.02)
	pagibigCeiling = decimal.NewFromInt(10000)

	two = decimal.NewFromInt(2)
)

// Monthly withholding tax schedule (three progressive tiers above the exempt
// band). Thresholds and fixed bases are halved for a semi-monthly period.
var (
	taxTier1Threshold = decimal.NewFromInt(20833)
	taxTier2Threshold = decimal.NewFromInt(33333)
	taxTier3Threshold = decimal.NewFromInt(66667)
	taxTier2Base      = decimal.NewFromInt(2500)
	taxTier3Base      = decimal.NewFromFloat(10833.33)
	taxTier1Rate      = decimal.NewFromFloat(0.20)
	taxTier2Rate      = decimal.NewFromFloat(0.25)
	taxTier3Rate      = decimal.NewFromFloat(0.30)
)

// StatutoryDeductions holds the four mandatory deductions for one pay period.
// Values are unrounded; rounding to 2 decimal places happens once, at the
// point the figures are persisted.
type StatutoryDeductions struct {
	SSS        decimal.Decimal
	PhilHealth decimal.Decimal
	PagIBIG    decimal.Decimal
	Tax        decimal.Decimal
}

// Total sums the four components.
func (d StatutoryDeductions) Total() decimal.Decimal {
	return d.SSS.Add(d.PhilHealth).Add(d.PagIBIG).Add(d.Tax)
}

type StatutoryCalculator struct{}

func NewStatutoryCalculator() *StatutoryCalculator {
	return &StatutoryCalculator{}
}

// ComputeStatutory derives SSS, PhilHealth, Pag-IBIG and withholding tax for
// an employee's monthly base salary. When semiMonthly is true every
// contribution, threshold and base is halved so the result applies to one
// semi-monthly period. Pure: no I/O, no side effects.
func (c *StatutoryCalculator) ComputeStatutory(monthlySalary decimal.Decimal, semiMonthly bool) (StatutoryDeductions, error) {
	if monthlySalary.IsNegative() {
		return StatutoryDeductions{}, payroll.ErrInvalidSalary
	}

	sss := decimal.Min(monthlySalary, sssCeiling).Mul(sssRate)
	philHealth := clamp(monthlySalary, philHealthFloor, philHealthCap).Mul(philHealthRate)
	pagibig := decimal.Min(monthlySalary, pagibigCeiling).Mul(pagibigRate)

	periodGross := monthlySalary
	if semiMonthly {
		sss = sss.Div(two)
		philHealth = philHealth.Div(two)
		pagibig = pagibig.Div(two)
		periodGross = periodGross.Div(two)
	}

	taxable := periodGross.Sub(sss).Sub(philHealth).Sub(pagibig)
	tax := c.withholdingTax(taxable, semiMonthly)

	return StatutoryDeductions{
		SSS:        sss,
		PhilHealth: philHealth,
		PagIBIG:    pagibig,
		Tax:        tax,
	}, nil
}

// withholdingTax applies the progressive schedule to one period's taxable
// income. Never negative.
func (c *StatutoryCalculator) withholdingTax(taxable decimal.Decimal, semiMonthly bool) decimal.Decimal {
	t1, t2, t3 := taxTier1Threshold, taxTier2Threshold, taxTier3Threshold
	b2, b3 := taxTier2Base, taxTier3Base
	if semiMonthly {
		t1 = t1.Div(two)
		t2 = t2.Div(two)
		t3 = t3.Div(two)
		b2 = b2.Div(two)
		b3 = b3.Div(two)
	}

	var tax decimal.Decimal
	switch {
	case taxable.LessThanOrEqual(t1):
		tax = decimal.Zero
	case taxable.LessThanOrEqual(t2):
		tax = taxable.Sub(t1).Mul(taxTier1Rate)
	case taxable.LessThanOrEqual(t3):
		tax = b2.Add(taxable.Sub(t2).Mul(taxTier2Rate))
	default:
		tax = b3.Add(taxable.Sub(t3).Mul(taxTier3Rate))
	}

	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}
