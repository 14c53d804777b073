package services

import (
	"math"
	"math/rand/v2"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	contractBonusChance = 0.3
	startupGrowthStep   = 0.1
	startupGrowthCap    = 2.0
	marketFactorLow     = 0.8
	marketFactorHigh    = 1.2
)

// RevenueBreakdown records the random draws behind one computed amount. It is
// stored as ledger entry metadata.
type RevenueBreakdown struct {
	Model         domain.RevenueModelTag `json:"model"`
	EmployeeCount int                    `json:"employeeCount"`
	AverageSalary string                 `json:"averageSalary"`
	Factor        float64                `json:"factor"`
	ContractBonus bool                   `json:"contractBonus,omitempty"`
	Progress      float64                `json:"progressFactor,omitempty"`
	Multiplier    string                 `json:"multiplier"`
	MarketFactor  float64                `json:"marketFactor"`
}

// RevenueCalculator turns headcount and salaries into a revenue amount using the
// formula of the business's revenue model category.
type RevenueCalculator struct {
	rnd portssvc.RandomSource
}

// NewRevenueCalculator returns a calculator drawing from rnd, or from the
// process-wide generator when rnd is nil.
func NewRevenueCalculator(rnd portssvc.RandomSource) *RevenueCalculator {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &RevenueCalculator{rnd: rnd}
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

func (c *RevenueCalculator) between(lo, hi float64) float64 {
	return lo + c.rnd.Float64()*(hi-lo)
}

// Compute returns the amount to credit, floored at zero and rounded to cents.
func (c *RevenueCalculator) Compute(model domain.RevenueModel, employeeCount int, avgSalary decimal.Decimal) (decimal.Decimal, RevenueBreakdown) {
	bd := RevenueBreakdown{
		Model:         model.Tag,
		EmployeeCount: employeeCount,
		AverageSalary: avgSalary.StringFixed(2),
		Multiplier:    model.RevenueMultiplier.String(),
	}
	if employeeCount <= 0 {
		return decimal.Zero, bd
	}
	payrollBase := avgSalary.Mul(decimal.NewFromInt(int64(employeeCount)))

	var base decimal.Decimal
	switch model.Category {
	case domain.CategoryService:
		bd.Factor = c.between(1.2, 2.0)
		base = payrollBase.Mul(decimal.NewFromFloat(bd.Factor))
	case domain.CategoryProduct:
		bd.Factor = c.between(1.5, 2.5)
		base = payrollBase.Mul(decimal.NewFromFloat(bd.Factor))
	case domain.CategoryContract:
		base = decimal.Zero
		if c.rnd.Float64() < contractBonusChance {
			bd.ContractBonus = true
			bd.Factor = c.between(2.0, 3.5)
			base = payrollBase.Mul(decimal.NewFromFloat(bd.Factor))
		}
		bd.Progress = c.between(0.3, 0.6)
		base = base.Add(payrollBase.Mul(decimal.NewFromFloat(bd.Progress)))
	case domain.CategoryPassive:
		bd.Factor = c.between(0.8, 1.2)
		base = payrollBase.Mul(decimal.NewFromFloat(bd.Factor))
	case domain.CategoryStartup:
		growth := math.Min(1+startupGrowthStep*float64(employeeCount), startupGrowthCap)
		bd.Factor = c.between(growth, growth+0.5)
		base = payrollBase.Mul(decimal.NewFromFloat(bd.Factor))
	default: // hybrid and full service
		bd.Factor = c.between(1.3, 2.0)
		base = payrollBase.Mul(decimal.NewFromFloat(bd.Factor))
	}

	bd.MarketFactor = c.between(marketFactorLow, marketFactorHigh)
	amount := base.Mul(model.RevenueMultiplier).Mul(decimal.NewFromFloat(bd.MarketFactor))
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(2), bd
}
