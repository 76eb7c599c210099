// Package proforma computes the development pro forma: cost, revenue, and
// profitability metrics derived from the hard-cost takeoff and the financial
// assumptions.
package proforma

import (
	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/constants"
	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"go.uber.org/zap"
)

// Inputs holds everything the pro forma derives from. Acres, LotCount, and
// the per-category hard costs are normally mirrored from the estimate but
// remain independently overridable; the rest are user assumptions the sync
// never touches.
type Inputs struct {
	Acres    float64 `json:"acres"`
	LotCount int     `json:"lotCount"`

	HardCosts map[pricebook.Category]float64 `json:"hardCosts"`

	LotSalePrice       float64            `json:"lotSalePrice"`
	LandCostPerAcre    float64            `json:"landCostPerAcre"`
	SoftCosts          sitespec.SoftCosts `json:"softCosts"`
	SalesCommissionPct float64            `json:"salesCommissionPct"`
	LoanRatePct        float64            `json:"loanRatePct"`
	DevMonths          int                `json:"devMonths"`
	SalesMonths        int                `json:"salesMonths"`
	LotsPerMonth       float64            `json:"lotsPerMonth"`
}

// Result is the fully derived pro forma. Metrics with a zero denominator are
// carried as not-applicable quotients, never NaN.
type Result struct {
	LandAcquisition         float64 `json:"landAcquisition"`
	HardCostTotal           float64 `json:"hardCostTotal"`
	SoftCostTotal           float64 `json:"softCostTotal"`
	TotalDevCostPreInterest float64 `json:"totalDevCostPreInterest"`
	// ConstructionInterest uses an average-balance approximation: half the
	// pre-interest development cost carried at the loan rate for the
	// development period. This is a deliberate simplification, not a
	// month-by-month amortization schedule.
	ConstructionInterest float64 `json:"constructionInterest"`
	TotalDevCost         float64 `json:"totalDevCost"`

	GrossRevenue    float64 `json:"grossRevenue"`
	SalesCommission float64 `json:"salesCommission"`
	NetRevenue      float64 `json:"netRevenue"`
	GrossProfit     float64 `json:"grossProfit"`

	ProfitMarginPct mathutil.Quotient `json:"profitMarginPct"`
	ROIPct          mathutil.Quotient `json:"roiPct"`
	CostPerLot      mathutil.Quotient `json:"costPerLot"`
	ProfitPerLot    mathutil.Quotient `json:"profitPerLot"`

	TotalDurationMonths int `json:"totalDurationMonths"`
}

// Compute derives the pro forma result. Pure and total: every input yields a
// result, with zero-denominator metrics flagged instead of faulting.
func Compute(logger *zap.Logger, in Inputs) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	var result Result

	result.LandAcquisition = in.Acres * in.LandCostPerAcre
	for _, cat := range pricebook.Categories() {
		result.HardCostTotal += in.HardCosts[cat]
	}
	result.SoftCostTotal = in.SoftCosts.Total()
	result.TotalDevCostPreInterest = result.LandAcquisition + result.HardCostTotal + result.SoftCostTotal

	monthlyRate := in.LoanRatePct / constants.PercentageMultiplier / constants.MonthsPerYear
	result.ConstructionInterest = (result.TotalDevCostPreInterest / 2) * monthlyRate * float64(in.DevMonths)
	result.TotalDevCost = result.TotalDevCostPreInterest + result.ConstructionInterest

	result.GrossRevenue = float64(in.LotCount) * in.LotSalePrice
	result.SalesCommission = mathutil.ApplyPercentage(result.GrossRevenue, in.SalesCommissionPct)
	result.NetRevenue = result.GrossRevenue - result.SalesCommission
	result.GrossProfit = result.NetRevenue - result.TotalDevCost

	result.ProfitMarginPct = scaleQuotient(mathutil.SafeDivide(result.GrossProfit, result.GrossRevenue), constants.PercentageMultiplier)
	result.ROIPct = scaleQuotient(mathutil.SafeDivide(result.GrossProfit, result.TotalDevCost), constants.PercentageMultiplier)
	result.CostPerLot = mathutil.SafeDivide(result.TotalDevCost, float64(in.LotCount))
	result.ProfitPerLot = mathutil.SafeDivide(result.GrossProfit, float64(in.LotCount))

	result.TotalDurationMonths = in.DevMonths + in.SalesMonths

	logger.Debug("pro forma computed",
		zap.String("op", "proforma.Compute"),
		zap.Float64("totalDevCost", result.TotalDevCost),
		zap.Float64("grossProfit", result.GrossProfit),
	)

	return result
}

func scaleQuotient(q mathutil.Quotient, factor float64) mathutil.Quotient {
	if !q.Applicable {
		return q
	}
	q.Value *= factor
	return q
}
