package estimate

import (
	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
)

// Aggregate sums the sections into subtotals, the grand total, and the unit
// cost metrics. Pure summation; per-lot and per-acre costs are flagged not
// applicable when their denominator is zero. Runs on every line-item edit,
// not only on full regeneration.
func Aggregate(sections []Section, alloc Allocation, grossAcres float64) Totals {
	totals := Totals{
		SectionSubtotals: make(map[pricebook.Category]float64, len(sections)),
	}

	for _, section := range sections {
		subtotal := section.Subtotal()
		totals.SectionSubtotals[section.Category] = subtotal
		totals.GrandTotal += subtotal
	}

	totals.CostPerLot = mathutil.SafeDivide(totals.GrandTotal, float64(alloc.LotCount))
	totals.CostPerAcre = mathutil.SafeDivide(totals.GrandTotal, grossAcres)

	return totals
}
