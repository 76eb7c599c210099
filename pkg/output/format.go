// Package output provides utilities for formatting and displaying estimate
// and pro forma results.
package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/landtakeoffs/land-takeoffs/internal/estimate"
	"github.com/landtakeoffs/land-takeoffs/internal/proforma"
	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyEstimate outputs a human-readable rather than machine-readable
// estimate: one table per section plus the summary block.
func PrettyEstimate(project string, alloc estimate.Allocation, sections []estimate.Section, totals estimate.Totals) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- %s ---\n", project)
	_, _ = p.Printf("Net developable: %.2f ac (%.0f%%) | Lots: %d\n\n", alloc.NetDevelopableAcres, alloc.NetDevelopablePct, alloc.LotCount)

	for _, section := range sections {
		fmt.Printf("%s\n", section.Category)
		fmt.Printf("%-6s | %-32s | %-4s | %12s | %12s | %14s\n", "Item", "Description", "Unit", "Qty", "Unit Price", "Amount")
		for _, item := range section.Items {
			_, _ = p.Printf("%-6s | %-32s | %-4s | %12.2f | $%11.2f | $%13.2f\n",
				item.Code, item.Description, item.Unit, item.Quantity, item.UnitPrice, item.Total())
		}
		_, _ = p.Printf("%-63s Section Total: $%.2f\n\n", "", section.Subtotal())
	}

	_, _ = p.Printf("Grand Total: $%.2f\n", totals.GrandTotal)
	_, _ = p.Printf("Cost per Lot: %s\n", formatQuotient(p, totals.CostPerLot))
	_, _ = p.Printf("Cost per Acre: %s\n", formatQuotient(p, totals.CostPerAcre))
}

// PrettyProforma outputs the pro forma inputs and derived metrics.
func PrettyProforma(inputs proforma.Inputs, result proforma.Result) {
	p := message.NewPrinter(language.English)

	fmt.Printf("\n--- Development Pro Forma ---\n")
	_, _ = p.Printf("Land Acquisition:          $%.2f\n", result.LandAcquisition)
	_, _ = p.Printf("Hard Cost Total:           $%.2f\n", result.HardCostTotal)
	_, _ = p.Printf("Soft Cost Total:           $%.2f\n", result.SoftCostTotal)
	_, _ = p.Printf("Construction Interest:     $%.2f\n", result.ConstructionInterest)
	_, _ = p.Printf("Total Development Cost:    $%.2f\n", result.TotalDevCost)
	_, _ = p.Printf("Gross Revenue:             $%.2f (%d lots @ $%.2f)\n", result.GrossRevenue, inputs.LotCount, inputs.LotSalePrice)
	_, _ = p.Printf("Sales Commission:          $%.2f\n", result.SalesCommission)
	_, _ = p.Printf("Net Revenue:               $%.2f\n", result.NetRevenue)
	_, _ = p.Printf("Gross Profit:              $%.2f\n", result.GrossProfit)
	fmt.Printf("Profit Margin:             %s\n", formatPct(result.ProfitMarginPct))
	fmt.Printf("Return on Investment:      %s\n", formatPct(result.ROIPct))
	_, _ = p.Printf("Cost per Lot:              %s\n", formatQuotient(p, result.CostPerLot))
	_, _ = p.Printf("Profit per Lot:            %s\n", formatQuotient(p, result.ProfitPerLot))
	fmt.Printf("Total Duration:            %d months\n", result.TotalDurationMonths)
}

// EstimateCsvString renders the estimate in comma-separated value format:
// one block per section mirroring the workbook sheets, then a summary block
// with the section subtotals and grand total.
func EstimateCsvString(project string, sections []estimate.Section, totals estimate.Totals) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	for _, section := range sections {
		_ = w.Write([]string{fmt.Sprintf("%s — %s", project, section.Category)})
		_ = w.Write([]string{"Item", "Description", "Unit", "Qty", "Unit Price", "Amount"})
		for _, item := range section.Items {
			_ = w.Write([]string{
				item.Code,
				item.Description,
				item.Unit,
				formatAmount(item.Quantity),
				formatAmount(item.UnitPrice),
				formatAmount(item.Total()),
			})
		}
		_ = w.Write([]string{"", "", "", "", "Section Total", formatAmount(section.Subtotal())})
		_ = w.Write(nil)
	}

	_ = w.Write([]string{fmt.Sprintf("%s — Summary", project)})
	_ = w.Write([]string{"Section", "Line Items", "Section Total"})
	for _, section := range sections {
		_ = w.Write([]string{
			string(section.Category),
			strconv.Itoa(len(section.Items)),
			formatAmount(totals.SectionSubtotals[section.Category]),
		})
	}
	_ = w.Write([]string{"", "Grand Total", formatAmount(totals.GrandTotal)})

	w.Flush()
	return sb.String()
}

// ProformaCsvString renders the pro forma as flat name,value rows: inputs
// first, then every derived metric.
func ProformaCsvString(inputs proforma.Inputs, result proforma.Result) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{"field", "value"})
	_ = w.Write([]string{"acres", formatAmount(inputs.Acres)})
	_ = w.Write([]string{"lotCount", strconv.Itoa(inputs.LotCount)})
	_ = w.Write([]string{"lotSalePrice", formatAmount(inputs.LotSalePrice)})
	_ = w.Write([]string{"landCostPerAcre", formatAmount(inputs.LandCostPerAcre)})
	for _, cat := range pricebook.Categories() {
		_ = w.Write([]string{"hardCost." + string(cat), formatAmount(inputs.HardCosts[cat])})
	}
	_ = w.Write([]string{"softCosts.engineering", formatAmount(inputs.SoftCosts.Engineering)})
	_ = w.Write([]string{"softCosts.permits", formatAmount(inputs.SoftCosts.Permits)})
	_ = w.Write([]string{"softCosts.legal", formatAmount(inputs.SoftCosts.Legal)})
	_ = w.Write([]string{"softCosts.marketing", formatAmount(inputs.SoftCosts.Marketing)})
	_ = w.Write([]string{"salesCommissionPct", formatAmount(inputs.SalesCommissionPct)})
	_ = w.Write([]string{"loanRatePct", formatAmount(inputs.LoanRatePct)})
	_ = w.Write([]string{"devMonths", strconv.Itoa(inputs.DevMonths)})
	_ = w.Write([]string{"salesMonths", strconv.Itoa(inputs.SalesMonths)})
	_ = w.Write([]string{"lotsPerMonth", formatAmount(inputs.LotsPerMonth)})

	_ = w.Write([]string{"landAcquisition", formatAmount(result.LandAcquisition)})
	_ = w.Write([]string{"hardCostTotal", formatAmount(result.HardCostTotal)})
	_ = w.Write([]string{"softCostTotal", formatAmount(result.SoftCostTotal)})
	_ = w.Write([]string{"totalDevCostPreInterest", formatAmount(result.TotalDevCostPreInterest)})
	_ = w.Write([]string{"constructionInterest", formatAmount(result.ConstructionInterest)})
	_ = w.Write([]string{"totalDevCost", formatAmount(result.TotalDevCost)})
	_ = w.Write([]string{"grossRevenue", formatAmount(result.GrossRevenue)})
	_ = w.Write([]string{"salesCommission", formatAmount(result.SalesCommission)})
	_ = w.Write([]string{"netRevenue", formatAmount(result.NetRevenue)})
	_ = w.Write([]string{"grossProfit", formatAmount(result.GrossProfit)})
	_ = w.Write([]string{"profitMarginPct", formatCsvQuotient(result.ProfitMarginPct)})
	_ = w.Write([]string{"roiPct", formatCsvQuotient(result.ROIPct)})
	_ = w.Write([]string{"costPerLot", formatCsvQuotient(result.CostPerLot)})
	_ = w.Write([]string{"profitPerLot", formatCsvQuotient(result.ProfitPerLot)})
	_ = w.Write([]string{"totalDurationMonths", strconv.Itoa(result.TotalDurationMonths)})

	w.Flush()
	return sb.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', 2, 64)
}

func formatQuotient(p *message.Printer, q mathutil.Quotient) string {
	if !q.Applicable {
		return "N/A"
	}
	return p.Sprintf("$%.2f", q.Value)
}

func formatPct(q mathutil.Quotient) string {
	if !q.Applicable {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", q.Value)
}

func formatCsvQuotient(q mathutil.Quotient) string {
	if !q.Applicable {
		return "N/A"
	}
	return strconv.FormatFloat(mathutil.Round(q.Value), 'f', 2, 64)
}
