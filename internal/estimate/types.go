// Package estimate derives a full construction takeoff from site parameters:
// acreage allocation, per-item quantity expansion, and cost aggregation.
package estimate

import (
	"errors"

	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
)

// ErrUnknownItem indicates a line-item edit referenced a code that is not
// present in the current estimate.
var ErrUnknownItem = errors.New("unknown line item")

// Allocation is the derived split of gross acreage. It is recomputed whole on
// every change and never mutated in place.
type Allocation struct {
	RoadsPct            float64 `json:"roadsPct"`
	OpenSpacePct        float64 `json:"openSpacePct"`
	DetentionPct        float64 `json:"detentionPct"`
	BuffersPct          float64 `json:"buffersPct"`
	NetDevelopablePct   float64 `json:"netDevelopablePct"`
	NetDevelopableAcres float64 `json:"netDevelopableAcres"`
	LotCount            int     `json:"lotCount"`
}

// LineItem is one takeoff row. Total is always derived from Quantity and
// UnitPrice, never stored.
type LineItem struct {
	Category    pricebook.Category `json:"category"`
	Code        string             `json:"code"`
	Description string             `json:"description"`
	Unit        string             `json:"unit"`
	Quantity    float64            `json:"quantity"`
	UnitPrice   float64            `json:"unitPrice"`
	// UserPriced marks a unit price edited after generation; the preserve
	// price policy carries these across regeneration.
	UserPriced bool `json:"userPriced,omitempty"`
}

// Total is the line amount.
func (li LineItem) Total() float64 {
	return li.Quantity * li.UnitPrice
}

// Section is the ordered set of line items for one category.
type Section struct {
	Category pricebook.Category `json:"category"`
	Items    []LineItem         `json:"items"`
}

// Subtotal sums the section's line amounts.
func (s Section) Subtotal() float64 {
	var sum float64
	for _, item := range s.Items {
		sum += item.Total()
	}
	return sum
}

// Item returns a pointer to the section's line item with the given code.
func (s *Section) Item(code string) *LineItem {
	for i := range s.Items {
		if s.Items[i].Code == code {
			return &s.Items[i]
		}
	}
	return nil
}

// Totals is the aggregated cost view of an estimate.
type Totals struct {
	SectionSubtotals map[pricebook.Category]float64 `json:"sectionSubtotals"`
	GrandTotal       float64                        `json:"grandTotal"`
	CostPerLot       mathutil.Quotient              `json:"costPerLot"`
	CostPerAcre      mathutil.Quotient              `json:"costPerAcre"`
}
