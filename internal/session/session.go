// Package session owns the working copy of a takeoff session and sequences
// every recompute: allocation, quantity expansion, aggregation, mirroring the
// hard-cost totals into the pro forma, and re-running the pro forma. The
// session is the single writer; the engines it calls are pure.
package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/landtakeoffs/land-takeoffs/internal/estimate"
	"github.com/landtakeoffs/land-takeoffs/internal/proforma"
	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"go.uber.org/zap"
)

// PricePolicy controls whether regeneration keeps user-edited unit prices.
type PricePolicy string

const (
	// PricePreserve keeps unit prices the user edited after generation.
	// This is the default.
	PricePreserve PricePolicy = "preserve"

	// PriceReset reseeds every unit price from the price book.
	PriceReset PricePolicy = "reset"
)

// ParsePricePolicy resolves a policy name, defaulting empty to preserve.
func ParsePricePolicy(name string) (PricePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(PricePreserve):
		return PricePreserve, nil
	case string(PriceReset):
		return PriceReset, nil
	}
	return "", fmt.Errorf("%w: pricePolicy %q", sitespec.ErrInvalidEnum, name)
}

// Mirrored pro forma field names, used for override tracking and clobber
// reporting. Hard-cost fields are named hardCost.<category>.
const (
	FieldAcres    = "acres"
	FieldLotCount = "lotCount"
)

// HardCostField returns the mirrored-field name for a category's hard cost.
func HardCostField(cat pricebook.Category) string {
	return "hardCost." + string(cat)
}

// SyncReport describes what a sync did. Clobbered lists the mirrored fields
// that carried a manual override which the sync overwrote; a UI can use it to
// warn the user.
type SyncReport struct {
	Clobbered []string `json:"clobbered,omitempty"`
}

// Session is one working takeoff plus its pro forma, alive for the duration
// of a run or an editing session. There is no durable store.
type Session struct {
	ID      string
	Project string

	logger  *zap.Logger
	catalog *pricebook.Catalog

	params   sitespec.SiteParameters
	alloc    estimate.Allocation
	sections []estimate.Section
	totals   estimate.Totals

	proformaInputs proforma.Inputs
	proformaResult proforma.Result

	// overridden tracks mirrored pro forma fields carrying a manual edit;
	// the next sync overwrites them and reports the clobber.
	overridden map[string]struct{}

	pricePolicy PricePolicy
}

// New creates a session and runs the full pipeline once.
func New(logger *zap.Logger, project string, catalog *pricebook.Catalog, params sitespec.SiteParameters, assumptions sitespec.Assumptions) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = pricebook.Default()
	}

	s := &Session{
		ID:          uuid.NewString(),
		Project:     project,
		logger:      logger,
		catalog:     catalog,
		params:      params,
		overridden:  make(map[string]struct{}),
		pricePolicy: PricePreserve,
	}
	s.proformaInputs = proforma.Inputs{
		LotSalePrice:       assumptions.LotSalePrice,
		LandCostPerAcre:    assumptions.LandCostPerAcre,
		SoftCosts:          assumptions.SoftCosts,
		SalesCommissionPct: assumptions.SalesCommissionPct,
		LoanRatePct:        assumptions.LoanRatePct,
		DevMonths:          assumptions.DevMonths,
		SalesMonths:        assumptions.SalesMonths,
		LotsPerMonth:       assumptions.LotsPerMonth,
		HardCosts:          make(map[pricebook.Category]float64),
	}

	if _, err := s.Regenerate(PriceReset); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPricePolicy sets the policy used by site-parameter-driven regeneration.
func (s *Session) SetPricePolicy(policy PricePolicy) {
	s.pricePolicy = policy
}

// SetSiteParameters replaces the site parameters and re-runs the full
// pipeline. Invalid parameters leave the session untouched.
func (s *Session) SetSiteParameters(params sitespec.SiteParameters) (SyncReport, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return SyncReport{}, err
	}
	previous := s.params
	s.params = params
	report, err := s.Regenerate(s.pricePolicy)
	if err != nil {
		s.params = previous
		return SyncReport{}, err
	}
	return report, nil
}

// Regenerate re-runs allocation and quantity expansion, then syncs. Under
// PricePreserve, unit prices the user edited survive by item code; quantities
// always reset from the rules.
func (s *Session) Regenerate(policy PricePolicy) (SyncReport, error) {
	alloc, err := estimate.CalculateAllocation(s.logger, s.params)
	if err != nil {
		return SyncReport{}, err
	}

	sections, err := estimate.ExpandQuantities(s.logger, s.params, alloc, s.catalog)
	if err != nil {
		return SyncReport{}, err
	}

	if policy == PricePreserve {
		carryUserPrices(s.sections, sections)
	}

	s.alloc = alloc
	s.sections = sections

	report := s.sync()

	s.logger.Info("estimate regenerated",
		zap.String("op", "session.Regenerate"),
		zap.String("session", s.ID),
		zap.Int("lotCount", alloc.LotCount),
		zap.Float64("grandTotal", s.totals.GrandTotal),
		zap.Strings("clobbered", report.Clobbered),
	)

	return report, nil
}

// carryUserPrices copies user-edited unit prices from the previous sections
// into the freshly expanded ones, matched by item code.
func carryUserPrices(previous, next []estimate.Section) {
	edited := make(map[string]float64)
	for _, section := range previous {
		for _, item := range section.Items {
			if item.UserPriced {
				edited[item.Code] = item.UnitPrice
			}
		}
	}
	if len(edited) == 0 {
		return
	}
	for i := range next {
		for j := range next[i].Items {
			if price, ok := edited[next[i].Items[j].Code]; ok {
				next[i].Items[j].UnitPrice = price
				next[i].Items[j].UserPriced = true
			}
		}
	}
}

// UpdateLineItem overrides a line item's quantity and/or unit price, then
// re-aggregates and syncs. Quantities and prices must not be negative.
func (s *Session) UpdateLineItem(cat pricebook.Category, code string, quantity, unitPrice *float64) (SyncReport, error) {
	if quantity != nil && *quantity < 0 {
		return SyncReport{}, fmt.Errorf("%w: quantity for %s must not be negative, got %.4f", sitespec.ErrInvalidInput, code, *quantity)
	}
	if unitPrice != nil && *unitPrice < 0 {
		return SyncReport{}, fmt.Errorf("%w: unit price for %s must not be negative, got %.2f", sitespec.ErrInvalidInput, code, *unitPrice)
	}

	var item *estimate.LineItem
	for i := range s.sections {
		if s.sections[i].Category == cat {
			item = s.sections[i].Item(code)
			break
		}
	}
	if item == nil {
		return SyncReport{}, fmt.Errorf("%w: %s in %s", estimate.ErrUnknownItem, code, cat)
	}

	if quantity != nil {
		item.Quantity = *quantity
	}
	if unitPrice != nil {
		item.UnitPrice = *unitPrice
		item.UserPriced = true
	}

	return s.sync(), nil
}

// SetAssumptions replaces the non-mirrored pro forma inputs and re-runs the
// pro forma only. Mirrored fields and the estimate are untouched.
func (s *Session) SetAssumptions(a sitespec.Assumptions) {
	s.proformaInputs.LotSalePrice = a.LotSalePrice
	s.proformaInputs.LandCostPerAcre = a.LandCostPerAcre
	s.proformaInputs.SoftCosts = a.SoftCosts
	s.proformaInputs.SalesCommissionPct = a.SalesCommissionPct
	s.proformaInputs.LoanRatePct = a.LoanRatePct
	s.proformaInputs.DevMonths = a.DevMonths
	s.proformaInputs.SalesMonths = a.SalesMonths
	s.proformaInputs.LotsPerMonth = a.LotsPerMonth
	s.proformaResult = proforma.Compute(s.logger, s.proformaInputs)
}

// OverrideMirrored manually overrides one of the mirrored pro forma fields
// (acres, lotCount, or hardCost.<category>) and re-runs the pro forma. The
// override stands until the next estimate-driven sync, which overwrites it
// and reports the clobber.
func (s *Session) OverrideMirrored(field string, value float64) error {
	switch {
	case field == FieldAcres:
		s.proformaInputs.Acres = value
	case field == FieldLotCount:
		s.proformaInputs.LotCount = int(value)
	case strings.HasPrefix(field, "hardCost."):
		cat, err := pricebook.ParseCategory(strings.TrimPrefix(field, "hardCost."))
		if err != nil {
			return fmt.Errorf("%w: mirrored field %q", sitespec.ErrInvalidEnum, field)
		}
		s.proformaInputs.HardCosts[cat] = value
	default:
		return fmt.Errorf("%w: mirrored field %q", sitespec.ErrInvalidEnum, field)
	}

	s.overridden[field] = struct{}{}
	s.proformaResult = proforma.Compute(s.logger, s.proformaInputs)
	return nil
}

// sync re-aggregates the sections, mirrors acreage, lot count, and the eight
// category subtotals into the pro forma inputs (one-directional, overwriting
// any manual override of those fields), and re-runs the pro forma so the
// displayed results are never stale.
func (s *Session) sync() SyncReport {
	s.totals = estimate.Aggregate(s.sections, s.alloc, s.params.GrossAcres)

	var report SyncReport
	for field := range s.overridden {
		report.Clobbered = append(report.Clobbered, field)
	}

	s.proformaInputs.Acres = s.params.GrossAcres
	s.proformaInputs.LotCount = s.alloc.LotCount
	for _, cat := range pricebook.Categories() {
		s.proformaInputs.HardCosts[cat] = s.totals.SectionSubtotals[cat]
	}
	s.overridden = make(map[string]struct{})

	s.proformaResult = proforma.Compute(s.logger, s.proformaInputs)
	return report
}

// Params returns the current site parameters.
func (s *Session) Params() sitespec.SiteParameters { return s.params }

// Allocation returns the current acreage allocation.
func (s *Session) Allocation() estimate.Allocation { return s.alloc }

// Sections returns a copy of the current estimate sections.
func (s *Session) Sections() []estimate.Section {
	sections := make([]estimate.Section, len(s.sections))
	for i, section := range s.sections {
		sections[i] = estimate.Section{
			Category: section.Category,
			Items:    append([]estimate.LineItem(nil), section.Items...),
		}
	}
	return sections
}

// Totals returns the current aggregated totals.
func (s *Session) Totals() estimate.Totals { return s.totals }

// ProformaInputs returns a copy of the current pro forma inputs.
func (s *Session) ProformaInputs() proforma.Inputs {
	inputs := s.proformaInputs
	inputs.HardCosts = make(map[pricebook.Category]float64, len(s.proformaInputs.HardCosts))
	for cat, cost := range s.proformaInputs.HardCosts {
		inputs.HardCosts[cat] = cost
	}
	return inputs
}

// ProformaResult returns the current pro forma result.
func (s *Session) ProformaResult() proforma.Result { return s.proformaResult }
