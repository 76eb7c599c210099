package session

import (
	"errors"
	"testing"

	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"github.com/landtakeoffs/land-takeoffs/pkg/testutil"
	"go.uber.org/zap"
)

func referenceParams() sitespec.SiteParameters {
	return testutil.ReferenceSiteParameters()
}

func newReferenceSession(t *testing.T) *Session {
	t.Helper()
	sess, err := New(zap.NewNop(), "Test Project", pricebook.Default(), referenceParams(), sitespec.DefaultAssumptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sess
}

func assertSyncInvariant(t *testing.T, sess *Session) {
	t.Helper()
	totals := sess.Totals()
	inputs := sess.ProformaInputs()

	for _, cat := range pricebook.Categories() {
		if inputs.HardCosts[cat] != totals.SectionSubtotals[cat] {
			t.Errorf("hard cost for %s = %v, section subtotal = %v", cat, inputs.HardCosts[cat], totals.SectionSubtotals[cat])
		}
	}
	if inputs.Acres != sess.Params().GrossAcres {
		t.Errorf("mirrored acres = %v, site acres = %v", inputs.Acres, sess.Params().GrossAcres)
	}
	if inputs.LotCount != sess.Allocation().LotCount {
		t.Errorf("mirrored lot count = %d, allocation lot count = %d", inputs.LotCount, sess.Allocation().LotCount)
	}
}

func TestNewSessionRunsFullPipeline(t *testing.T) {
	sess := newReferenceSession(t)

	if sess.ID == "" {
		t.Error("session ID is empty")
	}
	if sess.Allocation().LotCount != 141 {
		t.Errorf("LotCount = %d, expected 141", sess.Allocation().LotCount)
	}
	if !mathutil.WithinTolerance(sess.Totals().GrandTotal, 5953789.61, 0.01) {
		t.Errorf("GrandTotal = %.2f, expected 5953789.61", sess.Totals().GrandTotal)
	}

	assertSyncInvariant(t, sess)

	// The proforma hard cost total equals the estimate grand total: the
	// cross-module consistency invariant.
	if !mathutil.WithinTolerance(sess.ProformaResult().HardCostTotal, sess.Totals().GrandTotal, 0.000001) {
		t.Errorf("proforma hard cost total = %v, grand total = %v",
			sess.ProformaResult().HardCostTotal, sess.Totals().GrandTotal)
	}
}

func TestLineItemEditResyncsProforma(t *testing.T) {
	sess := newReferenceSession(t)
	before := sess.ProformaResult().HardCostTotal

	price := 6000.0
	if _, err := sess.UpdateLineItem(pricebook.Earthwork, "EW-1", nil, &price); err != nil {
		t.Fatalf("UpdateLineItem() error = %v", err)
	}

	// 50 AC at +$500/AC
	after := sess.ProformaResult().HardCostTotal
	if !mathutil.WithinTolerance(after-before, 25000, 0.01) {
		t.Errorf("hard cost total delta = %.2f, expected 25000", after-before)
	}
	assertSyncInvariant(t, sess)
}

func TestLineItemEditRejectsNegatives(t *testing.T) {
	sess := newReferenceSession(t)
	before := sess.Totals().GrandTotal

	negative := -5.0
	if _, err := sess.UpdateLineItem(pricebook.Earthwork, "EW-1", &negative, nil); !errors.Is(err, sitespec.ErrInvalidInput) {
		t.Errorf("UpdateLineItem(negative qty) error = %v, expected ErrInvalidInput", err)
	}
	if _, err := sess.UpdateLineItem(pricebook.Earthwork, "EW-1", nil, &negative); !errors.Is(err, sitespec.ErrInvalidInput) {
		t.Errorf("UpdateLineItem(negative price) error = %v, expected ErrInvalidInput", err)
	}

	// No partial state mutation on rejection.
	if sess.Totals().GrandTotal != before {
		t.Errorf("grand total changed after rejected edit: %v vs %v", sess.Totals().GrandTotal, before)
	}
}

func TestRegenerateClobbersOverriddenMirroredFields(t *testing.T) {
	sess := newReferenceSession(t)

	if err := sess.OverrideMirrored(FieldLotCount, 120); err != nil {
		t.Fatalf("OverrideMirrored() error = %v", err)
	}
	if err := sess.OverrideMirrored(HardCostField(pricebook.Water), 999999); err != nil {
		t.Fatalf("OverrideMirrored() error = %v", err)
	}

	if sess.ProformaInputs().LotCount != 120 {
		t.Fatalf("override not applied: lot count = %d", sess.ProformaInputs().LotCount)
	}

	report, err := sess.Regenerate(PricePreserve)
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}

	if len(report.Clobbered) != 2 {
		t.Errorf("clobbered = %v, expected both overridden fields", report.Clobbered)
	}
	assertSyncInvariant(t, sess)

	// A second regenerate with no intervening overrides reports nothing.
	report, err = sess.Regenerate(PricePreserve)
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if len(report.Clobbered) != 0 {
		t.Errorf("clobbered = %v on clean regenerate, expected none", report.Clobbered)
	}
}

func TestRegeneratePricePolicies(t *testing.T) {
	tests := []struct {
		name          string
		policy        PricePolicy
		expectedPrice float64
	}{
		{name: "Preserve keeps user price", policy: PricePreserve, expectedPrice: 7000},
		{name: "Reset reseeds from price book", policy: PriceReset, expectedPrice: 5500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newReferenceSession(t)

			price := 7000.0
			if _, err := sess.UpdateLineItem(pricebook.Earthwork, "EW-1", nil, &price); err != nil {
				t.Fatalf("UpdateLineItem() error = %v", err)
			}

			// Distort a quantity too; regeneration always resets it.
			qty := 1.0
			if _, err := sess.UpdateLineItem(pricebook.Earthwork, "EW-1", &qty, nil); err != nil {
				t.Fatalf("UpdateLineItem() error = %v", err)
			}

			if _, err := sess.Regenerate(tt.policy); err != nil {
				t.Fatalf("Regenerate() error = %v", err)
			}

			item := testutil.FindItem(sess.Sections(), "EW-1")
			if item == nil {
				t.Fatal("EW-1 not found after regeneration")
			}
			if item.UnitPrice != tt.expectedPrice {
				t.Errorf("unit price = %v, expected %v", item.UnitPrice, tt.expectedPrice)
			}
			if item.Quantity != 50 {
				t.Errorf("quantity = %v, expected rule value 50", item.Quantity)
			}
		})
	}
}

func TestSetSiteParametersSepticSwap(t *testing.T) {
	sess := newReferenceSession(t)
	publicTotal := sess.Totals().GrandTotal

	params := referenceParams()
	params.SewerType = sitespec.SewerSeptic
	if _, err := sess.SetSiteParameters(params); err != nil {
		t.Fatalf("SetSiteParameters() error = %v", err)
	}

	sanitary := testutil.FindSection(sess.Sections(), pricebook.SanitarySewer)
	if sanitary == nil {
		t.Fatal("sanitary section missing")
	}
	for _, item := range sanitary.Items {
		if item.Code == "SS-1" || item.Code == "SS-2" {
			t.Errorf("public sewer item %s survived septic swap", item.Code)
		}
	}
	if len(sanitary.Items) != 2 {
		t.Errorf("sanitary section has %d items under septic, expected 2", len(sanitary.Items))
	}

	// Septic: 141 systems at $9500 + 141 evaluations at $350 = 1,388,850
	// versus 646,228 for public sewer.
	septicTotal := sess.Totals().GrandTotal
	if !mathutil.WithinTolerance(septicTotal-publicTotal, 1388850-646228, 0.01) {
		t.Errorf("grand total delta = %.2f, expected %.2f", septicTotal-publicTotal, 1388850.0-646228.0)
	}
	assertSyncInvariant(t, sess)
}

func TestSetSiteParametersInvalidLeavesSessionUntouched(t *testing.T) {
	sess := newReferenceSession(t)
	before := sess.Totals().GrandTotal

	params := referenceParams()
	params.GrossAcres = -10
	if _, err := sess.SetSiteParameters(params); !errors.Is(err, sitespec.ErrInvalidInput) {
		t.Fatalf("SetSiteParameters() error = %v, expected ErrInvalidInput", err)
	}

	if sess.Params().GrossAcres != 50 {
		t.Errorf("site parameters mutated after rejected edit")
	}
	if sess.Totals().GrandTotal != before {
		t.Errorf("totals mutated after rejected edit")
	}
}

func TestSetAssumptionsNeverTouchesMirroredFields(t *testing.T) {
	sess := newReferenceSession(t)
	lotCount := sess.ProformaInputs().LotCount
	hardCosts := sess.ProformaInputs().HardCosts

	assumptions := sitespec.DefaultAssumptions()
	assumptions.LotSalePrice = 75000
	assumptions.LoanRatePct = 10
	sess.SetAssumptions(assumptions)

	inputs := sess.ProformaInputs()
	if inputs.LotSalePrice != 75000 {
		t.Errorf("LotSalePrice = %v, expected 75000", inputs.LotSalePrice)
	}
	if inputs.LotCount != lotCount {
		t.Errorf("LotCount changed: %d vs %d", inputs.LotCount, lotCount)
	}
	for cat, cost := range hardCosts {
		if inputs.HardCosts[cat] != cost {
			t.Errorf("hard cost for %s changed: %v vs %v", cat, inputs.HardCosts[cat], cost)
		}
	}

	// Revenue reflects the new sale price immediately.
	expected := float64(lotCount) * 75000
	if !mathutil.WithinTolerance(sess.ProformaResult().GrossRevenue, expected, 0.01) {
		t.Errorf("GrossRevenue = %v, expected %v", sess.ProformaResult().GrossRevenue, expected)
	}
}

func TestOverrideMirroredUnknownField(t *testing.T) {
	sess := newReferenceSession(t)

	if err := sess.OverrideMirrored("hardCost.Landscaping", 1); !errors.Is(err, sitespec.ErrInvalidEnum) {
		t.Errorf("OverrideMirrored(unknown) error = %v, expected ErrInvalidEnum", err)
	}
	if err := sess.OverrideMirrored("softCosts.legal", 1); !errors.Is(err, sitespec.ErrInvalidEnum) {
		t.Errorf("OverrideMirrored(non-mirrored) error = %v, expected ErrInvalidEnum", err)
	}
}

func TestParsePricePolicy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected PricePolicy
		wantErr  bool
	}{
		{name: "Empty defaults to preserve", input: "", expected: PricePreserve},
		{name: "Preserve", input: "preserve", expected: PricePreserve},
		{name: "Reset", input: "reset", expected: PriceReset},
		{name: "Mixed case", input: "Reset", expected: PriceReset},
		{name: "Unknown", input: "clobber", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := ParsePricePolicy(tt.input)
			if tt.wantErr {
				if !errors.Is(err, sitespec.ErrInvalidEnum) {
					t.Errorf("ParsePricePolicy(%q) error = %v, expected ErrInvalidEnum", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePricePolicy(%q) error = %v", tt.input, err)
			}
			if policy != tt.expected {
				t.Errorf("ParsePricePolicy(%q) = %v, expected %v", tt.input, policy, tt.expected)
			}
		})
	}
}
