package sitespec

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
project: Pennington Ridge
site:
  grossAcres: 50
  targetLotSizeSqFt: 8000
  sewerType: Public
  hasSidewalk: true
  curbType: standard
assumptions:
  lotSalePrice: 65000
  landCostPerAcre: 22000
  softCosts:
    engineering: 160000
    permits: 90000
    legal: 45000
    marketing: 55000
  salesCommissionPct: 5
  loanRatePct: 7.5
  devMonths: 16
  salesMonths: 20
  lotsPerMonth: 7
prices:
  EW-1: 6000
logging:
  level: debug
  format: console
output:
  format: csv
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conf.Project != "Pennington Ridge" {
		t.Errorf("expected project Pennington Ridge, got %s", conf.Project)
	}
	if conf.Site.GrossAcres != 50 || conf.Site.TargetLotSizeSqFt != 8000 {
		t.Errorf("site parameters not loaded: %+v", conf.Site)
	}
	if conf.Site.SewerType != SewerPublic {
		t.Errorf("expected normalized sewer type, got %q", conf.Site.SewerType)
	}
	if !conf.Site.HasSidewalk {
		t.Error("expected hasSidewalk true")
	}
	if conf.Assumptions.LotSalePrice != 65000 {
		t.Errorf("expected lotSalePrice 65000, got %.2f", conf.Assumptions.LotSalePrice)
	}
	if conf.Assumptions.SoftCosts.Total() != 350000 {
		t.Errorf("expected soft cost total 350000, got %.2f", conf.Assumptions.SoftCosts.Total())
	}
	if conf.Prices["EW-1"] != 6000 {
		t.Errorf("expected price override 6000, got %.2f", conf.Prices["EW-1"])
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("logging config not loaded: %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("output config not loaded: %+v", conf.Output)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  grossAcres: 25
  targetLotSizeSqFt: 10000
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conf.Project != "Untitled Project" {
		t.Errorf("expected default project name, got %s", conf.Project)
	}
	if conf.Site.SewerType != SewerPublic {
		t.Errorf("expected default sewer type public, got %q", conf.Site.SewerType)
	}
	if conf.Site.CurbType != CurbStandard {
		t.Errorf("expected default curb type standard, got %q", conf.Site.CurbType)
	}

	defaults := DefaultAssumptions()
	if conf.Assumptions != defaults {
		t.Errorf("expected default assumptions %+v, got %+v", defaults, conf.Assumptions)
	}
}

func TestLoadConfigurationPartialAssumptions(t *testing.T) {
	path := writeConfig(t, `
site:
  grossAcres: 25
  targetLotSizeSqFt: 10000
assumptions:
  lotSalePrice: 70000
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conf.Assumptions.LotSalePrice != 70000 {
		t.Errorf("expected lotSalePrice 70000, got %.2f", conf.Assumptions.LotSalePrice)
	}
	defaults := DefaultAssumptions()
	if conf.Assumptions.LandCostPerAcre != defaults.LandCostPerAcre {
		t.Errorf("expected default landCostPerAcre, got %.2f", conf.Assumptions.LandCostPerAcre)
	}
	if conf.Assumptions.SoftCosts != defaults.SoftCosts {
		t.Errorf("expected default soft costs, got %+v", conf.Assumptions.SoftCosts)
	}
	if conf.Assumptions.DevMonths != defaults.DevMonths {
		t.Errorf("expected default devMonths, got %d", conf.Assumptions.DevMonths)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Configuration)
		expected int
	}{
		{name: "Clean configuration", mutate: func(c *Configuration) {}, expected: 0},
		{name: "Non-positive sale price", mutate: func(c *Configuration) { c.Assumptions.LotSalePrice = 0 }, expected: 1},
		{name: "Commission over 100", mutate: func(c *Configuration) { c.Assumptions.SalesCommissionPct = 150 }, expected: 1},
		{name: "Negative loan rate", mutate: func(c *Configuration) { c.Assumptions.LoanRatePct = -1 }, expected: 1},
		{name: "Negative durations", mutate: func(c *Configuration) { c.Assumptions.DevMonths = -1 }, expected: 1},
		{name: "Septic on small lots", mutate: func(c *Configuration) {
			c.Site.SewerType = SewerSeptic
			c.Site.TargetLotSizeSqFt = 8000
		}, expected: 1},
		{name: "Negative price override", mutate: func(c *Configuration) { c.Prices = map[string]float64{"EW-1": -1} }, expected: 1},
		{name: "Multiple findings", mutate: func(c *Configuration) {
			c.Assumptions.LotSalePrice = 0
			c.Assumptions.LoanRatePct = -1
		}, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Configuration{
				Site: SiteParameters{
					GrossAcres:        50,
					TargetLotSizeSqFt: 8000,
					SewerType:         SewerPublic,
					CurbType:          CurbStandard,
				},
				Assumptions: DefaultAssumptions(),
			}
			tt.mutate(&conf)

			warnings := conf.ValidateConfiguration()
			if len(warnings) != tt.expected {
				t.Errorf("expected %d warnings, got %d: %v", tt.expected, len(warnings), warnings)
			}
		})
	}
}
