package sitespec

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration holds the whole project configuration for land-takeoffs.
type Configuration struct {
	Project     string         `yaml:"project"`
	Site        SiteParameters `yaml:"site"`
	Assumptions Assumptions    `yaml:"assumptions"`
	// Prices maps item codes to unit-price overrides applied on top of the
	// seed price book.
	Prices  map[string]float64 `yaml:"prices,omitempty"`
	Logging LoggingConfig      `yaml:"logging,omitempty"`
	Output  OutputConfig       `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Assumptions holds the pro forma inputs the estimate never derives: sale
// pricing, land cost, soft costs, financing, and timeline. These are never
// touched by estimate-to-proforma mirroring.
type Assumptions struct {
	LotSalePrice    float64   `yaml:"lotSalePrice"`
	LandCostPerAcre float64   `yaml:"landCostPerAcre"`
	SoftCosts       SoftCosts `yaml:"softCosts"`
	// SalesCommissionPct and LoanRatePct are whole percentages, e.g. 6 means 6%.
	SalesCommissionPct float64 `yaml:"salesCommissionPct"`
	LoanRatePct        float64 `yaml:"loanRatePct"`
	DevMonths          int     `yaml:"devMonths"`
	SalesMonths        int     `yaml:"salesMonths"`
	LotsPerMonth       float64 `yaml:"lotsPerMonth"`
}

// SoftCosts holds the non-construction development cost assumptions.
type SoftCosts struct {
	Engineering float64 `yaml:"engineering"`
	Permits     float64 `yaml:"permits"`
	Legal       float64 `yaml:"legal"`
	Marketing   float64 `yaml:"marketing"`
}

// Total sums the soft cost components.
func (s SoftCosts) Total() float64 {
	return s.Engineering + s.Permits + s.Legal + s.Marketing
}

// DefaultAssumptions returns the seed pro forma assumptions used when the
// project configuration leaves them unset.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		LotSalePrice:    60000,
		LandCostPerAcre: 20000,
		SoftCosts: SoftCosts{
			Engineering: 150000,
			Permits:     85000,
			Legal:       40000,
			Marketing:   60000,
		},
		SalesCommissionPct: 6,
		LoanRatePct:        8,
		DevMonths:          18,
		SalesMonths:        24,
		LotsPerMonth:       6,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	configuration.Site.Normalize()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Project == "" {
		c.Project = "Untitled Project"
	}
	if c.Site.SewerType == "" {
		c.Site.SewerType = SewerPublic
	}
	if c.Site.CurbType == "" {
		c.Site.CurbType = CurbStandard
	}
	defaults := DefaultAssumptions()
	if c.Assumptions == (Assumptions{}) {
		c.Assumptions = defaults
		return
	}
	if c.Assumptions.LotSalePrice == 0 {
		c.Assumptions.LotSalePrice = defaults.LotSalePrice
	}
	if c.Assumptions.LandCostPerAcre == 0 {
		c.Assumptions.LandCostPerAcre = defaults.LandCostPerAcre
	}
	if c.Assumptions.SoftCosts == (SoftCosts{}) {
		c.Assumptions.SoftCosts = defaults.SoftCosts
	}
	if c.Assumptions.SalesCommissionPct == 0 {
		c.Assumptions.SalesCommissionPct = defaults.SalesCommissionPct
	}
	if c.Assumptions.LoanRatePct == 0 {
		c.Assumptions.LoanRatePct = defaults.LoanRatePct
	}
	if c.Assumptions.DevMonths == 0 {
		c.Assumptions.DevMonths = defaults.DevMonths
	}
	if c.Assumptions.SalesMonths == 0 {
		c.Assumptions.SalesMonths = defaults.SalesMonths
	}
	if c.Assumptions.LotsPerMonth == 0 {
		c.Assumptions.LotsPerMonth = defaults.LotsPerMonth
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for findings that do not block a run.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Assumptions.LotSalePrice <= 0 {
		warnings = append(warnings, "lotSalePrice is not positive; revenue metrics will be reported as not applicable")
	}
	if c.Assumptions.SalesCommissionPct < 0 || c.Assumptions.SalesCommissionPct > 100 {
		warnings = append(warnings, fmt.Sprintf("salesCommissionPct %.2f is outside 0-100", c.Assumptions.SalesCommissionPct))
	}
	if c.Assumptions.LoanRatePct < 0 {
		warnings = append(warnings, fmt.Sprintf("loanRatePct %.2f is negative", c.Assumptions.LoanRatePct))
	}
	if c.Assumptions.DevMonths < 0 || c.Assumptions.SalesMonths < 0 {
		warnings = append(warnings, "development and sales durations must not be negative")
	}
	if c.Site.SewerType == SewerSeptic && c.Site.TargetLotSizeSqFt > 0 && c.Site.TargetLotSizeSqFt < 15000 {
		warnings = append(warnings, fmt.Sprintf("septic service on %.0f sq ft lots is unlikely to permit; most health departments require larger lots", c.Site.TargetLotSizeSqFt))
	}
	for code, price := range c.Prices {
		if price < 0 {
			warnings = append(warnings, fmt.Sprintf("price override for %s is negative and will be rejected", code))
		}
	}

	return warnings
}
