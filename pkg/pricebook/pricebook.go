// Package pricebook defines the estimate template: the fixed construction
// categories, their ordered line-item catalogs, and the seed unit prices the
// quantity takeoff starts from. Seed prices are calibrated against Upstate SC
// residential subdivision bid data (2026).
package pricebook

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is one of the eight fixed hard-cost construction categories.
type Category string

const (
	Earthwork      Category = "Earthwork"
	ErosionControl Category = "Erosion Control"
	StormDrainage  Category = "Storm Drainage"
	SanitarySewer  Category = "Sanitary Sewer"
	Water          Category = "Water"
	PavingConcrete Category = "Paving & Concrete"
	StripingSigns  Category = "Striping & Signage"
	FencingMisc    Category = "Fencing & Misc"
)

// Categories returns the eight categories in presentation order.
func Categories() []Category {
	return []Category{
		Earthwork,
		ErosionControl,
		StormDrainage,
		SanitarySewer,
		Water,
		PavingConcrete,
		StripingSigns,
		FencingMisc,
	}
}

// ParseCategory resolves a category name to its Category value.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// Item is one catalog entry: a line-item definition with its seed unit price.
type Item struct {
	Code        string  `yaml:"code" json:"code"`
	Description string  `yaml:"description" json:"description"`
	Unit        string  `yaml:"unit" json:"unit"`
	SeedPrice   float64 `yaml:"seedPrice" json:"seedPrice"`
}

// Catalog maps each category to its ordered item list, plus the alternate
// sanitary item set used when a site is served by septic instead of public
// sewer.
type Catalog struct {
	sections map[Category][]Item
	septic   []Item
}

// Default returns the built-in catalog.
func Default() *Catalog {
	sections := make(map[Category][]Item, len(defaultSections))
	for cat, items := range defaultSections {
		sections[cat] = append([]Item(nil), items...)
	}
	return &Catalog{
		sections: sections,
		septic:   append([]Item(nil), septicItems...),
	}
}

// Clone returns a deep copy so per-request overrides never touch the shared
// catalog.
func (c *Catalog) Clone() *Catalog {
	sections := make(map[Category][]Item, len(c.sections))
	for cat, items := range c.sections {
		sections[cat] = append([]Item(nil), items...)
	}
	return &Catalog{
		sections: sections,
		septic:   append([]Item(nil), c.septic...),
	}
}

// Items returns the ordered catalog entries for a category.
func (c *Catalog) Items(cat Category) []Item {
	return c.sections[cat]
}

// SepticItems returns the sanitary substitution set for septic-served sites.
func (c *Catalog) SepticItems() []Item {
	return c.septic
}

// Price returns the seed unit price for an item code, searching the whole
// catalog including the septic alternates.
func (c *Catalog) Price(code string) (float64, bool) {
	for _, cat := range Categories() {
		for _, item := range c.sections[cat] {
			if item.Code == code {
				return item.SeedPrice, true
			}
		}
	}
	for _, item := range c.septic {
		if item.Code == code {
			return item.SeedPrice, true
		}
	}
	return 0, false
}

// ApplyOverrides replaces seed prices for the given item codes. Unknown codes
// are returned so the caller can warn; negative prices are rejected.
func (c *Catalog) ApplyOverrides(prices map[string]float64) ([]string, error) {
	var unknown []string
	for code, price := range prices {
		if price < 0 {
			return nil, fmt.Errorf("unit price for %s must not be negative, got %.2f", code, price)
		}
		if !c.setPrice(code, price) {
			unknown = append(unknown, code)
		}
	}
	return unknown, nil
}

func (c *Catalog) setPrice(code string, price float64) bool {
	for cat, items := range c.sections {
		for i := range items {
			if items[i].Code == code {
				c.sections[cat][i].SeedPrice = price
				return true
			}
		}
	}
	for i := range c.septic {
		if c.septic[i].Code == code {
			c.septic[i].SeedPrice = price
			return true
		}
	}
	return false
}

// overrideFile is the YAML shape of a price override file: a flat map of item
// code to unit price.
type overrideFile struct {
	Prices map[string]float64 `yaml:"prices"`
}

// LoadOverrides reads a YAML price override file and applies it to the
// catalog. A missing file is not an error; the catalog is left unchanged.
func (c *Catalog) LoadOverrides(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read price override file: %w", err)
	}
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse price override file: %w", err)
	}
	return c.ApplyOverrides(file.Prices)
}

var defaultSections = map[Category][]Item{
	Earthwork: {
		{Code: "EW-1", Description: "Clearing & Grubbing", Unit: "AC", SeedPrice: 5500.00},
		{Code: "EW-2", Description: "Mass Excavation/Fill", Unit: "CY", SeedPrice: 5.00},
		{Code: "EW-3", Description: "Topsoil Strip & Stockpile", Unit: "CY", SeedPrice: 2.50},
		{Code: "EW-4", Description: "Topsoil Respread", Unit: "CY", SeedPrice: 3.00},
		{Code: "EW-5", Description: "Fine Grade Subgrade", Unit: "SY", SeedPrice: 0.75},
		{Code: "EW-6", Description: "Proof Rolling", Unit: "SY", SeedPrice: 0.40},
		{Code: "EW-7", Description: "Import/Export Haul", Unit: "CY", SeedPrice: 6.50},
	},
	ErosionControl: {
		{Code: "EC-1", Description: "Construction Entrance", Unit: "EA", SeedPrice: 2200.00},
		{Code: "EC-2", Description: "Silt Fence w/ J-hooks", Unit: "LF", SeedPrice: 3.50},
		{Code: "EC-3", Description: "Inlet Protection", Unit: "EA", SeedPrice: 175.00},
		{Code: "EC-4", Description: "Erosion Control Matting", Unit: "SY", SeedPrice: 1.40},
		{Code: "EC-5", Description: "Temporary Seeding & Mulch", Unit: "AC", SeedPrice: 1800.00},
		{Code: "EC-6", Description: "Permanent Seeding", Unit: "AC", SeedPrice: 3000.00},
	},
	StormDrainage: {
		{Code: "SD-1", Description: `15" RCP Storm Pipe`, Unit: "LF", SeedPrice: 75.00},
		{Code: "SD-2", Description: `18" RCP Storm Pipe`, Unit: "LF", SeedPrice: 90.00},
		{Code: "SD-3", Description: `24" RCP Storm Pipe`, Unit: "LF", SeedPrice: 125.00},
		{Code: "SD-4", Description: "Catch Basin / Inlet", Unit: "EA", SeedPrice: 3200.00},
		{Code: "SD-5", Description: "Storm Manhole", Unit: "EA", SeedPrice: 3800.00},
		{Code: "SD-6", Description: "Headwall / Endwall w/ Riprap", Unit: "EA", SeedPrice: 3500.00},
		{Code: "SD-7", Description: "Outlet Control Structure", Unit: "EA", SeedPrice: 7500.00},
		{Code: "SD-8", Description: "Pond Excavation", Unit: "CY", SeedPrice: 6.00},
		{Code: "SD-9", Description: "Pond Grading", Unit: "SY", SeedPrice: 1.25},
	},
	SanitarySewer: {
		{Code: "SS-1", Description: `8" PVC Sanitary Sewer`, Unit: "LF", SeedPrice: 40.00},
		{Code: "SS-2", Description: "Sanitary Manhole (4' Dia.)", Unit: "EA", SeedPrice: 3800.00},
		{Code: "SS-3", Description: `4" Sewer Service Lateral`, Unit: "EA", SeedPrice: 1200.00},
		{Code: "SS-4", Description: "Connect to Existing Sewer", Unit: "EA", SeedPrice: 2500.00},
	},
	Water: {
		{Code: "W-1", Description: `8" DIP Water Main`, Unit: "LF", SeedPrice: 45.00},
		{Code: "W-2", Description: "Fire Hydrant Assembly", Unit: "EA", SeedPrice: 4000.00},
		{Code: "W-3", Description: "Gate Valve & Box", Unit: "EA", SeedPrice: 1600.00},
		{Code: "W-4", Description: "Tapping Sleeve & Valve", Unit: "EA", SeedPrice: 3000.00},
		{Code: "W-5", Description: `3/4" Water Service & Meter`, Unit: "EA", SeedPrice: 1500.00},
	},
	PavingConcrete: {
		{Code: "PC-1", Description: `Asphalt Base Course (2")`, Unit: "SY", SeedPrice: 18.00},
		{Code: "PC-2", Description: `Asphalt Surface Course (1.5")`, Unit: "SY", SeedPrice: 22.00},
		{Code: "PC-3", Description: `Curb & Gutter (24")`, Unit: "LF", SeedPrice: 26.00},
		{Code: "PC-4", Description: `4" Concrete Sidewalk`, Unit: "SF", SeedPrice: 8.00},
		{Code: "PC-5", Description: "ADA Ramp", Unit: "EA", SeedPrice: 1000.00},
		{Code: "PC-6", Description: "Driveway Apron", Unit: "EA", SeedPrice: 3000.00},
	},
	StripingSigns: {
		{Code: "ST-1", Description: `4" Thermoplastic Striping`, Unit: "LF", SeedPrice: 0.90},
		{Code: "ST-2", Description: `Stop Bar (24")`, Unit: "EA", SeedPrice: 350.00},
		{Code: "ST-3", Description: "Pavement Arrows", Unit: "EA", SeedPrice: 250.00},
		{Code: "ST-4", Description: "Regulatory Signs (Stop, Street)", Unit: "EA", SeedPrice: 350.00},
	},
	FencingMisc: {
		{Code: "FM-1", Description: "6' Chain Link Fence", Unit: "LF", SeedPrice: 28.00},
		{Code: "FM-2", Description: "12' Swing Gate", Unit: "EA", SeedPrice: 1500.00},
		{Code: "FM-3", Description: "Mobilization", Unit: "LS", SeedPrice: 0.00},
		{Code: "FM-4", Description: "Bonds & Insurance", Unit: "LS", SeedPrice: 0.00},
	},
}

// septicItems replace the public-sewer items when sewerType is septic.
var septicItems = []Item{
	{Code: "SP-1", Description: "Septic Tank & Drain Field", Unit: "EA", SeedPrice: 9500.00},
	{Code: "SP-2", Description: "Soil Evaluation & Perc Test", Unit: "EA", SeedPrice: 350.00},
}
