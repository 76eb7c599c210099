// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/landtakeoffs/land-takeoffs/internal/estimate"
	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
)

// ReferenceSiteParameters returns the 50-acre public-sewer site used as the
// shared reference scenario across the test suites.
func ReferenceSiteParameters() sitespec.SiteParameters {
	return sitespec.SiteParameters{
		GrossAcres:        50,
		TargetLotSizeSqFt: 8000,
		SewerType:         sitespec.SewerPublic,
		HasSidewalk:       true,
		CurbType:          sitespec.CurbStandard,
	}
}

// FindSection finds a section by category in the sections slice.
// Returns a pointer to the section if found, nil otherwise.
func FindSection(sections []estimate.Section, cat pricebook.Category) *estimate.Section {
	for i := range sections {
		if sections[i].Category == cat {
			return &sections[i]
		}
	}
	return nil
}

// FindItem finds a line item by code anywhere in the sections slice.
// Returns a pointer to the item if found, nil otherwise.
func FindItem(sections []estimate.Section, code string) *estimate.LineItem {
	for i := range sections {
		if item := sections[i].Item(code); item != nil {
			return item
		}
	}
	return nil
}
