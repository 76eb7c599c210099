// Package sitespec defines the site-level input parameters and includes
// functions for loading and validating the project configuration.
package sitespec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput indicates a numeric input outside its valid domain, e.g.
// non-positive acreage or a negative quantity.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidEnum indicates an unrecognized enumeration value.
var ErrInvalidEnum = errors.New("invalid enum value")

// SewerType selects how lots are served with wastewater disposal.
type SewerType string

const (
	SewerPublic SewerType = "public"
	SewerSeptic SewerType = "septic"
)

// ParseSewerType resolves a sewer type name, case-insensitively.
func ParseSewerType(name string) (SewerType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(SewerPublic):
		return SewerPublic, nil
	case string(SewerSeptic):
		return SewerSeptic, nil
	}
	return "", fmt.Errorf("%w: sewerType %q", ErrInvalidEnum, name)
}

// CurbType selects the roadway curb treatment.
type CurbType string

const (
	CurbStandard CurbType = "standard"
	CurbRolled   CurbType = "rolled"
	CurbNone     CurbType = "none"
)

// ParseCurbType resolves a curb type name, case-insensitively.
func ParseCurbType(name string) (CurbType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(CurbStandard):
		return CurbStandard, nil
	case string(CurbRolled):
		return CurbRolled, nil
	case string(CurbNone):
		return CurbNone, nil
	}
	return "", fmt.Errorf("%w: curbType %q", ErrInvalidEnum, name)
}

// SiteParameters holds the raw site-level inputs every derivation starts from.
type SiteParameters struct {
	GrossAcres        float64   `yaml:"grossAcres" json:"grossAcres"`
	TargetLotSizeSqFt float64   `yaml:"targetLotSizeSqFt" json:"targetLotSizeSqFt"`
	SewerType         SewerType `yaml:"sewerType" json:"sewerType"`
	HasSidewalk       bool      `yaml:"hasSidewalk" json:"hasSidewalk"`
	CurbType          CurbType  `yaml:"curbType" json:"curbType"`
}

// Validate rejects out-of-domain numerics and unrecognized enum values. No
// derived state is touched when validation fails.
func (p SiteParameters) Validate() error {
	if p.GrossAcres <= 0 {
		return fmt.Errorf("%w: grossAcres must be positive, got %.4f", ErrInvalidInput, p.GrossAcres)
	}
	if p.TargetLotSizeSqFt <= 0 {
		return fmt.Errorf("%w: targetLotSizeSqFt must be positive, got %.2f", ErrInvalidInput, p.TargetLotSizeSqFt)
	}
	if _, err := ParseSewerType(string(p.SewerType)); err != nil {
		return err
	}
	if _, err := ParseCurbType(string(p.CurbType)); err != nil {
		return err
	}
	return nil
}

// Normalize lowercases the enum fields so YAML/JSON payloads may use any case.
func (p *SiteParameters) Normalize() {
	p.SewerType = SewerType(strings.ToLower(strings.TrimSpace(string(p.SewerType))))
	p.CurbType = CurbType(strings.ToLower(strings.TrimSpace(string(p.CurbType))))
}
