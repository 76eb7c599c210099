package sitespec

import (
	"errors"
	"testing"
)

func TestParseSewerType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SewerType
		wantErr  bool
	}{
		{name: "Public", input: "public", expected: SewerPublic},
		{name: "Septic", input: "septic", expected: SewerSeptic},
		{name: "Mixed case", input: "Public", expected: SewerPublic},
		{name: "Surrounding whitespace", input: "  septic ", expected: SewerSeptic},
		{name: "Unknown", input: "municipal", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSewerType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSewerType(%q): expected error", tt.input)
				}
				if !errors.Is(err, ErrInvalidEnum) {
					t.Errorf("ParseSewerType(%q): error is not ErrInvalidEnum: %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSewerType(%q): unexpected error %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseSewerType(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseCurbType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected CurbType
		wantErr  bool
	}{
		{name: "Standard", input: "standard", expected: CurbStandard},
		{name: "Rolled", input: "rolled", expected: CurbRolled},
		{name: "None", input: "none", expected: CurbNone},
		{name: "Mixed case", input: "ROLLED", expected: CurbRolled},
		{name: "Unknown", input: "mountable", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurbType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCurbType(%q): expected error", tt.input)
				}
				if !errors.Is(err, ErrInvalidEnum) {
					t.Errorf("ParseCurbType(%q): error is not ErrInvalidEnum: %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCurbType(%q): unexpected error %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseCurbType(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSiteParametersValidate(t *testing.T) {
	valid := SiteParameters{
		GrossAcres:        50,
		TargetLotSizeSqFt: 8000,
		SewerType:         SewerPublic,
		HasSidewalk:       true,
		CurbType:          CurbStandard,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error for valid parameters: %v", err)
	}

	tests := []struct {
		name     string
		mutate   func(*SiteParameters)
		sentinel error
	}{
		{name: "Zero acres", mutate: func(p *SiteParameters) { p.GrossAcres = 0 }, sentinel: ErrInvalidInput},
		{name: "Negative acres", mutate: func(p *SiteParameters) { p.GrossAcres = -5 }, sentinel: ErrInvalidInput},
		{name: "Zero lot size", mutate: func(p *SiteParameters) { p.TargetLotSizeSqFt = 0 }, sentinel: ErrInvalidInput},
		{name: "Bad sewer type", mutate: func(p *SiteParameters) { p.SewerType = "well" }, sentinel: ErrInvalidEnum},
		{name: "Bad curb type", mutate: func(p *SiteParameters) { p.CurbType = "vertical" }, sentinel: ErrInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)
			err := params.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected sentinel %v, got %v", tt.sentinel, err)
			}
		})
	}
}

func TestSiteParametersNormalize(t *testing.T) {
	params := SiteParameters{
		GrossAcres:        50,
		TargetLotSizeSqFt: 8000,
		SewerType:         " Septic ",
		CurbType:          "NONE",
	}
	params.Normalize()

	if params.SewerType != SewerSeptic {
		t.Errorf("expected normalized sewer type %s, got %s", SewerSeptic, params.SewerType)
	}
	if params.CurbType != CurbNone {
		t.Errorf("expected normalized curb type %s, got %s", CurbNone, params.CurbType)
	}
	if err := params.Validate(); err != nil {
		t.Errorf("normalized parameters should validate: %v", err)
	}
}
