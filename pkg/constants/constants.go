// Package constants provides shared constants for the land-takeoffs application.
package constants

// SquareFeetPerAcre is the conversion factor from acres to square feet.
const SquareFeetPerAcre = 43560.0

// Acreage allocation policy percentages. Net developable land is always the
// complement of the other four, so the five sum to 100 by construction.
const (
	// RoadsPct is the share of gross acreage consumed by road rights-of-way
	RoadsPct = 22.0

	// OpenSpacePct is the share reserved as common open space
	OpenSpacePct = 15.0

	// DetentionPct is the share consumed by stormwater detention
	DetentionPct = 7.0

	// BuffersPct is the share consumed by perimeter and stream buffers
	BuffersPct = 4.0
)

// Road geometry rules-of-thumb used by the quantity takeoff.
const (
	// RightOfWayWidthFt is the assumed road right-of-way width
	RightOfWayWidthFt = 50.0

	// PavementWidthFt is the assumed back-of-curb to back-of-curb pavement width
	PavementWidthFt = 30.0

	// SquareFeetPerSquareYard converts paving areas to SY
	SquareFeetPerSquareYard = 9.0

	// CubicFeetPerCubicYard converts excavation volumes to CY
	CubicFeetPerCubicYard = 27.0

	// IntersectionSpacingFt approximates one intersection per quarter mile of road
	IntersectionSpacingFt = 1320.0
)

// Drainage and utility spacing rules-of-thumb.
const (
	// StormInletSpacingFt is the along-road spacing between storm inlets (each side)
	StormInletSpacingFt = 400.0

	// StormManholeSpacingFt is the spacing between storm junction manholes
	StormManholeSpacingFt = 500.0

	// SanitaryManholeSpacingFt is the spacing between sanitary manholes
	SanitaryManholeSpacingFt = 400.0

	// HydrantSpacingFt is the maximum hydrant spacing for residential service
	HydrantSpacingFt = 500.0

	// GateValveSpacingFt is the spacing between line valves on the water main
	GateValveSpacingFt = 600.0

	// PondMaxAcres is the largest single detention pond before splitting into two
	PondMaxAcres = 2.0

	// PondDepthFt is the assumed average detention pond excavation depth
	PondDepthFt = 4.0
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default project configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
