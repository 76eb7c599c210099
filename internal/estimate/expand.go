package estimate

import (
	"math"

	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/constants"
	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"go.uber.org/zap"
)

// takeoff holds the intermediate figures every quantity rule draws from.
type takeoff struct {
	params sitespec.SiteParameters
	alloc  Allocation

	roadAcres      float64
	roadLF         float64
	pavementSY     float64
	detentionAcres float64
	pondCount      float64
	intersections  float64
	inletCount     float64
	sitePerimLF    float64
	pondPerimLF    float64
}

func newTakeoff(params sitespec.SiteParameters, alloc Allocation) takeoff {
	t := takeoff{params: params, alloc: alloc}
	t.roadAcres = params.GrossAcres * constants.RoadsPct / 100.0
	t.roadLF = t.roadAcres * constants.SquareFeetPerAcre / constants.RightOfWayWidthFt
	t.pavementSY = t.roadLF * constants.PavementWidthFt / constants.SquareFeetPerSquareYard
	t.detentionAcres = params.GrossAcres * constants.DetentionPct / 100.0
	t.pondCount = math.Max(1, math.Ceil(t.detentionAcres/constants.PondMaxAcres))
	t.intersections = math.Max(1, math.Round(t.roadLF/constants.IntersectionSpacingFt))
	t.inletCount = mathutil.CeilCount(t.roadLF, constants.StormInletSpacingFt) * 2
	t.sitePerimLF = 4 * math.Sqrt(params.GrossAcres*constants.SquareFeetPerAcre)
	t.pondPerimLF = 4 * math.Sqrt(t.detentionAcres*constants.SquareFeetPerAcre)
	return t
}

// quantityRules maps item codes to their rule-of-thumb quantity derivations.
// Every catalog item has a rule; a missing entry yields quantity zero.
var quantityRules = map[string]func(t takeoff) float64{
	// Earthwork: cut/fill and topsoil volumes scale with the land actually
	// developed; subgrade work tracks the pavement area.
	"EW-1": func(t takeoff) float64 { return t.params.GrossAcres },
	"EW-2": func(t takeoff) float64 { return 800 * t.alloc.NetDevelopableAcres },
	"EW-3": func(t takeoff) float64 { return 300 * t.alloc.NetDevelopableAcres },
	"EW-4": func(t takeoff) float64 { return 200 * t.alloc.NetDevelopableAcres },
	"EW-5": func(t takeoff) float64 { return t.pavementSY },
	"EW-6": func(t takeoff) float64 { return t.pavementSY },
	"EW-7": func(t takeoff) float64 { return 50 * t.alloc.NetDevelopableAcres },

	// Erosion control: silt fence rings the site perimeter, matting lines the
	// detention slopes, seeding splits between disturbed and preserved areas.
	"EC-1": func(t takeoff) float64 { return math.Max(1, math.Ceil(t.params.GrossAcres/25)) },
	"EC-2": func(t takeoff) float64 { return t.sitePerimLF },
	"EC-3": func(t takeoff) float64 { return t.inletCount },
	"EC-4": func(t takeoff) float64 { return 500 * t.detentionAcres },
	"EC-5": func(t takeoff) float64 {
		return t.params.GrossAcres * (100 - constants.OpenSpacePct) / 100.0
	},
	"EC-6": func(t takeoff) float64 {
		return t.params.GrossAcres * (constants.OpenSpacePct + constants.DetentionPct + constants.BuffersPct) / 100.0
	},

	// Storm drainage: pipe splits by diameter along the road network,
	// structures follow spacing rules, pond work follows detention acreage.
	"SD-1": func(t takeoff) float64 { return t.roadLF * 0.40 },
	"SD-2": func(t takeoff) float64 { return t.roadLF * 0.25 },
	"SD-3": func(t takeoff) float64 { return t.roadLF * 0.10 },
	"SD-4": func(t takeoff) float64 { return t.inletCount },
	"SD-5": func(t takeoff) float64 { return mathutil.CeilCount(t.roadLF, constants.StormManholeSpacingFt) },
	"SD-6": func(t takeoff) float64 { return t.pondCount * 2 },
	"SD-7": func(t takeoff) float64 { return t.pondCount },
	"SD-8": func(t takeoff) float64 {
		return t.detentionAcres * constants.SquareFeetPerAcre * constants.PondDepthFt / constants.CubicFeetPerCubicYard
	},
	"SD-9": func(t takeoff) float64 {
		return t.detentionAcres * constants.SquareFeetPerAcre / constants.SquareFeetPerSquareYard
	},

	// Sanitary sewer (public service only): main follows the roads, one
	// lateral per lot, one tie-in to the existing system.
	"SS-1": func(t takeoff) float64 { return t.roadLF },
	"SS-2": func(t takeoff) float64 { return mathutil.CeilCount(t.roadLF, constants.SanitaryManholeSpacingFt) },
	"SS-3": func(t takeoff) float64 { return float64(t.alloc.LotCount) },
	"SS-4": func(t takeoff) float64 { return 1 },

	// Septic substitution: one system and one soil evaluation per lot.
	"SP-1": func(t takeoff) float64 { return float64(t.alloc.LotCount) },
	"SP-2": func(t takeoff) float64 { return float64(t.alloc.LotCount) },

	// Water: main follows the roads, one service per lot.
	"W-1": func(t takeoff) float64 { return t.roadLF },
	"W-2": func(t takeoff) float64 { return mathutil.CeilCount(t.roadLF, constants.HydrantSpacingFt) },
	"W-3": func(t takeoff) float64 { return mathutil.CeilCount(t.roadLF, constants.GateValveSpacingFt) },
	"W-4": func(t takeoff) float64 { return 1 },
	"W-5": func(t takeoff) float64 { return float64(t.alloc.LotCount) },

	// Paving: both asphalt lifts cover the full pavement area; curb runs both
	// sides unless the site has no curb; sidewalk is 4 ft wide on both sides
	// when present, with ramps at every intersection corner.
	"PC-1": func(t takeoff) float64 { return t.pavementSY },
	"PC-2": func(t takeoff) float64 { return t.pavementSY },
	"PC-3": func(t takeoff) float64 {
		if t.params.CurbType == sitespec.CurbNone {
			return 0
		}
		return 2 * t.roadLF
	},
	"PC-4": func(t takeoff) float64 {
		if !t.params.HasSidewalk {
			return 0
		}
		return t.roadLF * 8
	},
	"PC-5": func(t takeoff) float64 {
		if !t.params.HasSidewalk {
			return 0
		}
		return t.intersections * 4
	},
	"PC-6": func(t takeoff) float64 { return float64(t.alloc.LotCount) },

	// Striping and signage: centerline the full length, signage per
	// intersection plus the two entrance signs.
	"ST-1": func(t takeoff) float64 { return t.roadLF },
	"ST-2": func(t takeoff) float64 { return t.intersections },
	"ST-3": func(t takeoff) float64 { return t.intersections * 2 },
	"ST-4": func(t takeoff) float64 { return t.intersections*2 + 2 },

	// Fencing and misc: fence rings the detention ponds, one gate per pond,
	// lump sums carry quantity one.
	"FM-1": func(t takeoff) float64 { return t.pondPerimLF },
	"FM-2": func(t takeoff) float64 { return t.pondCount },
	"FM-3": func(t takeoff) float64 { return 1 },
	"FM-4": func(t takeoff) float64 { return 1 },
}

// ExpandQuantities fills the catalog's line items with rule-derived
// quantities for the given site. Pure: identical inputs yield identical
// sections. When the site is septic-served the public sanitary items are
// omitted and the septic set substituted.
func ExpandQuantities(logger *zap.Logger, params sitespec.SiteParameters, alloc Allocation, catalog *pricebook.Catalog) ([]Section, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	t := newTakeoff(params, alloc)

	sections := make([]Section, 0, len(pricebook.Categories()))
	for _, cat := range pricebook.Categories() {
		items := catalog.Items(cat)
		if cat == pricebook.SanitarySewer && params.SewerType == sitespec.SewerSeptic {
			items = catalog.SepticItems()
		}

		section := Section{Category: cat, Items: make([]LineItem, 0, len(items))}
		for _, item := range items {
			qty := 0.0
			if rule, ok := quantityRules[item.Code]; ok {
				qty = rule(t)
			} else {
				logger.Debug("no quantity rule for item",
					zap.String("op", "estimate.ExpandQuantities"),
					zap.String("code", item.Code),
				)
			}
			section.Items = append(section.Items, LineItem{
				Category:    cat,
				Code:        item.Code,
				Description: item.Description,
				Unit:        item.Unit,
				Quantity:    qty,
				UnitPrice:   item.SeedPrice,
			})
		}
		sections = append(sections, section)
	}

	logger.Debug("quantities expanded",
		zap.String("op", "estimate.ExpandQuantities"),
		zap.Float64("roadLF", t.roadLF),
		zap.Int("lotCount", alloc.LotCount),
		zap.String("sewerType", string(params.SewerType)),
	)

	return sections, nil
}
