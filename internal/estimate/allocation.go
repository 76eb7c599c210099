package estimate

import (
	"math"

	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/constants"
	"go.uber.org/zap"
)

// CalculateAllocation converts gross acreage and the fixed allocation policy
// into net developable acreage and a buildable lot count. Pure; the five
// percentages sum to 100 by construction because the net share is the
// complement of the other four.
func CalculateAllocation(logger *zap.Logger, params sitespec.SiteParameters) (Allocation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := params.Validate(); err != nil {
		return Allocation{}, err
	}

	netPct := 100.0 - (constants.RoadsPct + constants.OpenSpacePct + constants.DetentionPct + constants.BuffersPct)
	netAcres := params.GrossAcres * netPct / 100.0

	// Partial lots are discarded, never rounded up.
	lotCount := int(math.Floor(netAcres * constants.SquareFeetPerAcre / params.TargetLotSizeSqFt))

	alloc := Allocation{
		RoadsPct:            constants.RoadsPct,
		OpenSpacePct:        constants.OpenSpacePct,
		DetentionPct:        constants.DetentionPct,
		BuffersPct:          constants.BuffersPct,
		NetDevelopablePct:   netPct,
		NetDevelopableAcres: netAcres,
		LotCount:            lotCount,
	}

	logger.Debug("allocation computed",
		zap.String("op", "estimate.CalculateAllocation"),
		zap.Float64("grossAcres", params.GrossAcres),
		zap.Float64("netDevelopableAcres", netAcres),
		zap.Int("lotCount", lotCount),
	)

	return alloc, nil
}
