package matcher

import (
	"math"

	"wanjohi/mpesa-csv/internal/models"
)

// rangeFloorConfidence is the factor floor for amounts inside a rule's
// configured min/max range.
const rangeFloorConfidence = 0.8

// unqualifiedConfidence is the factor when amount signals are configured
// but none qualified for the given amount.
const unqualifiedConfidence = 0.5

// amountFactor computes the amount-plausibility factor for a rule against
// a transaction amount. With a typical-amount list, confidence decays
// linearly with relative distance to the nearest listed amount. With a
// range, amounts inside it floor the factor at 0.8. The factor is the
// maximum of whichever signals apply; no configuration means no penalty.
func amountFactor(ap *models.AmountPattern, amount float64) float64 {
	if ap == nil || (len(ap.Typical) == 0 && ap.Min == nil && ap.Max == nil) {
		return 1
	}

	factor := 0.0
	if len(ap.Typical) > 0 {
		closest := ap.Typical[0]
		for _, typical := range ap.Typical[1:] {
			if math.Abs(typical-amount) < math.Abs(closest-amount) {
				closest = typical
			}
		}
		if closest > 0 {
			decay := 1 - math.Min(1, math.Abs(closest-amount)/closest)
			factor = math.Max(factor, decay)
		}
	}

	if inRange(ap, amount) {
		factor = math.Max(factor, rangeFloorConfidence)
	}

	if factor <= 0 {
		return unqualifiedConfidence
	}
	return factor
}

func inRange(ap *models.AmountPattern, amount float64) bool {
	if ap.Min == nil && ap.Max == nil {
		return false
	}
	if ap.Min != nil && amount < *ap.Min {
		return false
	}
	if ap.Max != nil && amount > *ap.Max {
		return false
	}
	return true
}
