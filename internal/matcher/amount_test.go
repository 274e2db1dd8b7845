package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wanjohi/mpesa-csv/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestAmountFactorNoConfiguration(t *testing.T) {
	assert.Equal(t, 1.0, amountFactor(nil, 1234))
	assert.Equal(t, 1.0, amountFactor(&models.AmountPattern{}, 1234))
}

func TestAmountFactorTypicalExactHit(t *testing.T) {
	ap := &models.AmountPattern{Typical: []float64{1000, 2000, 5000}}
	assert.Equal(t, 1.0, amountFactor(ap, 1000))
}

func TestAmountFactorTypicalDecay(t *testing.T) {
	ap := &models.AmountPattern{Typical: []float64{1000}}
	// 1 - |1000-1500|/1000 = 0.5
	assert.InDelta(t, 0.5, amountFactor(ap, 1500), 1e-9)
}

func TestAmountFactorRangeFloor(t *testing.T) {
	ap := &models.AmountPattern{
		Typical: []float64{1000, 2000, 5000},
		Min:     fptr(100),
		Max:     fptr(50000),
	}
	// 48,000 is far from every typical value but inside the range:
	// the factor floors at 0.8.
	assert.Equal(t, 0.8, amountFactor(ap, 48000))
}

func TestAmountFactorConfiguredButUnqualified(t *testing.T) {
	// Far outside typical and outside range: signals configured but none
	// qualified, defaulting to 0.5.
	ap := &models.AmountPattern{Typical: []float64{1000}, Min: fptr(100), Max: fptr(2000)}
	assert.Equal(t, 0.5, amountFactor(ap, 100000))

	// Range only, amount outside.
	ap = &models.AmountPattern{Min: fptr(100), Max: fptr(2000)}
	assert.Equal(t, 0.5, amountFactor(ap, 5000))
}

func TestAmountFactorRangeOnlyInside(t *testing.T) {
	ap := &models.AmountPattern{Min: fptr(100), Max: fptr(2000)}
	assert.Equal(t, 0.8, amountFactor(ap, 500))
}
