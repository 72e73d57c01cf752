package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_Valid(t *testing.T) {
	w := DefaultWeights()
	assert.Len(t, w, len(Factors))
	assert.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.Sum(), weightSumTolerance)
}

func TestWeights_ValidateRejectsBadSum(t *testing.T) {
	w := Weights{
		FactorLocation:  0.5,
		FactorCondition: 0.47,
	}

	err := w.Validate()
	require.Error(t, err)

	var weightErr *InvalidWeightConfigurationError
	require.ErrorAs(t, err, &weightErr)
	assert.InDelta(t, 0.97, weightErr.Sum, 1e-9)
	assert.Contains(t, err.Error(), "must sum to 1.0")
}

func TestWeights_ValidateWithinTolerance(t *testing.T) {
	w := DefaultWeights()
	w[FactorLocation] += 1e-9
	assert.NoError(t, w.Validate())
}

func TestWeights_SumIncludesUnknownKeys(t *testing.T) {
	w := Weights{
		FactorLocation:        0.5,
		Factor("curb_appeal"): 0.5,
	}
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	assert.NoError(t, w.Validate())
}

func TestFactor_Known(t *testing.T) {
	for _, f := range Factors {
		assert.True(t, f.Known(), f.String())
	}
	assert.False(t, Factor("curb_appeal").Known())
	assert.False(t, Factor("").Known())
}
