package scoring

import (
	"fmt"
	"math"
)

// weightSumTolerance is the numeric tolerance used when checking that a
// weight configuration sums to 1.0.
const weightSumTolerance = 1e-6

// Weights maps each factor to its share of the composite score.
// A valid configuration sums to 1.0 within tolerance.
type Weights map[Factor]float64

// DefaultWeights returns the canonical percentage scheme.
func DefaultWeights() Weights {
	return Weights{
		FactorLocation:       0.25,
		FactorCondition:      0.20,
		FactorMarket:         0.15,
		FactorComparables:    0.10,
		FactorEconomic:       0.10,
		FactorFeatures:       0.08,
		FactorInfrastructure: 0.05,
		FactorEnvironmental:  0.03,
		FactorLegal:          0.02,
		FactorInvestment:     0.02,
	}
}

// Sum returns the total of all configured weights.
func (w Weights) Sum() float64 {
	var total float64
	// Fixed iteration order so the float accumulation is reproducible.
	for _, f := range Factors {
		if v, ok := w[f]; ok {
			total += v
		}
	}
	for f, v := range w {
		if !f.Known() {
			total += v
		}
	}
	return total
}

// Validate checks that the configuration sums to 1.0 within tolerance.
func (w Weights) Validate() error {
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return &InvalidWeightConfigurationError{Sum: sum}
	}
	return nil
}

// UnknownFactorError indicates a supplied score has no configured weight.
type UnknownFactorError struct {
	Factor Factor
}

func (e *UnknownFactorError) Error() string {
	return fmt.Sprintf("no weight configured for factor: %s", e.Factor)
}

// InvalidWeightConfigurationError indicates the weight set does not sum
// to 1.0 within tolerance.
type InvalidWeightConfigurationError struct {
	Sum float64
}

func (e *InvalidWeightConfigurationError) Error() string {
	return fmt.Sprintf("weights must sum to 1.0, got: %f", e.Sum)
}
