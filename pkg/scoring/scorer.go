package scoring

// ValuationResult is the output of a single valuation: one composite score
// in the same range as the raw inputs, a confidence indicator in [0,1]
// reflecting how much of the total factor weight was backed by data, and
// the contributing factor scores in the order they were supplied.
type ValuationResult struct {
	Composite  float64       `json:"composite" yaml:"composite"`
	Confidence float64       `json:"confidence" yaml:"confidence"`
	Factors    []FactorScore `json:"factors" yaml:"factors"`
}

// ComputeValuation combines per-factor raw scores into a single composite
// valuation score.
//
// Every supplied score must have a configured weight and the weight set
// must sum to 1.0 within tolerance. Factors missing from scores are
// permitted: their weight is excluded from the sum and only the confidence
// value is reduced. The composite is re-normalized by the present weight
// so partial input does not depress the score itself.
//
// The computation is pure and deterministic: accumulation is strict
// left-to-right over the caller-supplied order, so identical inputs always
// produce identical output.
func ComputeValuation(scores []FactorScore, weights Weights) (*ValuationResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	var sum, sumW float64
	factors := make([]FactorScore, 0, len(scores))

	for _, s := range scores {
		w, ok := weights[s.Factor]
		if !ok {
			return nil, &UnknownFactorError{Factor: s.Factor}
		}
		sum += s.Score * w
		sumW += w
		factors = append(factors, s)
	}

	res := &ValuationResult{
		Factors: factors,
	}

	if sumW <= 0 {
		return res, nil
	}

	res.Composite = clamp(sum/sumW, ScoreMin, ScoreMax)
	res.Confidence = clamp(sumW, 0, 1)

	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
