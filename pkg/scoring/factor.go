package scoring

// Factor is one of the ten fixed named dimensions of property quality
// used as valuation inputs.
type Factor string

const (
	FactorLocation       Factor = "location"
	FactorCondition      Factor = "condition"
	FactorMarket         Factor = "market"
	FactorComparables    Factor = "comparables"
	FactorEconomic       Factor = "economic"
	FactorFeatures       Factor = "features"
	FactorInfrastructure Factor = "infrastructure"
	FactorEnvironmental  Factor = "environmental"
	FactorLegal          Factor = "legal"
	FactorInvestment     Factor = "investment"
)

// Factors lists the canonical ten factors in report order.
var Factors = []Factor{
	FactorLocation,
	FactorCondition,
	FactorMarket,
	FactorComparables,
	FactorEconomic,
	FactorFeatures,
	FactorInfrastructure,
	FactorEnvironmental,
	FactorLegal,
	FactorInvestment,
}

// Raw factor scores and the composite score share the same bounded range.
const (
	ScoreMin = 0.0
	ScoreMax = 100.0
)

func (f Factor) String() string {
	return string(f)
}

// Known reports whether f is one of the canonical ten factors.
func (f Factor) Known() bool {
	for _, k := range Factors {
		if f == k {
			return true
		}
	}
	return false
}

// FactorScore is a single raw factor assessment.
type FactorScore struct {
	Factor    Factor  `json:"factor" yaml:"factor"`
	Score     float64 `json:"score" yaml:"score"`
	Rationale string  `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}
