package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/reval/pkg/zillow"
)

func testProperty() *zillow.Property {
	return &zillow.Property{
		ZPID:          "12345",
		Address:       "123 Main St",
		City:          "Portland",
		State:         "OR",
		ZipCode:       "97201",
		PropertyType:  "Single Family",
		Price:         500000,
		Zestimate:     520000,
		RentZestimate: 2800,
		AnnualTax:     5200,
		Bedrooms:      3,
		Bathrooms:     2.5,
		LivingArea:    1850,
		YearBuilt:     2005,
		DaysOnMarket:  14,
		FloodZone:     "X",
		Schools: []zillow.School{
			{Name: "Lincoln Elementary", Rating: 8, Distance: 0.4},
			{Name: "Grant High", Rating: 7, Distance: 1.2},
		},
	}
}

func testComparables() *zillow.Comparables {
	return &zillow.Comparables{
		Results: []zillow.Comparable{
			{ZPID: "11111", Price: 480000, LivingArea: 1700},
			{ZPID: "22222", Price: 530000, LivingArea: 1900},
			{ZPID: "33333", Price: 610000, LivingArea: 2100},
		},
	}
}

func TestAnalyzeProperty_FullListing(t *testing.T) {
	scores := AnalyzeProperty(testProperty(), testComparables())
	require.Len(t, scores, len(Factors))

	// Canonical order and bounded scores.
	for i, s := range scores {
		assert.Equal(t, Factors[i], s.Factor)
		assert.GreaterOrEqual(t, s.Score, ScoreMin)
		assert.LessOrEqual(t, s.Score, ScoreMax)
		assert.NotEmpty(t, s.Rationale)
	}
}

func TestAnalyzeProperty_FeedsScorer(t *testing.T) {
	scores := AnalyzeProperty(testProperty(), testComparables())

	res, err := ComputeValuation(scores, DefaultWeights())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.Greater(t, res.Composite, 0.0)
}

func TestAnalyzeProperty_NilProperty(t *testing.T) {
	assert.Nil(t, AnalyzeProperty(nil, nil))
}

func TestAnalyzeProperty_SparseListing(t *testing.T) {
	p := &zillow.Property{
		ZPID:    "12345",
		Address: "123 Main St",
		City:    "Portland",
	}

	scores := AnalyzeProperty(p, nil)

	// Location always works with an address, legal defaults without an
	// HOA fee, everything else lacks signal.
	require.Len(t, scores, 2)
	assert.Equal(t, FactorLocation, scores[0].Factor)
	assert.Equal(t, FactorLegal, scores[1].Factor)

	res, err := ComputeValuation(scores, DefaultWeights())
	require.NoError(t, err)
	assert.InDelta(t, 0.27, res.Confidence, 1e-9)
}

func TestAnalyzeCondition_YearBuiltTiers(t *testing.T) {
	tests := []struct {
		yearBuilt int
		want      float64
	}{
		{2020, 85},
		{2005, 75},
		{1990, 60},
		{1950, 50},
	}

	for _, tc := range tests {
		s, ok := analyzeCondition(&zillow.Property{YearBuilt: tc.yearBuilt}, nil)
		require.True(t, ok)
		assert.Equal(t, tc.want, s.Score, "year built %d", tc.yearBuilt)
	}

	_, ok := analyzeCondition(&zillow.Property{}, nil)
	assert.False(t, ok)
}

func TestAnalyzeMarket_PriceVsEstimate(t *testing.T) {
	below, ok := analyzeMarket(&zillow.Property{Price: 450000, Zestimate: 500000}, nil)
	require.True(t, ok)
	assert.Equal(t, 85.0, below.Score)

	above, ok := analyzeMarket(&zillow.Property{Price: 600000, Zestimate: 500000}, nil)
	require.True(t, ok)
	assert.Equal(t, 50.0, above.Score)

	stale, ok := analyzeMarket(&zillow.Property{Price: 500000, Zestimate: 500000, DaysOnMarket: 90}, nil)
	require.True(t, ok)
	assert.Equal(t, 60.0, stale.Score)
}

func TestAnalyzeComparables(t *testing.T) {
	p := testProperty()

	s, ok := analyzeComparables(p, testComparables())
	require.True(t, ok)
	assert.Equal(t, FactorComparables, s.Factor)
	assert.Contains(t, s.Rationale, "3 sales")

	_, ok = analyzeComparables(p, nil)
	assert.False(t, ok)

	_, ok = analyzeComparables(p, &zillow.Comparables{})
	assert.False(t, ok)
}

func TestAnalyzeEnvironmental_FloodZones(t *testing.T) {
	low, ok := analyzeEnvironmental(&zillow.Property{FloodZone: "X"}, nil)
	require.True(t, ok)
	assert.Equal(t, 85.0, low.Score)

	high, ok := analyzeEnvironmental(&zillow.Property{FloodZone: "AE"}, nil)
	require.True(t, ok)
	assert.Equal(t, 40.0, high.Score)

	_, ok = analyzeEnvironmental(&zillow.Property{}, nil)
	assert.False(t, ok)
}

func TestAnalyzeInvestment_RentalYield(t *testing.T) {
	strong, ok := analyzeInvestment(&zillow.Property{Price: 300000, RentZestimate: 2500}, nil)
	require.True(t, ok)
	assert.Equal(t, 85.0, strong.Score)

	weak, ok := analyzeInvestment(&zillow.Property{Price: 900000, RentZestimate: 2500}, nil)
	require.True(t, ok)
	assert.Equal(t, 50.0, weak.Score)
}
