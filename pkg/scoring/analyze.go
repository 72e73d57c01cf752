package scoring

import (
	"fmt"
	"sort"

	"github.com/mchmarny/reval/pkg/zillow"
)

// AnalyzeProperty derives factor scores from the listing attributes of a
// property and its comparable sales. Factors for which the listing carries
// no usable signal are omitted, which lowers the confidence of the
// resulting valuation rather than its composite score.
//
// The returned scores are in canonical factor order and each carries a
// short rationale for the report breakdown.
func AnalyzeProperty(p *zillow.Property, comps *zillow.Comparables) []FactorScore {
	if p == nil {
		return nil
	}

	analyzers := []func(*zillow.Property, *zillow.Comparables) (FactorScore, bool){
		analyzeLocation,
		analyzeCondition,
		analyzeMarket,
		analyzeComparables,
		analyzeEconomic,
		analyzeFeatures,
		analyzeInfrastructure,
		analyzeEnvironmental,
		analyzeLegal,
		analyzeInvestment,
	}

	scores := make([]FactorScore, 0, len(analyzers))
	for _, analyze := range analyzers {
		if s, ok := analyze(p, comps); ok {
			scores = append(scores, s)
		}
	}
	return scores
}

func analyzeLocation(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.Address == "" && p.City == "" {
		return FactorScore{}, false
	}

	score := 70.0
	rationale := fmt.Sprintf("Property located at %s, %s, %s.", p.Address, p.City, p.State)

	if len(p.Schools) > 0 {
		var sum int
		for _, s := range p.Schools {
			sum += s.Rating
		}
		avg := float64(sum) / float64(len(p.Schools))
		// School ratings are 1-10; shift the base by up to +/-15.
		score += (avg - 5) * 3
		rationale += fmt.Sprintf(" Average school rating in area: %.1f/10.", avg)
	}

	return FactorScore{
		Factor:    FactorLocation,
		Score:     clamp(score, ScoreMin, ScoreMax),
		Rationale: rationale,
	}, true
}

func analyzeCondition(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.YearBuilt <= 0 {
		return FactorScore{}, false
	}

	var score float64
	rationale := fmt.Sprintf("%s built in %d.", orUnknown(p.PropertyType), p.YearBuilt)

	switch {
	case p.YearBuilt > 2015:
		score = 85
		rationale += " Recent construction with modern systems and finishes."
	case p.YearBuilt > 2000:
		score = 75
		rationale += " Well-maintained property with updated features."
	case p.YearBuilt > 1980:
		score = 60
		rationale += " Mature property that may benefit from updates."
	default:
		score = 50
		rationale += " Older construction; major systems likely near end of life."
	}

	return FactorScore{Factor: FactorCondition, Score: score, Rationale: rationale}, true
}

func analyzeMarket(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.Price <= 0 || p.Zestimate <= 0 {
		return FactorScore{}, false
	}

	// Ratio of list price to the automated estimate. Listing below the
	// estimate reads as a strong market position.
	ratio := p.Price / p.Zestimate
	score := 70.0
	rationale := fmt.Sprintf("Listed at $%.0f against an estimated value of $%.0f.", p.Price, p.Zestimate)

	switch {
	case ratio <= 0.95:
		score = 85
		rationale += " Priced below the estimate."
	case ratio <= 1.05:
		score = 70
		rationale += " Priced in line with the estimate."
	default:
		score = 50
		rationale += " Priced above the estimate."
	}

	if p.DaysOnMarket > 60 {
		score -= 10
		rationale += fmt.Sprintf(" On market %d days.", p.DaysOnMarket)
	}

	return FactorScore{
		Factor:    FactorMarket,
		Score:     clamp(score, ScoreMin, ScoreMax),
		Rationale: rationale,
	}, true
}

func analyzeComparables(p *zillow.Property, comps *zillow.Comparables) (FactorScore, bool) {
	if comps == nil || len(comps.Results) == 0 || p.LivingArea <= 0 || p.Price <= 0 {
		return FactorScore{}, false
	}

	perSqft := make([]float64, 0, len(comps.Results))
	for _, c := range comps.Results {
		if c.Price > 0 && c.LivingArea > 0 {
			perSqft = append(perSqft, c.Price/c.LivingArea)
		}
	}
	if len(perSqft) == 0 {
		return FactorScore{}, false
	}

	sort.Float64s(perSqft)
	median := perSqft[len(perSqft)/2]
	subject := p.Price / p.LivingArea

	// Subject priced under the comparable median scores higher.
	ratio := subject / median
	score := 70.0
	rationale := fmt.Sprintf("Subject at $%.0f/sqft against a comparable median of $%.0f/sqft (%d sales).",
		subject, median, len(perSqft))

	switch {
	case ratio <= 0.9:
		score = 85
	case ratio <= 1.1:
		score = 70
	default:
		score = 50
	}

	return FactorScore{Factor: FactorComparables, Score: score, Rationale: rationale}, true
}

func analyzeEconomic(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.Price <= 0 || p.AnnualTax <= 0 {
		return FactorScore{}, false
	}

	rate := p.AnnualTax / p.Price * 100
	score := 70.0
	rationale := fmt.Sprintf("Effective property tax rate %.2f%%.", rate)

	switch {
	case rate <= 0.8:
		score = 85
		rationale += " Low carrying cost for the area."
	case rate <= 1.5:
		score = 70
		rationale += " Typical carrying cost."
	default:
		score = 50
		rationale += " High tax burden relative to value."
	}

	return FactorScore{Factor: FactorEconomic, Score: score, Rationale: rationale}, true
}

func analyzeFeatures(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.Bedrooms <= 0 || p.LivingArea <= 0 {
		return FactorScore{}, false
	}

	score := 60.0
	rationale := fmt.Sprintf("%d bedrooms, %.1f bathrooms, %.0f sqft.", p.Bedrooms, p.Bathrooms, p.LivingArea)

	spacePerBedroom := p.LivingArea / float64(p.Bedrooms)
	switch {
	case spacePerBedroom > 600:
		score = 80
		rationale += " Spacious layout with generous room sizes."
	case spacePerBedroom > 400:
		score = 65
		rationale += " Well-proportioned layout."
	default:
		score = 50
		rationale += " Compact layout may feel cramped."
	}

	if p.Bathrooms >= float64(p.Bedrooms) {
		score += 5
	}

	return FactorScore{
		Factor:    FactorFeatures,
		Score:     clamp(score, ScoreMin, ScoreMax),
		Rationale: rationale,
	}, true
}

func analyzeInfrastructure(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if len(p.Schools) == 0 {
		return FactorScore{}, false
	}

	nearest := p.Schools[0].Distance
	for _, s := range p.Schools[1:] {
		if s.Distance < nearest {
			nearest = s.Distance
		}
	}

	score := 60.0
	rationale := fmt.Sprintf("%d schools nearby, closest %.1f miles.", len(p.Schools), nearest)

	switch {
	case nearest <= 0.5:
		score = 80
		rationale += " Walkable access to schools and services."
	case nearest <= 2:
		score = 70
	default:
		score = 55
		rationale += " Services require a drive."
	}

	return FactorScore{Factor: FactorInfrastructure, Score: score, Rationale: rationale}, true
}

func analyzeEnvironmental(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.FloodZone == "" {
		return FactorScore{}, false
	}

	score := 70.0
	rationale := fmt.Sprintf("FEMA flood zone %s.", p.FloodZone)

	switch p.FloodZone {
	case "X", "C", "B":
		score = 85
		rationale += " Minimal flood risk."
	case "A", "AE", "AH", "AO", "V", "VE":
		score = 40
		rationale += " Elevated flood risk; insurance likely required."
	}

	return FactorScore{Factor: FactorEnvironmental, Score: score, Rationale: rationale}, true
}

func analyzeLegal(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	score := 80.0
	rationale := "No HOA fee reported; minimal encumbrances assumed."

	if p.HOAFee > 0 {
		rationale = fmt.Sprintf("HOA fee $%.0f/month; covenants and restrictions apply.", p.HOAFee)
		switch {
		case p.HOAFee <= 100:
			score = 70
		case p.HOAFee <= 400:
			score = 60
		default:
			score = 45
		}
	}

	return FactorScore{Factor: FactorLegal, Score: score, Rationale: rationale}, true
}

func analyzeInvestment(p *zillow.Property, _ *zillow.Comparables) (FactorScore, bool) {
	if p.Price <= 0 || p.RentZestimate <= 0 {
		return FactorScore{}, false
	}

	// Gross annual rental yield.
	yield := p.RentZestimate * 12 / p.Price * 100
	score := 60.0
	rationale := fmt.Sprintf("Estimated gross rental yield %.1f%%.", yield)

	switch {
	case yield >= 8:
		score = 85
		rationale += " Strong income potential."
	case yield >= 5:
		score = 70
		rationale += " Reasonable income potential."
	default:
		score = 50
		rationale += " Limited income potential at the current price."
	}

	return FactorScore{Factor: FactorInvestment, Score: score, Rationale: rationale}, true
}

func orUnknown(s string) string {
	if s == "" {
		return "Property"
	}
	return s
}
