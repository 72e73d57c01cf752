package zillow

// SearchResult is the payload returned by the extended property search.
type SearchResult struct {
	Results []PropertySummary `json:"results"`
}

// PropertySummary is a single search hit. Only the fields the valuation
// pipeline needs are mapped; the API returns many more.
type PropertySummary struct {
	ZPID    string `json:"zpid"`
	Address string `json:"address"`
}

// Property is the detailed listing record for a single property.
type Property struct {
	ZPID          string   `json:"zpid"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zipcode"`
	PropertyType  string   `json:"propertyType"`
	Price         float64  `json:"price"`
	Zestimate     float64  `json:"zestimate"`
	RentZestimate float64  `json:"rentZestimate"`
	AnnualTax     float64  `json:"taxAnnualAmount"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	LivingArea    float64  `json:"livingArea"`
	LotAreaValue  float64  `json:"lotAreaValue"`
	YearBuilt     int      `json:"yearBuilt"`
	DaysOnMarket  int      `json:"daysOnZillow"`
	FloodZone     string   `json:"floodZone"`
	HOAFee        float64  `json:"monthlyHoaFee"`
	PhotoURL      string   `json:"imgSrc"`
	Schools       []School `json:"schools"`
}

// School is a nearby school with its assigned rating (1-10).
type School struct {
	Name     string  `json:"name"`
	Rating   int     `json:"rating"`
	Distance float64 `json:"distance"`
}

// Comparables is the payload returned by the similar sales endpoint.
type Comparables struct {
	Results []Comparable `json:"results"`
}

// Comparable is a recently sold property similar to the subject.
type Comparable struct {
	ZPID       string  `json:"zpid"`
	Address    string  `json:"address"`
	Price      float64 `json:"price"`
	LivingArea float64 `json:"livingArea"`
}
