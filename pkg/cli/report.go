package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	urfave "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/reval/pkg/config"
	"github.com/mchmarny/reval/pkg/data"
	"github.com/mchmarny/reval/pkg/report"
	"github.com/mchmarny/reval/pkg/scoring"
	"github.com/mchmarny/reval/pkg/zillow"
)

var (
	addressFlag = &urfave.StringFlag{
		Name:     "address",
		Aliases:  []string{"a"},
		Usage:    "Street address of the property (required)",
		Required: true,
	}

	cityFlag = &urfave.StringFlag{
		Name:     "city",
		Aliases:  []string{"c"},
		Usage:    "City of the property (required)",
		Required: true,
	}

	stateFlag = &urfave.StringFlag{
		Name:     "state",
		Aliases:  []string{"s"},
		Usage:    "Two-letter state code (required)",
		Required: true,
	}

	outDirFlag = &urfave.StringFlag{
		Name:  "out",
		Usage: "Directory for generated PDF reports (optional, default: <home>/reports)",
	}

	noPDFFlag = &urfave.BoolFlag{
		Name:  "no-pdf",
		Usage: "Skip PDF generation, print the valuation only",
	}

	apiHostFlag = &urfave.StringFlag{
		Name:  "host",
		Usage: "Listing API host (optional)",
		Value: zillow.HostDefault,
	}

	reportCmd = &urfave.Command{
		Name:            "report",
		HideHelpCommand: true,
		Usage:           "Fetch listing data, score the property, and generate a report",
		Action:          cmdRunReport,
		Flags: []urfave.Flag{
			addressFlag,
			cityFlag,
			stateFlag,
			outDirFlag,
			noPDFFlag,
			apiHostFlag,
		},
	}
)

// reportResult is the CLI output of a report run.
type reportResult struct {
	Property  *data.Property  `json:"property" yaml:"property"`
	Valuation *data.Valuation `json:"valuation" yaml:"valuation"`
	ReportPDF string          `json:"report_pdf,omitempty" yaml:"reportPDF,omitempty"`
	Duration  string          `json:"duration" yaml:"duration"`
}

func cmdRunReport(c *urfave.Context) error {
	start := time.Now()
	cfg := getConfig(c)

	client, err := newListingClient(c)
	if err != nil {
		return err
	}

	address := c.String(addressFlag.Name)
	city := c.String(cityFlag.Name)
	state := c.String(stateFlag.Name)

	slog.Info("searching listings", "address", address, "city", city, "state", state)
	sr, err := client.SearchProperties(c.Context, address, city, state)
	if err != nil {
		return fmt.Errorf("searching listings: %w", err)
	}
	if len(sr.Results) == 0 {
		return fmt.Errorf("no listing found for: %s, %s, %s", address, city, state)
	}

	zpid := sr.Results[0].ZPID
	slog.Debug("found listing", "zpid", zpid)

	var (
		prop  *zillow.Property
		comps *zillow.Comparables
	)

	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() error {
		var err error
		prop, err = client.GetProperty(ctx, zpid)
		return err
	})
	g.Go(func() error {
		var err error
		comps, err = client.GetComparableSales(ctx, zpid)
		if err != nil {
			// Comparables are optional input, the valuation degrades
			// gracefully without them.
			slog.Warn("comparable sales unavailable", "zpid", zpid, "error", err)
			comps = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetching listing details: %w", err)
	}

	weights, err := config.ReadOrCreateWeights(cfg.HomeDir)
	if err != nil {
		return fmt.Errorf("loading weights: %w", err)
	}

	scores := scoring.AnalyzeProperty(prop, comps)
	if len(scores) == 0 {
		return fmt.Errorf("listing data for %s is too sparse to score", zpid)
	}

	val, err := scoring.ComputeValuation(scores, weights)
	if err != nil {
		return fmt.Errorf("computing valuation: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	p := &data.Property{
		ZPID:          prop.ZPID,
		Address:       prop.Address,
		City:          prop.City,
		State:         prop.State,
		Zip:           prop.ZipCode,
		PropertyType:  prop.PropertyType,
		Price:         prop.Price,
		Zestimate:     prop.Zestimate,
		RentZestimate: prop.RentZestimate,
		Bedrooms:      prop.Bedrooms,
		Bathrooms:     prop.Bathrooms,
		LivingArea:    prop.LivingArea,
		LotArea:       prop.LotAreaValue,
		YearBuilt:     prop.YearBuilt,
		PhotoURL:      prop.PhotoURL,
		FetchedAt:     now,
	}
	if p.Address == "" {
		p.Address = address
	}

	v := &data.Valuation{
		ZPID:       p.ZPID,
		Composite:  val.Composite,
		Confidence: val.Confidence,
		Created:    now,
	}
	for _, fs := range val.Factors {
		v.Factors = append(v.Factors, &data.ValuationFactor{
			Factor:    fs.Factor.String(),
			Score:     fs.Score,
			Weight:    weights[fs.Factor],
			Rationale: fs.Rationale,
		})
	}

	if err := data.SaveProperty(cfg.DB, p); err != nil {
		return fmt.Errorf("saving property: %w", err)
	}
	if err := data.SaveValuation(cfg.DB, v); err != nil {
		return fmt.Errorf("saving valuation: %w", err)
	}

	result := &reportResult{
		Property:  p,
		Valuation: v,
	}

	if !c.Bool(noPDFFlag.Name) {
		outDir := c.String(outDirFlag.Name)
		if outDir == "" {
			outDir = path.Join(cfg.HomeDir, "reports")
		}

		gen, err := report.NewGenerator(outDir)
		if err != nil {
			return fmt.Errorf("creating report generator: %w", err)
		}

		pdfPath, err := gen.Generate(p, v)
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}
		result.ReportPDF = pdfPath
		slog.Info("report generated", "path", pdfPath)
	}

	result.Duration = time.Since(start).String()

	if err := getEncoder().Encode(result); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func newListingClient(c *urfave.Context) (*zillow.Client, error) {
	opts := []zillow.Option{
		zillow.WithHost(c.String(apiHostFlag.Name)),
	}

	if token := os.Getenv(bridgeTokenEnvVar); token != "" {
		opts = append(opts, zillow.WithBearerToken(c.Context, token))
		client, err := zillow.NewClient("", opts...)
		if err != nil {
			return nil, fmt.Errorf("creating listing client: %w", err)
		}
		return client, nil
	}

	key, err := getAPIKey()
	if err != nil {
		return nil, fmt.Errorf("no API key found, run 'reval auth' first: %w", err)
	}

	client, err := zillow.NewClient(key, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating listing client: %w", err)
	}
	return client, nil
}
