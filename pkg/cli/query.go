package cli

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/reval/pkg/data"
)

var (
	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of records to return",
		Value: 50,
	}

	queryFlag = &urfave.StringFlag{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Fuzzy match on address, city, or zip",
	}

	zpidFlag = &urfave.StringFlag{
		Name:  "zpid",
		Usage: "Property ID (required)",
	}

	valuationIDFlag = &urfave.Int64Flag{
		Name:  "id",
		Usage: "Valuation ID",
	}

	queryCmd = &urfave.Command{
		Name:            "query",
		HideHelpCommand: true,
		Usage:           "Query cached properties and their valuations",
		Subcommands: []*urfave.Command{
			{
				Name:    "properties",
				Aliases: []string{"p"},
				Usage:   "List cached properties",
				Action:  cmdQueryProperties,
				Flags: []urfave.Flag{
					queryFlag,
					limitFlag,
				},
			},
			{
				Name:   "property",
				Usage:  "Show one cached property",
				Action: cmdQueryProperty,
				Flags: []urfave.Flag{
					zpidFlag,
				},
			},
			{
				Name:    "valuations",
				Aliases: []string{"v"},
				Usage:   "List recent valuations",
				Action:  cmdQueryValuations,
				Flags: []urfave.Flag{
					limitFlag,
				},
			},
			{
				Name:   "valuation",
				Usage:  "Show one valuation with its factor breakdown",
				Action: cmdQueryValuation,
				Flags: []urfave.Flag{
					valuationIDFlag,
					zpidFlag,
				},
			},
		},
	}
)

func cmdQueryProperties(c *urfave.Context) error {
	cfg := getConfig(c)

	list, err := data.QueryProperties(cfg.DB, c.String(queryFlag.Name), c.Int(limitFlag.Name))
	if err != nil {
		return fmt.Errorf("querying properties: %w", err)
	}

	return getEncoder().Encode(list)
}

func cmdQueryProperty(c *urfave.Context) error {
	cfg := getConfig(c)

	zpid := c.String(zpidFlag.Name)
	if zpid == "" {
		return fmt.Errorf("--zpid is required")
	}

	p, err := data.GetProperty(cfg.DB, zpid)
	if err != nil {
		return fmt.Errorf("getting property: %w", err)
	}
	if p == nil {
		return fmt.Errorf("property not found: %s", zpid)
	}

	return getEncoder().Encode(p)
}

func cmdQueryValuations(c *urfave.Context) error {
	cfg := getConfig(c)

	list, err := data.ListValuations(cfg.DB, c.Int(limitFlag.Name))
	if err != nil {
		return fmt.Errorf("listing valuations: %w", err)
	}

	return getEncoder().Encode(list)
}

func cmdQueryValuation(c *urfave.Context) error {
	cfg := getConfig(c)

	var (
		v   *data.Valuation
		err error
	)

	switch {
	case c.Int64(valuationIDFlag.Name) > 0:
		v, err = data.GetValuation(cfg.DB, c.Int64(valuationIDFlag.Name))
	case c.String(zpidFlag.Name) != "":
		v, err = data.GetLatestValuation(cfg.DB, c.String(zpidFlag.Name))
	default:
		return fmt.Errorf("either --id or --zpid is required")
	}

	if err != nil {
		return fmt.Errorf("getting valuation: %w", err)
	}
	if v == nil {
		return fmt.Errorf("valuation not found")
	}

	return getEncoder().Encode(v)
}
