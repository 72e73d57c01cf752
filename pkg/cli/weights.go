package cli

import (
	"fmt"
	"path/filepath"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/reval/pkg/config"
	"github.com/mchmarny/reval/pkg/scoring"
)

var (
	resetWeightsFlag = &urfave.BoolFlag{
		Name:  "reset",
		Usage: "Overwrite the weights file with the canonical defaults",
	}

	weightsCmd = &urfave.Command{
		Name:            "weights",
		HideHelpCommand: true,
		Usage:           "Show or reset the factor weight configuration",
		Action:          cmdShowWeights,
		Flags: []urfave.Flag{
			resetWeightsFlag,
		},
	}
)

// weightsResult lists factor weights in canonical order so that repeated
// runs produce identical output.
type weightsResult struct {
	File    string        `json:"file" yaml:"file"`
	Weights []weightEntry `json:"weights" yaml:"weights"`
	Sum     float64       `json:"sum" yaml:"sum"`
}

type weightEntry struct {
	Factor string  `json:"factor" yaml:"factor"`
	Weight float64 `json:"weight" yaml:"weight"`
}

func cmdShowWeights(c *urfave.Context) error {
	cfg := getConfig(c)

	if c.Bool(resetWeightsFlag.Name) {
		if err := config.SaveWeights(cfg.HomeDir, scoring.DefaultWeights()); err != nil {
			return fmt.Errorf("resetting weights: %w", err)
		}
	}

	w, err := config.ReadOrCreateWeights(cfg.HomeDir)
	if err != nil {
		return fmt.Errorf("loading weights: %w", err)
	}

	result := &weightsResult{
		File: filepath.Join(cfg.HomeDir, config.WeightsFileName),
		Sum:  w.Sum(),
	}
	for _, f := range scoring.Factors {
		if weight, ok := w[f]; ok {
			result.Weights = append(result.Weights, weightEntry{
				Factor: f.String(),
				Weight: weight,
			})
		}
	}

	return getEncoder().Encode(result)
}
