package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/reval/pkg/scoring"
)

const (
	// WeightsFileName is the weight configuration file inside the app home dir.
	WeightsFileName = "weights.yaml"

	fileMode = 0600
)

// SaveWeights writes the weight configuration to dirPath.
func SaveWeights(dirPath string, w scoring.Weights) error {
	if dirPath == "" {
		return fmt.Errorf("config directory required")
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid weights: %w", err)
	}

	b, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	path := filepath.Join(dirPath, WeightsFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write weights file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreateWeights reads the weight configuration from dirPath, writing
// the canonical defaults there first if no file exists yet. The returned
// configuration is always validated.
func ReadOrCreateWeights(dirPath string) (scoring.Weights, error) {
	if dirPath == "" {
		return nil, fmt.Errorf("config directory required")
	}

	path := filepath.Join(dirPath, WeightsFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveWeights(dirPath, scoring.DefaultWeights()); err != nil {
			return nil, fmt.Errorf("failed to create default weights: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading weights file %s: %w", path, err)
	}

	var w scoring.Weights
	if err := yaml.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("error unmarshalling weights file %s: %w", path, err)
	}

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights file %s: %w", path, err)
	}

	return w, nil
}
