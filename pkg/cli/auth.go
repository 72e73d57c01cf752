package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	urfave "github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"
)

const (
	apiKeyEnvVar      = "REVAL_API_KEY"
	bridgeTokenEnvVar = "REVAL_BRIDGE_TOKEN"

	keyFileName    = "api_key"
	keyringService = "reval"
	keyringUser    = "rapidapi_key"
)

var (
	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Store the listing API key in the OS keychain",
		Action:          cmdInitAuthFlow,
	}
)

func cmdInitAuthFlow(c *urfave.Context) error {
	fmt.Print("Paste your RapidAPI key and hit enter:\n> ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading user input: %w", err)
	}

	key := strings.TrimSpace(line)
	if key == "" {
		return fmt.Errorf("no key provided")
	}

	if err := saveAPIKey(key); err != nil {
		return fmt.Errorf("saving key: %w", err)
	}

	fmt.Println("Key saved to OS keychain")
	return nil
}

func saveAPIKey(key string) error {
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveAPIKeyFile(key)
	}

	// Clean up the file fallback if it exists
	legacyPath := path.Join(getHomeDir(), keyFileName)
	os.Remove(legacyPath)

	return nil
}

// getAPIKey resolves the listing API key: env var first, then the OS
// keychain, then the file fallback.
func getAPIKey() (string, error) {
	if key := os.Getenv(apiKeyEnvVar); key != "" {
		return key, nil
	}

	key, err := keyring.Get(keyringService, keyringUser)
	if err == nil && key != "" {
		return key, nil
	}

	key, err = getAPIKeyFile()
	if err != nil {
		return "", err
	}

	// Migrate to keychain
	if migrateErr := keyring.Set(keyringService, keyringUser, key); migrateErr == nil {
		slog.Info("migrated key from file to OS keychain")
		legacyPath := path.Join(getHomeDir(), keyFileName)
		os.Remove(legacyPath)
	}

	return key, nil
}

func saveAPIKeyFile(key string) error {
	keyPath := path.Join(getHomeDir(), keyFileName)
	return os.WriteFile(keyPath, []byte(key), 0600)
}

func getAPIKeyFile() (string, error) {
	keyPath := path.Join(getHomeDir(), keyFileName)
	b, err := os.ReadFile(keyPath)
	if err != nil {
		return "", fmt.Errorf("reading key file %s: %w", keyPath, err)
	}
	return strings.TrimSpace(string(b)), nil
}
