package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults for optional settings.
const (
	DefaultModel  = "meta-llama/llama-3.1-70b-instruct"
	DefaultOutDir = "out"
)

// Sender describes the identity rendered into the signature block of every
// generated draft.
type Sender struct {
	Name    string
	Title   string
	Company string
	Phone   string
	Email   string
}

// Config is the immutable application configuration, built once at startup
// and passed by reference into each component. Components never read the
// process environment directly.
type Config struct {
	// OpenRouter generation service
	OpenRouterAPIKey string
	OpenRouterModel  string

	// Sender identity for the signature block
	Sender Sender

	// OutDir is where preview and .eml artifacts are written
	OutDir string

	// CredentialsFile is the Google installed-app client secrets document
	CredentialsFile string

	// TokenFile is where the persisted OAuth grant is stored
	TokenFile string

	// ConsoleAuth selects the console code-entry OAuth flow instead of the
	// loopback-redirect flow (for hosts without a browser)
	ConsoleAuth bool
}

// Load builds the configuration from a .env file (if present) and the
// process environment. Missing optional values fall back to defaults;
// required values are validated lazily by the components that need them.
func Load() (*Config, error) {
	// A missing .env is fine; explicit environment wins either way.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("OPENROUTER_MODEL", DefaultModel)
	v.SetDefault("SENDER_NAME", "Your Name")
	v.SetDefault("SENDER_TITLE", "Your Title")
	v.SetDefault("COMPANY_NAME", "Your Company")
	v.SetDefault("OUT_DIR", DefaultOutDir)
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")

	tokenFile := v.GetString("GOOGLE_TOKEN_FILE")
	if tokenFile == "" {
		dir, err := userCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine cache directory: %w", err)
		}
		tokenFile = filepath.Join(dir, "mailsmith", "token.json")
	}

	cfg := &Config{
		OpenRouterAPIKey: v.GetString("OPENROUTER_API_KEY"),
		OpenRouterModel:  v.GetString("OPENROUTER_MODEL"),
		Sender: Sender{
			Name:    v.GetString("SENDER_NAME"),
			Title:   v.GetString("SENDER_TITLE"),
			Company: v.GetString("COMPANY_NAME"),
			Phone:   v.GetString("SENDER_PHONE"),
			Email:   v.GetString("SENDER_EMAIL"),
		},
		OutDir:          v.GetString("OUT_DIR"),
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		TokenFile:       tokenFile,
		ConsoleAuth:     v.GetString("OAUTH_NO_BROWSER") == "1" || v.GetBool("OAUTH_NO_BROWSER"),
	}

	return cfg, nil
}

func userCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg, nil
	}
	return os.UserCacheDir()
}
