package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Default endpoint and file locations. All of them can be overridden
// through the environment, which the tests rely on.
const (
	DefaultRedirectURI = "http://127.0.0.1:8591/callback"
	DefaultOutputFile  = "aweber_dump.md"
	DefaultTokenFile   = "aweber_token.json"
	DefaultAuthURL     = "https://auth.aweber.com/oauth2/authorize"
	DefaultTokenURL    = "https://auth.aweber.com/oauth2/token"
	DefaultAPIBase     = "https://api.aweber.com/1.0"
)

// Scopes are the read-only permissions requested during authorization.
var Scopes = []string{
	"account.read",
	"list.read",
	"email.read",
}

// Config holds everything the exporter reads from the environment.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	OutputFile   string
	TokenFile    string
	AuthURL      string
	TokenURL     string
	APIBase      string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; a missing file is not an
// error. Client ID and secret are required and must not be the placeholder
// values shipped in .env.example.
func Load() (*Config, error) {
	// Ignore the error: .env is optional, real deployments use the environment.
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:     os.Getenv("AWEBER_CLIENT_ID"),
		ClientSecret: os.Getenv("AWEBER_CLIENT_SECRET"),
		RedirectURI:  getenvDefault("AWEBER_REDIRECT_URI", DefaultRedirectURI),
		OutputFile:   getenvDefault("OUTPUT_FILE", DefaultOutputFile),
		TokenFile:    getenvDefault("AWEBER_TOKEN_FILE", DefaultTokenFile),
		AuthURL:      getenvDefault("AUTHORIZATION_BASE_URL", DefaultAuthURL),
		TokenURL:     getenvDefault("TOKEN_URL", DefaultTokenURL),
		APIBase:      getenvDefault("API_BASE", DefaultAPIBase),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if !credentialSet(c.ClientID) {
		missing = append(missing, "AWEBER_CLIENT_ID")
	}
	if !credentialSet(c.ClientSecret) {
		missing = append(missing, "AWEBER_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing or placeholder configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// credentialSet reports whether a credential value was actually filled in.
// The .env.example template ships "place_your_..." values that must not be
// mistaken for real credentials.
func credentialSet(v string) bool {
	return v != "" && !strings.Contains(v, "place_your")
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
