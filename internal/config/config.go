package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPostbinURL  = "https://www.postb.in/api/bin"
	DefaultHTTPTimeout = 30 * time.Second

	// RossumDomain hosts every organization under its own subdomain
	RossumDomain = "rossum.app"
)

// characters removed from the Rossum username when deriving the subdomain
const urlUnsafeChars = "!#$%&'*+/=?^`{|}~()<>[]:;.@,\"\\"

// Credentials is a username/password pair
type Credentials struct {
	Username string
	Password string
}

// Config is the process-wide configuration, built once at startup
type Config struct {
	// App guards the HTTP surface with basic auth
	App Credentials
	// Rossum logs in to the document-processing API
	Rossum Credentials

	RossumBaseURL string
	PostbinURL    string

	// HTTPTimeout bounds every single upstream call
	HTTPTimeout time.Duration
}

// LoadDotEnv reads a .env file into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load builds the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: Credentials{
			Username: os.Getenv("USERNAME"),
			Password: os.Getenv("PASSWORD"),
		},
		Rossum: Credentials{
			Username: os.Getenv("ROSSUM_USERNAME"),
			Password: os.Getenv("ROSSUM_PASSWORD"),
		},
		PostbinURL:  envOr("POSTBIN_URL", DefaultPostbinURL),
		HTTPTimeout: DefaultHTTPTimeout,
	}

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.RossumBaseURL = envOr("ROSSUM_BASE_URL", RossumBaseURL(cfg.Rossum.Username))
	return cfg, nil
}

// Validate checks that both credential pairs are present
func (c *Config) Validate() error {
	if c.App.Username == "" || c.App.Password == "" {
		return errors.New("config: environment variables 'USERNAME' and 'PASSWORD' must be set")
	}
	if c.Rossum.Username == "" || c.Rossum.Password == "" {
		return errors.New("config: environment variables 'ROSSUM_USERNAME' and 'ROSSUM_PASSWORD' must be set")
	}
	if c.HTTPTimeout < 0 {
		return errors.New("config: HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// RossumBaseURL derives the organization API root from the login name
func RossumBaseURL(username string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(urlUnsafeChars, r) {
			return -1
		}
		return r
	}, username)
	return fmt.Sprintf("https://%s.%s/api/v1/", cleaned, RossumDomain)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
