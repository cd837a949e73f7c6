package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr              string        `yaml:"addr"`
	DatabasePath      string        `yaml:"database_path"`
	WebhookSecret     string        `yaml:"webhook_secret"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	APITimeout        time.Duration `yaml:"timeout"`
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenDuration     time.Duration `yaml:"token_duration"`
	AdminEmail        string        `yaml:"admin_email"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	Clerk             ClerkConfig   `yaml:"clerk"`
}

// ClerkConfig drives the identity-provider API client used for name
// lookups. Lookup failures never propagate to callers, so the retry
// and circuit settings only bound how long a degraded provider is
// allowed to slow us down.
type ClerkConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	SecretKey               string        `yaml:"secret_key"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

const insecureJWTDefault = "supersecretkey"

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:              getEnv("LC_ADDR", ":8080"),
		DatabasePath:      getEnv("DATABASE_URL", "lostconnect.db"),
		WebhookSecret:     os.Getenv("CLERK_WEBHOOK_SECRET"),
		CORSOrigins:       splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		APITimeout:        15 * time.Second,
		JWTSecret:         getEnv("LC_JWT_SECRET", insecureJWTDefault),
		TokenDuration:     1 * time.Hour,
		AdminEmail:        os.Getenv("LC_ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("LC_ADMIN_PASSWORD_HASH"),
		Clerk: ClerkConfig{
			BaseURL:                 getEnv("CLERK_API_URL", "https://api.clerk.com/v1"),
			SecretKey:               os.Getenv("CLERK_SECRET_KEY"),
			Timeout:                 5 * time.Second,
			Retries:                 2,
			Backoff:                 250 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that cannot serve. A missing webhook
// secret is deliberately not an error: webhook processing degrades to
// a logged no-op instead of failing startup.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.Clerk.BaseURL == "" {
		return fmt.Errorf("clerk base_url must not be empty")
	}
	if c.Clerk.Timeout <= 0 {
		return fmt.Errorf("clerk timeout must be positive")
	}
	if c.JWTSecret == insecureJWTDefault && os.Getenv("LC_ENV") != "development" {
		return fmt.Errorf("jwt_secret must be changed from the insecure default outside development")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
