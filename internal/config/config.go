package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"admindash/auth"
)

// Config is the application configuration, loaded from an optional YAML
// file with environment variable overrides on top.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Content  ContentConfig  `yaml:"content"`
	Seed     SeedConfig     `yaml:"seed"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	SigningKey             string   `yaml:"signing_key"`
	TokenExpirationMinutes int      `yaml:"token_expiration_minutes"`
	ContextKey             string   `yaml:"context_key"`
	TokenLookup            string   `yaml:"token_lookup"`
	AuthScheme             string   `yaml:"auth_scheme"`
	Issuer                 string   `yaml:"issuer"`
	Audience               []string `yaml:"audience"`
	BcryptCost             int      `yaml:"bcrypt_cost"`
}

type ContentConfig struct {
	Enabled      bool   `yaml:"enabled"`
	FixturesPath string `yaml:"fixtures_path"`
}

type SeedConfig struct {
	UsersPath string `yaml:"users_path"`
}

var _ auth.Config = (*Config)(nil)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Load reads the configuration file at path, if any, then applies
// environment overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getenv("ADMINDASH_HTTP_ADDR", c.Server.Addr)
	if v := os.Getenv("ADMINDASH_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	c.Database.DSN = getenv("ADMINDASH_DB_DSN", c.Database.DSN)
	c.Auth.SigningKey = getenv("ADMINDASH_JWT_SECRET", c.Auth.SigningKey)
	c.Auth.TokenExpirationMinutes = getenvInt("ADMINDASH_TOKEN_TTL_MINUTES", c.Auth.TokenExpirationMinutes)
	c.Auth.BcryptCost = getenvInt("ADMINDASH_BCRYPT_COST", c.Auth.BcryptCost)
	c.Content.Enabled = getenvBool("ADMINDASH_CONTENT_ENABLED", c.Content.Enabled)
	c.Content.FixturesPath = getenv("ADMINDASH_CONTENT_FIXTURES", c.Content.FixturesPath)
	c.Seed.UsersPath = getenv("ADMINDASH_SEED_USERS", c.Seed.UsersPath)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "file:admindash.db?cache=shared&_pragma=foreign_keys(1)"
	}
	if c.Auth.SigningKey == "" {
		c.Auth.SigningKey = "dev-secret-change-me"
	}
	if c.Auth.TokenExpirationMinutes == 0 {
		c.Auth.TokenExpirationMinutes = 30
	}
	if c.Auth.ContextKey == "" {
		c.Auth.ContextKey = "user"
	}
	if c.Auth.TokenLookup == "" {
		c.Auth.TokenLookup = "header:Authorization"
	}
	if c.Auth.AuthScheme == "" {
		c.Auth.AuthScheme = "Bearer"
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = auth.DefaultBcryptCost
	}
}

func (c *Config) GetSigningKey() string    { return c.Auth.SigningKey }
func (c *Config) GetSigningMethod() string { return "HS256" }
func (c *Config) GetContextKey() string    { return c.Auth.ContextKey }
func (c *Config) GetTokenExpiration() int  { return c.Auth.TokenExpirationMinutes }
func (c *Config) GetTokenLookup() string   { return c.Auth.TokenLookup }
func (c *Config) GetAuthScheme() string    { return c.Auth.AuthScheme }
func (c *Config) GetIssuer() string        { return c.Auth.Issuer }
func (c *Config) GetAudience() []string    { return c.Auth.Audience }
func (c *Config) GetBcryptCost() int       { return c.Auth.BcryptCost }

// CORSAllowOrigins joins the configured origins into the comma separated
// form the cors middleware expects. Empty means allow any origin.
func (c *Config) CORSAllowOrigins() string {
	return strings.Join(c.Server.CORSOrigins, ",")
}
