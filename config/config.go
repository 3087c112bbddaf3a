// Package config loads the league service configuration from environment variables, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/justinjudd/league/models"
)

// Config is everything the commands need to open the store and serve the league
type Config struct {
	// Storage
	DBPath    string
	DBCodec   string
	DBTimeout time.Duration

	// HTTP
	HTTPAddr          string
	AdminPasswordHash string
	CORSAllowOrigins  []string

	// League
	Rules models.Rules
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	defaults := models.DefaultRules()
	p := &envParser{}

	cfg := &Config{
		DBPath:    envOr("LEAGUE_DB_PATH", "league.db"),
		DBCodec:   envOr("LEAGUE_DB_CODEC", "json"),
		DBTimeout: time.Duration(p.intOr("LEAGUE_DB_TIMEOUT_SECONDS", 1)) * time.Second,

		HTTPAddr:          envOr("LEAGUE_HTTP_ADDR", ":8080"),
		AdminPasswordHash: envOr("LEAGUE_ADMIN_PASSWORD_HASH", ""),
		CORSAllowOrigins:  envList("LEAGUE_CORS_ORIGINS", []string{"http://localhost:3000"}),

		Rules: models.Rules{
			Points: models.PointsRule{
				Win:  p.intOr("LEAGUE_POINTS_WIN", defaults.Points.Win),
				Draw: p.intOr("LEAGUE_POINTS_DRAW", defaults.Points.Draw),
				Loss: p.intOr("LEAGUE_POINTS_LOSS", defaults.Points.Loss),
			},
			LeagueSize:       p.intOr("LEAGUE_SIZE", defaults.LeagueSize),
			Qualifiers:       p.intOr("LEAGUE_QUALIFIERS", defaults.Qualifiers),
			FirstDay:         p.intOr("LEAGUE_FIRST_DAY", defaults.FirstDay),
			LastDay:          p.intOr("LEAGUE_LAST_DAY", defaults.LastDay),
			FormWindow:       defaults.FormWindow,
			PlayoffThreshold: p.floatOr("LEAGUE_PLAYOFF_THRESHOLD", defaults.PlayoffThreshold),
			Collation:        envOr("LEAGUE_COLLATION", defaults.Collation),
			Kickoff:          envOr("LEAGUE_KICKOFF", defaults.Kickoff),
		},
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid league configuration: %w", err)
	}
	if cfg.DBTimeout <= 0 {
		return nil, fmt.Errorf("LEAGUE_DB_TIMEOUT_SECONDS must be positive")
	}
	return cfg, nil
}

// AdminEnabled reports whether admin routes can be unlocked
func (c *Config) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envParser reads numeric variables and remembers every one that does not parse
type envParser struct {
	err error
}

func (p *envParser) intOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.err = errors.Join(p.err, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func (p *envParser) floatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.err = errors.Join(p.err, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return f
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
