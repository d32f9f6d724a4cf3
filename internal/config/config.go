package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Version     string `envconfig:"VERSION" default:"dev"`
	BcryptCost  int    `envconfig:"BCRYPT_COST" default:"12"`

	// SweepInterval is how often the expiration sweeper scans for due points.
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
	// SweepBatchSize caps how many expirable transactions a single pass loads at once.
	SweepBatchSize int `envconfig:"SWEEP_BATCH_SIZE" default:"500"`

	// PointRate is the number of points earned per unit of currency spent on a stay.
	PointRate float64 `envconfig:"POINT_RATE" default:"10"`
	// PointsTTLDays is how long earned stay points remain redeemable. Zero disables expiry.
	PointsTTLDays int `envconfig:"POINTS_TTL_DAYS" default:"730"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
