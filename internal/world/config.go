package world

import "strings"

const (
	// DefaultSize is the square world side length; bounds are [-size/2, size/2].
	DefaultSize = 4000.0
	// DefaultCoinCount is kept constant for the lifetime of a match.
	DefaultCoinCount = 100
	// DefaultBaseSpeed is the shared movement speed in world units per second.
	DefaultBaseSpeed = 150.0
	// DefaultEntitySize doubles as the pickup radius.
	DefaultEntitySize = 20.0

	DefaultSeed = "arena"
)

// Config captures the knobs used when constructing a world.
type Config struct {
	Size      float64 `json:"size"`
	CoinCount int     `json:"coinCount"`
	BaseSpeed float64 `json:"baseSpeed"`
	Seed      string  `json:"seed"`
}

// normalized returns a config with defaults applied.
func (cfg Config) normalized() Config {
	normalized := cfg
	if normalized.Size <= 0 {
		normalized.Size = DefaultSize
	}
	if normalized.CoinCount <= 0 {
		normalized.CoinCount = DefaultCoinCount
	}
	if normalized.BaseSpeed <= 0 {
		normalized.BaseSpeed = DefaultBaseSpeed
	}
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	return normalized
}

// DefaultConfig returns the stock arena configuration.
func DefaultConfig() Config {
	return Config{}.normalized()
}
