// internal/workers/content/rank-content/config.go
package rankcontent

import "time"

type Config struct {
	Timeout        time.Duration
	MaxConcurrency int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        60 * time.Second,
		MaxConcurrency: 4,
	}
}
