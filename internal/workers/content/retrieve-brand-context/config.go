// internal/workers/content/retrieve-brand-context/config.go
package retrievebrandcontext

import "time"

type Config struct {
	Timeout     time.Duration
	DefaultTopK int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		DefaultTopK: 5,
	}
}
