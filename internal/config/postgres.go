package config

import "os"

// PostgresConfig is optional: an empty Url keeps execution history in memory.
type PostgresConfig struct {
	Url string
}

func NewPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Url: os.Getenv("DATABASE_URL"),
	}
}

func (c *PostgresConfig) Enabled() bool {
	return c.Url != ""
}
