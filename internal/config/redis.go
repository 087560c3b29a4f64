package config

import "os"

// RedisConfig is optional: an empty Url keeps console backlogs in memory.
type RedisConfig struct {
	DB       int
	Url      string
	Password string
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:       getIntEnv("REDIS_DB", 0),
		Url:      os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

func (c *RedisConfig) Enabled() bool {
	return c.Url != ""
}
