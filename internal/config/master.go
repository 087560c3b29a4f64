package config

import "os"

type AppConfig struct {
	DebugMode       bool
	LogLevel        string
	ServerConfig    *ServerConfig
	TelemetryConfig *TelemetryConfig
	ConsoleConfig   *ConsoleConfig
	ExecutionConfig *ExecutionConfig
	RedisConfig     *RedisConfig
	PostgresConfig  *PostgresConfig
	JwtConfig       *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:       os.Getenv("DEBUG_MODE") == "true",
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ServerConfig:    NewServerConfig(),
		TelemetryConfig: NewTelemetryConfig(),
		ConsoleConfig:   NewConsoleConfig(),
		ExecutionConfig: NewExecutionConfig(),
		RedisConfig:     NewRedisConfig(),
		PostgresConfig:  NewPostgresConfig(),
		JwtConfig:       NewJwtConfig(),
	}
}
