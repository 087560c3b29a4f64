package config

import "time"

type ServerConfig struct {
	Port            int
	ServiceName     string
	WriteTimeout    time.Duration
	MaxRequestBytes int64
	AllowOrigin     string
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getIntEnv("HTTP_PORT", 7032),
		ServiceName:     getEnv("SERVICE_NAME", "sysalgs"),
		WriteTimeout:    time.Duration(getIntEnv("WS_WRITE_TIMEOUT_SEC", 10)) * time.Second,
		MaxRequestBytes: int64(getIntEnv("MAX_REQUEST_BYTES", 1<<20)),
		AllowOrigin:     getEnv("CORS_ALLOW_ORIGIN", "*"),
	}
}
