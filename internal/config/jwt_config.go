package config

import "os"

// JwtConfig guards POST /api/algorithms when Secret is set.
type JwtConfig struct {
	Secret string
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret: os.Getenv("JWT_SECRET"),
	}
}
