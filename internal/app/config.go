package app

import (
	"time"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	TokenTTL        time.Duration
	CleanupInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTLSeconds := utils.GetEnvAsInt("TOKEN_TTL", 86400, log)
	cleanupIntervalMinutes := utils.GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 60, log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		TokenTTL:        time.Duration(tokenTTLSeconds) * time.Second,
		CleanupInterval: time.Duration(cleanupIntervalMinutes) * time.Minute,
	}
}
