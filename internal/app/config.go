package app

import (
	"time"

	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
	"github.com/yungbote/scriptpulse-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string
	GenAITimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	genaiTimeoutSeconds := utils.GetEnvAsInt("GENAI_TIMEOUT_SECONDS", 20, log)
	return Config{
		Port:         port,
		JWTSecretKey: jwtSecretKey,
		GenAITimeout: time.Duration(genaiTimeoutSeconds) * time.Second,
	}
}
