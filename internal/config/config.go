package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"lol-coach/internal/constants"
)

type Config struct {
	RiotAPIKey string

	AWSRegion      string
	BedrockRoleARN string
	CoachModelID   string
	AnalystModelID string

	DBPath     string
	ServerPort string
	LogLevel   string
	SessionTTL time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:     getEnv("RIOT_API_KEY", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		BedrockRoleARN: getEnv("BEDROCK_ROLE_ARN", ""),
		CoachModelID:   getEnv("COACH_MODEL_ID", "us.anthropic.claude-3-5-haiku-20241022-v1:0"),
		AnalystModelID: getEnv("ANALYST_MODEL_ID", "us.deepseek.r1-v1:0"),
		DBPath:         getEnv("DB_PATH", ":memory:"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SessionTTL:     getEnvDuration("SESSION_TTL", constants.SessionTTL),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	logger.Info().
		Str("aws_region", cfg.AWSRegion).
		Str("coach_model", cfg.CoachModelID).
		Str("analyst_model", cfg.AnalystModelID).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

var Module = fx.Provide(Load)
