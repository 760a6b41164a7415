package app

import (
	"strings"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/clients/quizapi"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/observability"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/envutil"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime/bus"
)

const (
	defaultQuizAPIBaseURL = "http://localhost:8000"
	defaultPort           = "8080"
	defaultServiceName    = "quiz-client"
)

type Config struct {
	Port         string
	CORSOrigins  []string
	MessagesPath string

	QuizAPI quizapi.Config
	Bus     bus.Config
	Otel    observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:         envutil.String("PORT", defaultPort),
		CORSOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		MessagesPath: envutil.String("QUIZ_MESSAGES_YAML", ""),
		QuizAPI: quizapi.Config{
			BaseURL: envutil.String("QUIZ_API_BASE_URL", defaultQuizAPIBaseURL),
			// Zero leaves requests without a deadline.
			Timeout: envutil.Seconds("QUIZ_API_TIMEOUT_SECONDS", 0, log),
		},
		Bus: bus.Config{
			RedisAddr:    envutil.String("REDIS_ADDR", ""),
			RedisChannel: envutil.String("REDIS_CHANNEL", ""),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", defaultServiceName),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			SampleRatio: sampleRatio(envutil.Int("OTEL_SAMPLE_PERCENT", 100)),
		},
	}
	log.Info("Config loaded",
		"port", cfg.Port,
		"quiz_api", cfg.QuizAPI.BaseURL,
		"quiz_api_timeout", cfg.QuizAPI.Timeout.String(),
		"redis_bus", cfg.Bus.RedisAddr != "",
		"otel", cfg.Otel.Enabled,
	)
	return cfg
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sampleRatio(percent int) float64 {
	return float64(percent) / 100
}
