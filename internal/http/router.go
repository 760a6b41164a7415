package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/handlers"
	httpMW "github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/middleware"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	HealthHandler   *httpH.HealthHandler
	SessionHandler  *httpH.SessionHandler
	HistoryHandler  *httpH.HistoryHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Quiz session
		if cfg.SessionHandler != nil {
			api.GET("/session", cfg.SessionHandler.GetSession)
			api.POST("/session/generate", cfg.SessionHandler.Generate)
			api.POST("/session/answers", cfg.SessionHandler.SelectAnswer)
			api.POST("/session/explanations/:index", cfg.SessionHandler.ToggleExplanation)
			api.POST("/session/submit", cfg.SessionHandler.Submit)
			api.POST("/session/reattempt", cfg.SessionHandler.Reattempt)
			api.GET("/session/review", cfg.SessionHandler.Review)
		}

		// History
		if cfg.HistoryHandler != nil {
			api.GET("/history", cfg.HistoryHandler.GetHistory)
			api.POST("/history/:id/open", cfg.HistoryHandler.OpenDetail)
			api.DELETE("/history/detail", cfg.HistoryHandler.CloseDetail)
			api.POST("/history/detail/explanations/:key", cfg.HistoryHandler.ToggleExplanation)
			api.POST("/history/detail/reattempt", cfg.HistoryHandler.Reattempt)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/events", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
