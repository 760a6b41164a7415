package app

import (
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/clients/quizapi"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/handoff"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/history"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http"
	httpH "github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/handlers"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/jobs/worker"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/session"
)

type Clients struct {
	QuizAPI quizapi.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	api, err := quizapi.NewClient(log, cfg.QuizAPI)
	if err != nil {
		return Clients{}, err
	}
	return Clients{QuizAPI: api}, nil
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Session  *httpH.SessionHandler
	History  *httpH.HistoryHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(
	log *logger.Logger,
	sessionCtrl *session.Controller,
	historyCtrl *history.Controller,
	ch *handoff.Channel,
	hub *realtime.SSEHub,
	tasks *worker.Worker,
) Handlers {
	log.Info("Wiring handlers...")
	initial := func() []realtime.SSEMessage {
		return []realtime.SSEMessage{
			{Channel: realtime.ChannelSession, Event: realtime.SSEEventSessionChanged, Data: sessionCtrl.Snapshot()},
			{Channel: realtime.ChannelHistory, Event: realtime.SSEEventHistoryChanged, Data: historyCtrl.Snapshot()},
		}
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(ch.Accepting),
		Session:  httpH.NewSessionHandler(log, sessionCtrl, tasks),
		History:  httpH.NewHistoryHandler(log, historyCtrl, tasks),
		Realtime: httpH.NewRealtimeHandler(log, hub, initial),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers) http.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		HealthHandler:   handlers.Health,
		SessionHandler:  handlers.Session,
		HistoryHandler:  handlers.History,
		RealtimeHandler: handlers.Realtime,
	}
}
