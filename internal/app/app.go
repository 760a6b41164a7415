package app

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/handoff"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/history"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http"
	httpH "github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/handlers"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/jobs/worker"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/observability"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime/bus"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/session"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	Server  *http.Server
	SSEHub  *realtime.SSEHub
	Bus     bus.Bus
	Tasks   *worker.Worker
	Handoff *handoff.Channel
	Session *session.Controller
	History *history.Controller

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	msgs, err := quiz.LoadMessages(cfg.MessagesPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load messages: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	eventBus, err := bus.New(log, cfg.Bus)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init realtime bus: %w", err)
	}

	ch := handoff.NewChannel(log)
	sessionCtrl := session.NewController(log, clients.QuizAPI, msgs,
		bus.Notifier[session.Snapshot](log, eventBus, realtime.ChannelSession, realtime.SSEEventSessionChanged))
	historyCtrl := history.NewController(log, clients.QuizAPI, ch,
		bus.Notifier[history.Snapshot](log, eventBus, realtime.ChannelHistory, realtime.SSEEventHistoryChanged))

	hub := realtime.NewSSEHub(log)
	tasks := worker.NewWorker(log, httpH.ExpectedTaskResult)

	handlerset := wireHandlers(log, sessionCtrl, historyCtrl, ch, hub, tasks)
	server := http.NewServer(cfg.Addr(), routerConfig(log, cfg, handlerset))

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       server,
		SSEHub:       hub,
		Bus:          eventBus,
		Tasks:        tasks,
		Handoff:      ch,
		Session:      sessionCtrl,
		History:      historyCtrl,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		return fmt.Errorf("start realtime forwarder: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Session.Run(gctx, a.Handoff)
	})
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		return a.Server.Run(gctx)
	})
	if err := a.Tasks.Submit(gctx, "history_summaries", a.History.LoadSummaries); err != nil {
		a.Log.Warn("history summaries not requested", "error", err)
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Tasks != nil {
		a.Tasks.Stop()
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("realtime bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
