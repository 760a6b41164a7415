// Package quizapi talks to the quiz generation service: generating a quiz
// from a document URL and reading back the stored history.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/apierr"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/ctxutil"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

const (
	OpGenerate      = "generate_quiz"
	OpListHistory   = "list_history"
	OpHistoryDetail = "history_detail"

	maxErrorBody = 4 << 10
)

// Client is the quiz API as seen by the controllers.
type Client interface {
	Generate(ctx context.Context, documentURL string) (quiz.Quiz, error)
	ListHistory(ctx context.Context) ([]quiz.Summary, error)
	GetHistory(ctx context.Context, id quiz.ID) (quiz.Quiz, error)
}

type Config struct {
	BaseURL string
	// Zero means no client-side timeout.
	Timeout time.Duration
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("missing quiz API base url")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid quiz API base url %q: %w", base, err)
	}
	return &client{
		log:        log.With("service", "QuizAPIClient"),
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracer:     otel.Tracer("github.com/AakashReddy4/ai-wiki-quiz-generator/internal/clients/quizapi"),
	}, nil
}

type generateRequest struct {
	URL string `json:"url"`
}

// generateResponse leaves out the id of the stored record: a freshly
// generated quiz is not history-sourced.
type generateResponse struct {
	Title         string          `json:"title"`
	URL           string          `json:"url"`
	Questions     []quiz.Question `json:"questions"`
	Summary       string          `json:"summary"`
	RelatedTopics []string        `json:"related_topics"`
	CreatedAt     quiz.Timestamp  `json:"created_at"`
}

func (c *client) Generate(ctx context.Context, documentURL string) (quiz.Quiz, error) {
	var resp generateResponse
	if err := c.do(ctx, OpGenerate, http.MethodPost, "/api/generate-quiz/", generateRequest{URL: documentURL}, &resp); err != nil {
		return quiz.Quiz{}, err
	}
	out := quiz.Quiz{
		Title:         resp.Title,
		URL:           resp.URL,
		Questions:     normalizeQuestions(resp.Questions),
		Summary:       resp.Summary,
		RelatedTopics: resp.RelatedTopics,
		CreatedAt:     resp.CreatedAt,
	}
	if out.URL == "" {
		out.URL = documentURL
	}
	return out, nil
}

func (c *client) ListHistory(ctx context.Context) ([]quiz.Summary, error) {
	var out []quiz.Summary
	if err := c.do(ctx, OpListHistory, http.MethodGet, "/api/history/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) GetHistory(ctx context.Context, id quiz.ID) (quiz.Quiz, error) {
	if id.IsZero() {
		return quiz.Quiz{}, apierr.Transport(OpHistoryDetail, 0, errors.New("empty quiz id"))
	}
	var out quiz.Quiz
	path := "/api/history/" + url.PathEscape(id.String()) + "/"
	if err := c.do(ctx, OpHistoryDetail, http.MethodGet, path, nil, &out); err != nil {
		return quiz.Quiz{}, err
	}
	if out.ID.IsZero() {
		out.ID = id
	}
	out.Questions = normalizeQuestions(out.Questions)
	return out, nil
}

// normalizeQuestions blanks difficulties outside easy/medium/hard so the
// rest of the client only sees known values or none.
func normalizeQuestions(qs []quiz.Question) []quiz.Question {
	for i := range qs {
		if qs[i].Difficulty != "" && !qs[i].Difficulty.Valid() {
			qs[i].Difficulty = ""
		}
	}
	return qs
}

func (c *client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "quizapi."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return apierr.Transport(op, 0, fmt.Errorf("encode request: %w", err))
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return apierr.Transport(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-Id", td.RequestID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("quiz API call failed", "op", op, "error", err)
		return apierr.Transport(op, 0, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("quiz API returned non-2xx",
			"op", op,
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(raw)),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return apierr.Transport(op, resp.StatusCode, errors.New(upstreamMessage(raw, resp.Status)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn("quiz API returned undecodable body", "op", op, "error", err)
		return apierr.Transport(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	c.log.Debug("quiz API call done", "op", op, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// upstreamMessage pulls {"error": "..."} out of an error body when present.
func upstreamMessage(raw []byte, fallback string) string {
	var env struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Detail != "" {
			return env.Detail
		}
	}
	return fallback
}
