package history

import (
	"errors"

	"github.com/samber/lo"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

const detailFailedMessage = "Failed to fetch quiz details"

var (
	ErrInvalidID       = errors.New("quiz id is required")
	ErrStale           = errors.New("response belongs to a request that is no longer current")
	ErrDetailNotLoaded = errors.New("no quiz detail loaded")
	ErrQuestionKey     = errors.New("unknown question key")
	ErrHandoffDropped  = errors.New("quiz session is not accepting a handoff")
)

type detail struct {
	requestedID quiz.ID
	phase       Phase
	quiz        *quiz.Quiz
	errMsg      string
	explanation map[string]bool
}

func idleDetail() detail {
	return detail{phase: PhaseIdle, explanation: map[string]bool{}}
}

type DetailState struct {
	RequestedID        quiz.ID         `json:"requested_id,omitempty"`
	Phase              Phase           `json:"phase"`
	Detail             *quiz.Quiz      `json:"detail,omitempty"`
	ErrorMessage       string          `json:"error_message,omitempty"`
	ExplanationVisible map[string]bool `json:"explanation_visible"`
}

// SummaryView is a list row with its display strings precomputed.
type SummaryView struct {
	quiz.Summary
	ShortURL  string `json:"short_url"`
	Generated string `json:"generated"`
}

type Snapshot struct {
	Version     uint64        `json:"version"`
	ListLoading bool          `json:"list_loading"`
	Summaries   []SummaryView `json:"summaries"`
	Detail      DetailState   `json:"detail"`
}

func (s Snapshot) version() uint64 { return s.Version }

func summaryViews(in []quiz.Summary) []SummaryView {
	return lo.Map(in, func(s quiz.Summary, _ int) SummaryView {
		return SummaryView{
			Summary:   s,
			ShortURL:  quiz.ShortenURL(s.URL),
			Generated: quiz.FormatDate(s.CreatedAt.Time),
		}
	})
}

func (d detail) state() DetailState {
	out := DetailState{
		RequestedID:        d.requestedID,
		Phase:              d.phase,
		ErrorMessage:       d.errMsg,
		ExplanationVisible: make(map[string]bool, len(d.explanation)),
	}
	if d.quiz != nil {
		cp := d.quiz.Clone()
		out.Detail = &cp
	}
	for k, v := range d.explanation {
		out.ExplanationVisible[k] = v
	}
	return out
}
