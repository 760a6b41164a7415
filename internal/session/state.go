package session

import (
	"errors"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

const generationFailedMessage = "Failed to generate quiz"

var (
	ErrInvalidURL        = errors.New("document url is required")
	ErrGenerationPending = errors.New("a quiz is already being generated")
	ErrSuperseded        = errors.New("generation superseded by a newer request")
	ErrNoQuiz            = errors.New("no quiz loaded")
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrQuestionIndex     = errors.New("question index out of range")
	ErrAlreadySubmitted  = errors.New("quiz already submitted")
	ErrNotSubmitted      = errors.New("quiz not submitted")
)

// state is only touched with Controller.mu held. A new generation or a
// handoff replaces it wholesale.
type state struct {
	phase       Phase
	quiz        *quiz.Quiz
	selected    map[int]string
	explanation map[int]bool
	submitted   bool
	score       *int
	errMsg      string
}

func freshState(phase Phase, q *quiz.Quiz) state {
	return state{
		phase:       phase,
		quiz:        q,
		selected:    map[int]string{},
		explanation: map[int]bool{},
	}
}

func (s *state) questionCount() int {
	if s.quiz == nil {
		return 0
	}
	return len(s.quiz.Questions)
}

// Snapshot is a copy of the session safe to hand to other goroutines.
type Snapshot struct {
	Version            uint64         `json:"version"`
	Phase              Phase          `json:"phase"`
	Quiz               *quiz.Quiz     `json:"quiz,omitempty"`
	SelectedAnswers    map[int]string `json:"selected_answers"`
	ExplanationVisible map[int]bool   `json:"explanation_visible"`
	Submitted          bool           `json:"submitted"`
	Score              *int           `json:"score,omitempty"`
	Tier               quiz.Tier      `json:"tier,omitempty"`
	Message            string         `json:"message,omitempty"`
	ErrorMessage       string         `json:"error_message,omitempty"`
}

func (s *state) snapshot(version uint64, msgs quiz.Messages) Snapshot {
	out := Snapshot{
		Version:            version,
		Phase:              s.phase,
		SelectedAnswers:    make(map[int]string, len(s.selected)),
		ExplanationVisible: make(map[int]bool, len(s.explanation)),
		Submitted:          s.submitted,
		ErrorMessage:       s.errMsg,
	}
	if s.quiz != nil {
		cp := s.quiz.Clone()
		out.Quiz = &cp
	}
	for k, v := range s.selected {
		out.SelectedAnswers[k] = v
	}
	for k, v := range s.explanation {
		out.ExplanationVisible[k] = v
	}
	if s.score != nil {
		score := *s.score
		out.Score = &score
		out.Tier = quiz.MotivationalTier(score)
		out.Message = msgs.For(score)
	}
	return out
}

func (s Snapshot) version() uint64 { return s.Version }
