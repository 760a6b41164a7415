// Package quiz holds the immutable quiz content exchanged with the quiz API
// and the pure scoring and formatting rules applied to it.
package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque identifier. The quiz API sends numeric ids; the client
// never does arithmetic on them, so both numbers and strings decode into it.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quiz id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Question struct {
	ID          ID         `json:"id,omitempty"`
	Question    string     `json:"question"`
	Options     []string   `json:"options"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
}

// Key identifies the question inside its quiz: its own id when the API sent
// one, its position otherwise.
func (q Question) Key(index int) string {
	if !q.ID.IsZero() {
		return q.ID.String()
	}
	return strconv.Itoa(index)
}

type Quiz struct {
	ID            ID         `json:"id,omitempty"`
	Title         string     `json:"title,omitempty"`
	URL           string     `json:"url,omitempty"`
	CreatedAt     Timestamp  `json:"created_at"`
	Questions     []Question `json:"questions,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	RelatedTopics []string   `json:"related_topics,omitempty"`
}

func (q Quiz) Empty() bool { return len(q.Questions) == 0 }

// Clone returns a copy that shares no slices with q.
func (q Quiz) Clone() Quiz {
	out := q
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		for i, qq := range q.Questions {
			qq.Options = append([]string(nil), qq.Options...)
			out.Questions[i] = qq
		}
	}
	if q.RelatedTopics != nil {
		out.RelatedTopics = append([]string(nil), q.RelatedTopics...)
	}
	return out
}

// Summary is the history list projection of a stored quiz.
type Summary struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt Timestamp `json:"created_at"`
}

func (q Quiz) Summarize() Summary {
	return Summary{ID: q.ID, Title: q.Title, URL: q.URL, CreatedAt: q.CreatedAt}
}
