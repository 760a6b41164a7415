package quiz

import "github.com/samber/lo"

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

const (
	highTierMin   = 80
	mediumTierMin = 50
)

// MotivationalTier buckets a percentage score. Lower bounds are inclusive.
func MotivationalTier(score int) Tier {
	switch {
	case score >= highTierMin:
		return TierHigh
	case score >= mediumTierMin:
		return TierMedium
	default:
		return TierLow
	}
}

// CorrectCount counts questions whose selected option equals the answer
// exactly. Unanswered questions never count.
func CorrectCount(questions []Question, selected map[int]string) int {
	return len(lo.Filter(questions, func(q Question, i int) bool {
		got, ok := selected[i]
		return ok && got == q.Answer
	}))
}

// Score returns round(100*correct/total) with halves rounded up, and false
// when there is nothing to score.
func Score(questions []Question, selected map[int]string) (int, bool) {
	total := len(questions)
	if total == 0 {
		return 0, false
	}
	correct := CorrectCount(questions, selected)
	return (200*correct + total) / (2 * total), true
}

type OptionStatus string

const (
	OptionNeutral OptionStatus = "neutral"
	OptionCorrect OptionStatus = "correct"
	OptionWrong   OptionStatus = "wrong"
)

type OptionReview struct {
	Option string       `json:"option"`
	Status OptionStatus `json:"status"`
}

type QuestionReview struct {
	Index    int            `json:"index"`
	Key      string         `json:"key"`
	Selected string         `json:"selected,omitempty"`
	Answered bool           `json:"answered"`
	Correct  bool           `json:"correct"`
	Answer   string         `json:"answer"`
	Options  []OptionReview `json:"options"`
}

// Review marks every option of every question once a quiz is scored: the
// right answer is correct, a selected non-answer is wrong, the rest neutral.
func Review(questions []Question, selected map[int]string) []QuestionReview {
	out := make([]QuestionReview, 0, len(questions))
	for i, q := range questions {
		sel, answered := selected[i]
		r := QuestionReview{
			Index:    i,
			Key:      q.Key(i),
			Selected: sel,
			Answered: answered,
			Correct:  answered && sel == q.Answer,
			Answer:   q.Answer,
		}
		r.Options = lo.Map(q.Options, func(opt string, _ int) OptionReview {
			status := OptionNeutral
			switch {
			case opt == q.Answer:
				status = OptionCorrect
			case answered && opt == sel:
				status = OptionWrong
			}
			return OptionReview{Option: opt, Status: status}
		})
		out = append(out, r)
	}
	return out
}
