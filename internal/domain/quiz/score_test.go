package quiz

import "testing"

func fourQuestions() []Question {
	return []Question{
		{Question: "q1", Options: []string{"A", "B"}, Answer: "A"},
		{Question: "q2", Options: []string{"A", "B"}, Answer: "B"},
		{Question: "q3", Options: []string{"A", "B"}, Answer: "A"},
		{Question: "q4", Options: []string{"A", "B"}, Answer: "B"},
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		selected map[int]string
		want     int
	}{
		{name: "all correct", selected: map[int]string{0: "A", 1: "B", 2: "A", 3: "B"}, want: 100},
		{name: "half correct", selected: map[int]string{0: "A", 1: "A", 2: "A", 3: "A"}, want: 50},
		{name: "unanswered counts as wrong", selected: map[int]string{0: "A"}, want: 25},
		{name: "nothing answered", selected: map[int]string{}, want: 0},
		{name: "exact match only", selected: map[int]string{0: "a", 1: "B "}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Score(fourQuestions(), tt.selected)
			if !ok {
				t.Fatalf("Score reported nothing to score")
			}
			if got != tt.want {
				t.Fatalf("score: want=%d got=%d", tt.want, got)
			}
		})
	}
}

func TestScoreRoundsHalfUp(t *testing.T) {
	qs := []Question{
		{Answer: "A"}, {Answer: "A"}, {Answer: "A"},
	}
	// 2/3 = 66.67
	if got, _ := Score(qs, map[int]string{0: "A", 1: "A"}); got != 67 {
		t.Fatalf("2 of 3: want=67 got=%d", got)
	}
	// 1/3 = 33.33
	if got, _ := Score(qs, map[int]string{0: "A"}); got != 33 {
		t.Fatalf("1 of 3: want=33 got=%d", got)
	}

	eight := make([]Question, 8)
	for i := range eight {
		eight[i] = Question{Answer: "x"}
	}
	// 1/8 = 12.5
	if got, _ := Score(eight, map[int]string{0: "x"}); got != 13 {
		t.Fatalf("1 of 8: want=13 got=%d", got)
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if _, ok := Score(nil, map[int]string{}); ok {
		t.Fatalf("empty quiz should not be scorable")
	}
}

func TestMotivationalTierBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierHigh},
		{80, TierHigh},
		{79, TierMedium},
		{50, TierMedium},
		{49, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		if got := MotivationalTier(tt.score); got != tt.want {
			t.Fatalf("tier(%d): want=%s got=%s", tt.score, tt.want, got)
		}
	}
}

func TestReview(t *testing.T) {
	qs := []Question{
		{ID: "q-1", Options: []string{"A", "B", "C"}, Answer: "B"},
		{Options: []string{"A", "B"}, Answer: "A"},
		{Options: []string{"A", "B"}, Answer: "B"},
	}
	got := Review(qs, map[int]string{0: "C", 1: "A"})
	if len(got) != 3 {
		t.Fatalf("review length: want=3 got=%d", len(got))
	}

	wrong := got[0]
	if wrong.Key != "q-1" || !wrong.Answered || wrong.Correct {
		t.Fatalf("question 0: unexpected review %+v", wrong)
	}
	wantStatus := []OptionStatus{OptionNeutral, OptionCorrect, OptionWrong}
	for i, o := range wrong.Options {
		if o.Status != wantStatus[i] {
			t.Fatalf("question 0 option %d: want=%s got=%s", i, wantStatus[i], o.Status)
		}
	}

	if right := got[1]; right.Key != "1" || !right.Correct || right.Options[0].Status != OptionCorrect || right.Options[1].Status != OptionNeutral {
		t.Fatalf("question 1: unexpected review %+v", right)
	}

	skipped := got[2]
	if skipped.Answered || skipped.Correct {
		t.Fatalf("question 2 should be unanswered: %+v", skipped)
	}
	if skipped.Options[0].Status != OptionNeutral || skipped.Options[1].Status != OptionCorrect {
		t.Fatalf("question 2: unexpected option statuses %+v", skipped.Options)
	}
}
