package quiz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessagesYAML []byte

// Messages maps a motivational tier to the line shown under the score.
type Messages map[Tier]string

// LoadMessages parses the embedded defaults and, when path is set, overlays
// the tiers defined in that file.
func LoadMessages(path string) (Messages, error) {
	msgs, err := ParseMessages(defaultMessagesYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded messages: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return msgs, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages %s: %w", path, err)
	}
	override, err := ParseMessages(raw)
	if err != nil {
		return nil, fmt.Errorf("parse messages %s: %w", path, err)
	}
	for tier, msg := range override {
		msgs[tier] = msg
	}
	return msgs, nil
}

func ParseMessages(raw []byte) (Messages, error) {
	var doc map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := Messages{}
	for k, v := range doc {
		tier := Tier(strings.ToLower(strings.TrimSpace(k)))
		switch tier {
		case TierHigh, TierMedium, TierLow:
			out[tier] = strings.TrimSpace(v)
		default:
			return nil, fmt.Errorf("unknown tier %q", k)
		}
	}
	return out, nil
}

// For returns the message for the tier of score.
func (m Messages) For(score int) string {
	return m[MotivationalTier(score)]
}
