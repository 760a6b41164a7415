package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Bool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Seconds reads a whole number of seconds; negative values fall back to def.
func Seconds(name string, def time.Duration, log *logger.Logger) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		if log != nil {
			log.Warn("ignoring invalid duration env", "name", name, "value", raw)
		}
		return def
	}
	return time.Duration(secs) * time.Second
}
