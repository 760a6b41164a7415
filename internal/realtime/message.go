package realtime

type SSEEvent string

const (
	SSEEventSessionChanged SSEEvent = "SessionChanged"
	SSEEventHistoryChanged SSEEvent = "HistoryChanged"
)

const (
	ChannelSession = "session"
	ChannelHistory = "history"
)

// DefaultChannels are the channels a stream joins when it names none.
var DefaultChannels = []string{ChannelSession, ChannelHistory}

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
