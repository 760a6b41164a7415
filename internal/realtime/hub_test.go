package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	clientA := hub.NewSSEClient()
	hub.AddChannel(clientA, ChannelSession)

	first := SSEMessage{Channel: ChannelSession, Event: SSEEventSessionChanged, Data: map[string]any{"version": 1}}
	second := SSEMessage{Channel: ChannelSession, Event: SSEEventSessionChanged, Data: map[string]any{"version": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if v := gotFirst.Data.(map[string]any)["version"]; v != 1 {
		t.Fatalf("first message: want=1 got=%v", v)
	}
	if v := gotSecond.Data.(map[string]any)["version"]; v != 2 {
		t.Fatalf("second message: want=2 got=%v", v)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}

	clientB := hub.NewSSEClient()
	hub.AddChannel(clientB, ChannelSession)
	hub.Broadcast(SSEMessage{Channel: ChannelSession, Event: SSEEventSessionChanged})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventSessionChanged {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventSessionChanged, got.Event)
	}
}

func TestSSEHubRoutesByChannel(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	sessionOnly := hub.NewSSEClient()
	hub.AddChannel(sessionOnly, ChannelSession)
	both := hub.NewSSEClient()
	for _, ch := range DefaultChannels {
		hub.AddChannel(both, ch)
	}

	hub.Broadcast(SSEMessage{Channel: ChannelHistory, Event: SSEEventHistoryChanged})
	if got := recvMessage(t, both.Outbound, time.Second); got.Event != SSEEventHistoryChanged {
		t.Fatalf("want=%s got=%s", SSEEventHistoryChanged, got.Event)
	}
	select {
	case msg := <-sessionOnly.Outbound:
		t.Fatalf("session-only client received %s", msg.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHubBroadcastNeverBlocks(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient()
	hub.AddChannel(client, ChannelHistory)

	done := make(chan struct{})
	go func() {
		for i := 0; i < outboundBuffer*2; i++ {
			hub.Broadcast(SSEMessage{Channel: ChannelHistory, Event: SSEEventHistoryChanged})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a full client")
	}
	if got := len(client.Outbound); got != outboundBuffer {
		t.Fatalf("buffer: want=%d got=%d", outboundBuffer, got)
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient()
	hub.AddChannel(client, ChannelSession)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	t.Cleanup(srv.Close)

	// Headers go out with the first flush, so queue a message up front.
	hub.Broadcast(SSEMessage{Channel: ChannelSession, Event: SSEEventSessionChanged, Data: map[string]any{"phase": "loading"}})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: got=%q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" && len(lines) > 0 {
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("want event and data lines, got %q", lines)
	}
	if lines[0] != "event: SessionChanged" {
		t.Fatalf("event line: got=%q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "data: ") || !strings.Contains(lines[1], `"phase":"loading"`) {
		t.Fatalf("data line: got=%q", lines[1])
	}
	cancel()
}

func TestTrySendReportsFullBuffer(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient()
	msg := SSEMessage{Channel: ChannelSession, Event: SSEEventSessionChanged}
	for i := 0; i < outboundBuffer; i++ {
		if !client.TrySend(msg) {
			t.Fatalf("send %d should fit", i)
		}
	}
	if client.TrySend(msg) {
		t.Fatalf("send past the buffer should report false")
	}
}
