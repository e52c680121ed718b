package sse

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/logger"
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

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := uuid.New().String()

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	first := SSEMessage{Channel: channel, Event: SSEEventAlertCreated, Data: map[string]any{"seq": 1}}
	second := SSEMessage{Channel: channel, Event: SSEEventChecklistChanged, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Event != SSEEventAlertCreated {
		t.Fatalf("first event: want=%s got=%s", SSEEventAlertCreated, gotFirst.Event)
	}
	if gotSecond.Event != SSEEventChecklistChanged {
		t.Fatalf("second event: want=%s got=%s", SSEEventChecklistChanged, gotSecond.Event)
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

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	reconnect := SSEMessage{Channel: channel, Event: SSEEventAlertDismissed, Data: map[string]any{"seq": 3}}
	hub.Broadcast(reconnect)
	gotReconnect := recvMessage(t, clientB.Outbound, time.Second)
	if gotReconnect.Event != SSEEventAlertDismissed {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventAlertDismissed, gotReconnect.Event)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	alerts := hub.NewSSEClient(uuid.New())
	hub.AddChannel(alerts, "alerts")
	other := hub.NewSSEClient(uuid.New())
	hub.AddChannel(other, "other")

	hub.Broadcast(SSEMessage{Channel: "alerts", Event: SSEEventAlertCreated})

	got := recvMessage(t, alerts.Outbound, time.Second)
	if got.Event != SSEEventAlertCreated {
		t.Fatalf("alerts client: want=%s got=%s", SSEEventAlertCreated, got.Event)
	}
	select {
	case msg := <-other.Outbound:
		t.Fatalf("other channel must not receive alert broadcasts, got %s", msg.Event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSSEHubRemoveChannelStopsDelivery(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "alerts")
	hub.RemoveChannel(client, "alerts")

	hub.Broadcast(SSEMessage{Channel: "alerts", Event: SSEEventAlertCreated})
	select {
	case msg := <-client.Outbound:
		t.Fatalf("unsubscribed client must not receive broadcasts, got %s", msg.Event)
	case <-time.After(100 * time.Millisecond):
	}
}
