package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"go-taskhub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop(), nil)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func recvFrame(t *testing.T, c *Conn) Envelope {
	t.Helper()
	select {
	case msg, ok := <-c.Outbound():
		require.True(t, ok, "outbound channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(msg, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Envelope{}
	}
}

func assertNoFrame(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case msg, ok := <-c.Outbound():
		if ok {
			t.Fatalf("unexpected frame: %s", msg)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishReachesRoomMembers(t *testing.T) {
	hub := newTestHub(t)

	a := NewConn("conn-a", "user-a")
	b := NewConn("conn-b", "user-b")
	hub.Register(a)
	hub.Register(b)
	hub.Join(a.ID, "team:alpha")
	hub.Join(b.ID, "team:alpha")

	hub.Publish("team:alpha", EventChatTeamMessage, map[string]string{"text": "hi"})

	for _, c := range []*Conn{a, b} {
		env := recvFrame(t, c)
		assert.Equal(t, EventChatTeamMessage, env.Event)
	}
}

func TestHubRoomIsolation(t *testing.T) {
	hub := newTestHub(t)

	a := NewConn("conn-a", "user-a")
	b := NewConn("conn-b", "user-b")
	hub.Register(a)
	hub.Register(b)
	hub.Join(a.ID, "team:alpha")
	hub.Join(b.ID, "team:beta")

	hub.Publish("team:alpha", EventChatTeamMessage, map[string]string{"text": "hi"})

	env := recvFrame(t, a)
	assert.Equal(t, EventChatTeamMessage, env.Event)
	assertNoFrame(t, b)
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := newTestHub(t)

	a := NewConn("conn-a", "user-a")
	hub.Register(a)
	hub.Join(a.ID, "team:alpha")
	hub.Leave(a.ID, "team:alpha")

	hub.Publish("team:alpha", EventChatTeamMessage, map[string]string{"text": "hi"})
	assertNoFrame(t, a)
}

func TestHubRejoinIsIdempotent(t *testing.T) {
	hub := newTestHub(t)

	a := NewConn("conn-a", "user-a")
	hub.Register(a)
	hub.Join(a.ID, "team:alpha")
	hub.Join(a.ID, "team:alpha")

	hub.Publish("team:alpha", EventChatTeamMessage, map[string]string{"text": "hi"})

	recvFrame(t, a)
	assertNoFrame(t, a)
}

func TestHubUnregisterClosesOutbound(t *testing.T) {
	hub := newTestHub(t)

	a := NewConn("conn-a", "user-a")
	hub.Register(a)
	hub.Join(a.ID, "notif:user-a")
	hub.Unregister(a.ID)

	select {
	case _, ok := <-a.Outbound():
		assert.False(t, ok, "outbound must be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("outbound not closed after unregister")
	}

	// The room must be gone too.
	hub.Publish("notif:user-a", EventNotificationNew, nil)
}

func TestHubDisconnectReleasesWriterAndGauge(t *testing.T) {
	m := metrics.NewMetrics()
	hub := NewHub(zap.NewNop(), m)
	go hub.Run()
	t.Cleanup(hub.Stop)

	a := NewConn("conn-a", "user-a")
	hub.Register(a)
	hub.Join(a.ID, PersonalRoom("user-a"))

	// Stands in for the websocket handler's writer goroutine, which ranges
	// over Outbound until the hub closes it.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for range a.Outbound() {
		}
	}()

	hub.Unregister(a.ID)

	select {
	case <-writerDone:
	case <-time.After(time.Second):
		t.Fatal("writer still blocked after unregister")
	}

	// The run loop handles one operation at a time, so once this join
	// returns the drop has fully completed.
	hub.Join("ghost", "team:alpha")
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ConnectedClients))

	hub.Publish(PersonalRoom("user-a"), EventNotificationNew, nil)
	assertNoFrame(t, a)
}

func TestHubJoinUnknownConnIsIgnored(t *testing.T) {
	hub := newTestHub(t)

	hub.Join("ghost", "team:alpha")

	a := NewConn("conn-a", "user-a")
	hub.Register(a)
	hub.Join(a.ID, "team:alpha")
	hub.Publish("team:alpha", EventChatTeamMessage, map[string]string{"text": "hi"})

	recvFrame(t, a)
}

func TestRoomHelpers(t *testing.T) {
	assert.Equal(t, "notif:42", PersonalRoom("42"))
	assert.Equal(t, "team:alpha", TeamRoom("alpha"))
	assert.Equal(t, "admin:dm:sub@example.com", AdminDMRoom("sub@example.com"))
	assert.Equal(t, "notif", RoomKind("notif:42"))
	assert.Equal(t, "team", RoomKind("team:alpha"))
	assert.Equal(t, "admin", RoomKind(AdminGeneralRoom))
	assert.Equal(t, "other", RoomKind("garbage"))
}
