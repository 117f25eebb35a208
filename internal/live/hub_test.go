package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubBroadcastsToAllConnections(t *testing.T) {
	h := NewHub(nil)
	a := &Connection{Send: make(chan []byte, 4)}
	b := &Connection{Send: make(chan []byte, 4)}
	h.Register(a)
	h.Register(b)

	h.ScreeningScored("High", 34, "4-6")

	for name, conn := range map[string]*Connection{"a": a, "b": b} {
		select {
		case data := <-conn.Send:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("connection %s got unparseable event: %v", name, err)
			}
			if ev.RiskLevel != "High" || ev.TotalScore != 34 || ev.AgeBand != "4-6" {
				t.Errorf("connection %s event = %+v", name, ev)
			}
			if ev.At.IsZero() {
				t.Errorf("connection %s event has no timestamp", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("connection %s never received the event", name)
		}
	}
}

func TestHubClosesSendOnUnregister(t *testing.T) {
	h := NewHub(nil)
	conn := &Connection{Send: make(chan []byte, 1)}
	h.Register(conn)
	h.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected a closed channel, got an event")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestHubDropsEventsForSlowClients(t *testing.T) {
	h := NewHub(nil)
	// No buffer and no reader: every send to this connection would block.
	slow := &Connection{Send: make(chan []byte)}
	fast := &Connection{Send: make(chan []byte, 1)}
	h.Register(slow)
	h.Register(fast)

	h.ScreeningScored("Low", 2, "2-3")

	select {
	case <-fast.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy connection starved by a slow one")
	}
}
