// Package live streams anonymized screening events to connected admin
// dashboards over WebSocket.
package live

import (
	"encoding/json"
	"log"
	"time"

	"github.com/earlysigns/backend/internal/metrics"
)

// Event is what admins see for each completed screening. It carries no
// identity, only the coarse shape of the result.
type Event struct {
	RiskLevel  string    `json:"risk_level"`
	TotalScore int       `json:"total_score"`
	AgeBand    string    `json:"age_band"`
	At         time.Time `json:"at"`
}

// Connection is one admin dashboard socket.
type Connection struct {
	Send chan []byte
}

// Hub fans screening events out to every connected dashboard. The
// connection map is touched only by run(), so channel sends are the whole
// synchronization story.
type Hub struct {
	conns map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte

	metrics *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		metrics:    m,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.conns[conn] = true
			h.setGauge()
			log.Printf("Admin dashboard connected (%d live)", len(h.conns))

		case conn := <-h.unregister:
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
				h.setGauge()
				log.Printf("Admin dashboard disconnected (%d live)", len(h.conns))
			}

		case data := <-h.broadcast:
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Slow client; drop the event rather than stall.
				}
			}
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// ScreeningScored implements screenings.Broadcaster. A full broadcast
// buffer drops the event; the feed is informational and must never slow a
// submission down.
func (h *Hub) ScreeningScored(riskLevel string, totalScore int, ageBand string) {
	data, err := json.Marshal(Event{
		RiskLevel:  riskLevel,
		TotalScore: totalScore,
		AgeBand:    ageBand,
		At:         time.Now().UTC(),
	})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- data:
	default:
	}
}

func (h *Hub) setGauge() {
	if h.metrics != nil {
		h.metrics.LiveClients.Set(float64(len(h.conns)))
	}
}
