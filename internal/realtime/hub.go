package realtime

import (
	"sync"

	"go-taskhub/internal/metrics"

	"go.uber.org/zap"
)

type membership struct {
	connID string
	room   string
}

type outbound struct {
	room string
	msg  []byte
}

// Hub is the in-process Bus implementation. All state is owned by the Run
// loop; the exported methods only push onto channels, so they are safe from
// any goroutine.
type Hub struct {
	register   chan *Conn
	unregister chan string
	join       chan membership
	leave      chan membership
	publish    chan outbound

	conns     map[string]*Conn
	rooms     map[string]map[string]*Conn
	connRooms map[string]map[string]struct{}

	log     *zap.Logger
	metrics *metrics.Metrics

	stop     chan struct{}
	stopOnce sync.Once
}

func NewHub(log *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		register:   make(chan *Conn),
		unregister: make(chan string),
		join:       make(chan membership),
		leave:      make(chan membership),
		publish:    make(chan outbound, 256),

		conns:     make(map[string]*Conn),
		rooms:     make(map[string]map[string]*Conn),
		connRooms: make(map[string]map[string]struct{}),

		log:     log,
		metrics: m,
		stop:    make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.conns[conn.ID] = conn
			h.connRooms[conn.ID] = make(map[string]struct{})
			if h.metrics != nil {
				h.metrics.ConnectedClients.Inc()
			}
			h.log.Debug("client registered", zap.String("conn", conn.ID), zap.String("userId", conn.UserID))

		case connID := <-h.unregister:
			h.dropConn(connID)

		case m := <-h.join:
			conn, ok := h.conns[m.connID]
			if !ok {
				continue
			}
			if h.rooms[m.room] == nil {
				h.rooms[m.room] = make(map[string]*Conn)
			}
			// Rejoining is idempotent.
			h.rooms[m.room][m.connID] = conn
			h.connRooms[m.connID][m.room] = struct{}{}

		case m := <-h.leave:
			h.dropMembership(m.connID, m.room)

		case out := <-h.publish:
			for connID, conn := range h.rooms[out.room] {
				select {
				case conn.send <- out.msg:
				default:
					// Slow consumer: drop the connection rather than block
					// delivery to the rest of the room.
					h.dropConn(connID)
				}
			}

		case <-h.stop:
			for connID := range h.conns {
				h.dropConn(connID)
			}
			return
		}
	}
}

func (h *Hub) dropConn(connID string) {
	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	for room := range h.connRooms[connID] {
		h.dropMembership(connID, room)
	}
	delete(h.connRooms, connID)
	delete(h.conns, connID)
	close(conn.send)
	if h.metrics != nil {
		h.metrics.ConnectedClients.Dec()
	}
	h.log.Debug("client unregistered", zap.String("conn", connID))
}

func (h *Hub) dropMembership(connID, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.connRooms[connID]; ok {
		delete(rooms, room)
	}
}

func (h *Hub) Register(c *Conn) {
	select {
	case h.register <- c:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(connID string) {
	select {
	case h.unregister <- connID:
	case <-h.stop:
	}
}

func (h *Hub) Join(connID, room string) {
	select {
	case h.join <- membership{connID: connID, room: room}:
	case <-h.stop:
	}
}

func (h *Hub) Leave(connID, room string) {
	select {
	case h.leave <- membership{connID: connID, room: room}:
	case <-h.stop:
	}
}

func (h *Hub) Publish(room, event string, payload any) {
	msg, err := encodeEnvelope(event, payload)
	if err != nil {
		h.log.Warn("dropping unencodable event", zap.String("event", event), zap.Error(err))
		return
	}
	h.deliver(room, msg)
	if h.metrics != nil {
		h.metrics.BusPublishes.WithLabelValues(RoomKind(room)).Inc()
	}
}

// deliver queues a pre-encoded frame for everyone in the room. RedisBus uses
// it to hand frames received from the broker to local connections.
func (h *Hub) deliver(room string, msg []byte) {
	select {
	case h.publish <- outbound{room: room, msg: msg}:
	case <-h.stop:
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}
