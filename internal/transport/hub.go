// Package transport adapts the room core's binary protocol onto gorilla
// WebSocket connections: one JOIN admits a connection into a room, INPUT
// frames are decoded and enqueued, and the room's per-tick snapshot is
// encoded for each connection in that room (only lastProcessedInput differs
// between them) and unicast to it.
package transport

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/duelforge/arena/internal/api"
	"github.com/duelforge/arena/internal/arena"
	"github.com/duelforge/arena/internal/game"
	"github.com/duelforge/arena/internal/protocol"
)

const (
	// MaxConnectionsPerIP bounds concurrent WebSocket connections from one
	// address.
	MaxConnectionsPerIP = 8

	// joinDeadline is how long a freshly upgraded connection has to send
	// its JOIN frame before the hub gives up on it.
	joinDeadline = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn     *websocket.Conn
	ip       string
	roomID   string
	playerID uint16
	writeMu  sync.Mutex
}

func (c *client) writeBinary(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

type roomClients struct {
	mu      sync.RWMutex
	encoder *protocol.Encoder
	byID    map[uint16]*client
}

// Hub owns the WebSocket upgrade path and the room-ID-keyed connection
// registry used to unicast per-tick snapshots.
type Hub struct {
	supervisor *arena.Supervisor
	ipLimiter  *api.WebSocketRateLimiter

	mu    sync.RWMutex
	rooms map[string]*roomClients
}

// NewHub constructs a hub bound to a supervisor and installs itself as the
// supervisor's snapshot callback.
func NewHub(supervisor *arena.Supervisor) *Hub {
	h := &Hub{
		supervisor: supervisor,
		ipLimiter:  api.NewWebSocketRateLimiter(MaxConnectionsPerIP),
		rooms:      make(map[string]*roomClients),
	}
	supervisor.OnSnapshot = h.broadcastSnapshot
	return h
}

func (h *Hub) roomState(roomID string) *roomClients {
	h.mu.Lock()
	defer h.mu.Unlock()
	rc, ok := h.rooms[roomID]
	if !ok {
		rc = &roomClients{encoder: protocol.NewEncoder(), byID: make(map[uint16]*client)}
		h.rooms[roomID] = rc
	}
	return rc
}

func (h *Hub) dropRoomIfEmpty(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rc, ok := h.rooms[roomID]
	if !ok {
		return
	}
	rc.mu.RLock()
	empty := len(rc.byID) == 0
	rc.mu.RUnlock()
	if empty {
		delete(h.rooms, roomID)
	}
}

// HandleWebSocket upgrades the connection, waits for a JOIN frame, admits
// the player via the supervisor, and then drives the read loop for the
// lifetime of the connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := api.GetClientIP(r)

	if !h.ipLimiter.Allow(ip) {
		api.RecordConnectionRejected("ws_limit")
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.ipLimiter.Release(ip)
		return
	}

	c := &client{conn: conn, ip: ip}

	conn.SetReadDeadline(time.Now().Add(joinDeadline))
	_, data, err := conn.ReadMessage()
	if err != nil {
		api.RecordConnectionRejected("malformed")
		h.ipLimiter.Release(ip)
		conn.Close()
		return
	}

	join, err := protocol.DecodeJoin(data)
	if err != nil {
		api.RecordConnectionRejected("malformed")
		h.ipLimiter.Release(ip)
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	room, player, err := h.supervisor.Admit(join.Name)
	if err != nil {
		api.RecordConnectionRejected("room_full")
		h.ipLimiter.Release(ip)
		conn.Close()
		return
	}

	c.roomID = room.ID
	c.playerID = player.ID

	rc := h.roomState(room.ID)
	rc.mu.Lock()
	rc.byID[player.ID] = c
	rc.mu.Unlock()

	api.UpdateWSConnections(h.connectionCount())
	log.Printf("transport: player %d (%s) joined room %s", player.ID, join.Name, room.ID)

	welcome := protocol.EncodeWelcome(player.ID, uint8(room.TickRate()), room.Seed)
	if err := c.writeBinary(welcome); err != nil {
		h.disconnect(c, room)
		return
	}

	h.readLoop(c, room)
}

func (h *Hub) readLoop(c *client, room *game.Room) {
	defer h.disconnect(c, room)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if len(data) == 0 {
			continue
		}

		switch data[0] {
		case protocol.MsgInput:
			in, err := protocol.DecodeInput(data)
			if err != nil {
				continue
			}
			room.QueueInput(c.playerID, game.Input{
				Seq:       in.Seq,
				Flags:     in.Flags,
				Weapon:    in.Weapon,
				Yaw:       in.Yaw,
				Pitch:     in.Pitch,
				Timestamp: in.Timestamp,
			})
			if in.Flags&game.FlagShoot != 0 {
				api.RecordShot()
			}
		case protocol.MsgPing:
			ping, err := protocol.DecodePing(data)
			if err != nil {
				continue
			}
			_ = c.writeBinary(protocol.EncodePing(ping.ClientTime))
		default:
			api.RecordConnectionRejected("malformed")
		}
	}
}

func (h *Hub) disconnect(c *client, room *game.Room) {
	h.ipLimiter.Release(c.ip)

	if c.roomID == "" {
		c.conn.Close()
		return
	}

	h.mu.RLock()
	rc, ok := h.rooms[c.roomID]
	h.mu.RUnlock()
	if ok {
		rc.mu.Lock()
		delete(rc.byID, c.playerID)
		rc.mu.Unlock()
		h.dropRoomIfEmpty(c.roomID)
	}

	h.supervisor.Leave(room, c.playerID)

	c.conn.Close()
	api.UpdateWSConnections(h.connectionCount())
	log.Printf("transport: player %d left room %s", c.playerID, c.roomID)
}

func (h *Hub) connectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, rc := range h.rooms {
		rc.mu.RLock()
		total += len(rc.byID)
		rc.mu.RUnlock()
	}
	return total
}

// broadcastSnapshot is installed as the supervisor's per-room OnSnapshot
// callback. It runs synchronously inside that room's tick goroutine with
// the room's lock held, so it must not call back into Room's locking
// accessors — everything it needs arrives as arguments.
func (h *Hub) broadcastSnapshot(room *game.Room, tick uint64, players []*game.Player, hits []game.HitEvent) {
	h.mu.RLock()
	rc, ok := h.rooms[room.ID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if len(rc.byID) == 0 {
		return
	}

	entries := make([]protocol.PlayerEntry, len(players))
	for i, p := range players {
		entries[i] = toPlayerEntry(p)
	}
	hitEntries := make([]protocol.HitEntry, len(hits))
	for i, hEv := range hits {
		hitEntries[i] = protocol.HitEntry{
			ShooterID: hEv.ShooterID,
			TargetID:  hEv.TargetID,
			Damage:    hEv.Damage,
			Headshot:  hEv.Headshot,
		}
	}

	serverTime := float64(time.Now().UnixNano()) / 1e6

	for _, p := range players {
		c, connected := rc.byID[p.ID]
		if !connected {
			continue
		}
		frame := rc.encoder.EncodeSnapshot(uint32(tick), serverTime, entries, hitEntries, p.LastProcessedInput)
		_ = c.writeBinary(frame)
	}
}

func toPlayerEntry(p *game.Player) protocol.PlayerEntry {
	score := p.Score
	if score < 0 {
		score = 0
	}
	if score > 0xFFFF {
		score = 0xFFFF
	}
	return protocol.PlayerEntry{
		ID:         p.ID,
		X:          float32(p.Position.X),
		Y:          float32(p.Position.Y),
		Z:          float32(p.Position.Z),
		VX:         float32(p.Velocity.X),
		VY:         float32(p.Velocity.Y),
		VZ:         float32(p.Velocity.Z),
		Yaw:        float32(p.Yaw),
		Pitch:      float32(p.Pitch),
		Health:     p.Health,
		Weapon:     p.Weapon,
		IsShooting: p.IsShooting,
		IsDead:     p.IsDead,
		Score:      uint16(score),
	}
}
