package game

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// Room owns one simulation and one broadcast pipeline. It exclusively owns
// its players and obstacles; rooms never share mutable state, so no lock is
// needed between rooms, only within one room between the network layer's
// asynchronous enqueue and the tick goroutine's drain.
type Room struct {
	mu sync.Mutex

	ID        string
	Seed      int32
	Obstacles []Obstacle

	players      map[uint16]*Player
	order        []uint16 // Stable join-order iteration across ticks
	nextPlayerID uint16

	mode      Mode
	validator *HitValidator

	tickCount uint64
	hitEvents []HitEvent

	tickRate              int
	maxLagCompensationMs  float64

	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool

	// OnSnapshot is invoked once per tick, after the tick's state settles,
	// so the transport layer can encode and unicast a snapshot to every
	// connected player. It receives the tick's player list and hit events
	// directly — the room already holds its lock at this point, so the
	// callback must not call back into Room's locking accessors.
	OnSnapshot func(r *Room, tick uint64, players []*Player, hits []HitEvent)

	nowMs func() float64 // Injectable clock for deterministic tests
}

// NewRoom constructs a room with a map generated from seed and the default
// deathmatch mode.
func NewRoom(id string, seed int32, tickRate int, maxLagCompensationMs float64) *Room {
	return &Room{
		ID:                   id,
		Seed:                 seed,
		Obstacles:            GenerateMap(seed),
		players:              make(map[uint16]*Player),
		nextPlayerID:         1,
		mode:                 NewDeathmatch(rand.New(rand.NewSource(int64(seed)))),
		validator:            NewHitValidator(rand.New(rand.NewSource(int64(seed) ^ 0x5bd1e995))),
		tickRate:             tickRate,
		maxLagCompensationMs: maxLagCompensationMs,
		stopChan:             make(chan struct{}),
		nowMs:                nowMillis,
	}
}

func nowMillis() float64 {
	return float64(time.Now().UnixNano()) / 1e6
}

// PlayerCount returns the number of players currently in the room.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Players returns a snapshot of the player list in stable join order.
// Callers must not mutate the returned slice's backing players outside of
// the tick goroutine.
func (r *Room) Players() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// HitEvents returns this tick's accumulated hit events.
func (r *Room) HitEvents() []HitEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hitEvents
}

// TickRate returns the room's fixed simulation rate in hertz.
func (r *Room) TickRate() int { return r.tickRate }

// TickCount returns the current tick counter.
func (r *Room) TickCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickCount
}

// ErrRoomFull is returned by AddPlayer when the room is at capacity. The
// admission layer (internal/arena) is expected to try the next room.
var ErrRoomFull = roomError("room full")

type roomError string

func (e roomError) Error() string { return string(e) }

// AddPlayer admits a new player, assigns it a monotonic 16-bit id, and
// places it via the active mode's spawn selection. It returns ErrRoomFull
// once the room holds maxPlayers players, and aborts the process if the id
// space is exhausted.
func (r *Room) AddPlayer(name string, maxPlayers int) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= maxPlayers {
		return nil, ErrRoomFull
	}
	if r.nextPlayerID == 0 {
		// Wrapped past 65535 with no free slot below capacity: treat as a
		// fatal invariant violation, never silently collide ids.
		log.Fatalf("room %s: player id space exhausted", r.ID)
	}

	id := r.nextPlayerID
	r.nextPlayerID++

	p := NewPlayer(id, name)
	spawn := r.mode.GetSpawnPosition(p, r.Obstacles)
	p.Respawn(spawn)

	r.players[id] = p
	r.order = append(r.order, id)
	r.mode.OnPlayerJoin(p, r.Obstacles)

	return p, nil
}

// RemovePlayer destroys a player and drops its pending inputs: a player
// that disconnects mid-tick has any queued-but-undrained input discarded.
func (r *Room) RemovePlayer(id uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return
	}
	r.mode.OnPlayerLeave(p)
	delete(r.players, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// QueueInput appends an input record to the target player's FIFO. Safe to
// call concurrently with the tick goroutine; it is the only synchronized
// entry point the network layer uses.
func (r *Room) QueueInput(id uint16, in Input) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[id]; ok {
		p.QueueInput(in)
	}
}

// Start begins the room's fixed-rate tick loop in its own goroutine. Safe
// to call once; subsequent calls are no-ops.
func (r *Room) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.ticker = time.NewTicker(time.Second / time.Duration(r.tickRate))

	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.tick()
			case <-r.stopChan:
				return
			}
		}
	}()

	log.Printf("room %s started at %d tps", r.ID, r.tickRate)
}

// Stop halts the tick loop. Safe to call once; subsequent calls are no-ops.
func (r *Room) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.ticker.Stop()
	close(r.stopChan)
	log.Printf("room %s stopped", r.ID)
}

// tick runs exactly one fixed-Δt simulation step: drain inputs, validate
// shots, handle respawns, tick the mode, and invoke the snapshot callback.
// It holds the room lock for the whole step, so QueueInput and the locking
// accessors wait until the tick (including the snapshot callback) finishes.
func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tickCount++
	dt := DeltaTime(r.tickRate)
	now := r.nowMs()

	r.hitEvents = r.hitEvents[:0]

	players := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.players[id]; ok {
			players = append(players, p)
		}
	}

	var allKills []KillInfo

	for _, player := range players {
		inputs := player.DrainInputs()
		if player.IsDead {
			if len(inputs) > 0 {
				player.LastProcessedInput = inputs[len(inputs)-1].Seq
			}
			continue
		}

		for _, in := range inputs {
			player.ApplyInput(in, r.Obstacles, dt)

			if in.Shoot() {
				events, kills := r.validator.ProcessShot(player, in, now, players, r.Obstacles, r.maxLagCompensationMs)
				r.hitEvents = append(r.hitEvents, events...)
				allKills = append(allKills, kills...)
			}
			player.LastProcessedInput = in.Seq
		}

		player.RecordHistory(now)
	}

	for _, k := range allKills {
		r.mode.OnPlayerKill(k.Killer, k.Victim, k.Headshot)
		r.mode.OnPlayerDeath(k.Victim, now)
	}

	for _, player := range players {
		if player.IsDead && player.RespawnTime > 0 && now >= player.RespawnTime {
			spawn := r.mode.GetSpawnPosition(player, r.Obstacles)
			player.Respawn(spawn)
		}
	}

	r.mode.Tick(players, dt)

	if r.mode.ShouldEndGame(players) {
		for _, player := range players {
			player.Score = 0
			player.Kills = 0
			player.Deaths = 0
			spawn := r.mode.GetSpawnPosition(player, r.Obstacles)
			player.Respawn(spawn)
		}
		r.tickCount = 0
	}

	if r.OnSnapshot != nil {
		r.OnSnapshot(r, r.tickCount, players, r.hitEvents)
	}
}
