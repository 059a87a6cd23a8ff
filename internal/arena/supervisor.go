// Package arena owns room lifecycle: creation, round-robin admission, and
// shutdown. One supervisor per server process; rooms are values it owns
// exclusively, each running its own tick goroutine (internal/game.Room).
package arena

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/duelforge/arena/internal/config"
	"github.com/duelforge/arena/internal/game"
)

// ErrNoCapacity is returned when every room is full and MAX_ROOMS has
// already been reached.
var ErrNoCapacity = errors.New("arena: no room capacity available")

// Supervisor creates rooms on demand, admits players into the first room
// with a free slot, and starts/stops rooms as they fill and empty.
type Supervisor struct {
	mu    sync.Mutex
	rooms []*game.Room
	order []string // room IDs in creation order, for stable round-robin scan

	roomCfg config.RoomConfig

	// OnSnapshot, when set, is installed on every room this supervisor
	// creates so the transport layer can broadcast per-tick snapshots.
	OnSnapshot func(r *game.Room, tick uint64, players []*game.Player, hits []game.HitEvent)
}

// NewSupervisor constructs an empty supervisor bound to the given room
// configuration (tick rate, map seed, capacity limits).
func NewSupervisor(roomCfg config.RoomConfig) *Supervisor {
	return &Supervisor{roomCfg: roomCfg}
}

// Admit places a newly connected player into the first room with a free
// slot, creating a new room if none has room and MAX_ROOMS allows it.
// Returns the room and the admitted player.
func (s *Supervisor) Admit(name string) (*game.Room, *game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		room := s.roomByID(id)
		if room == nil {
			continue
		}
		if room.PlayerCount() < s.roomCfg.MaxPlayersPerRoom {
			player, err := room.AddPlayer(name, s.roomCfg.MaxPlayersPerRoom)
			if err == nil {
				return room, player, nil
			}
		}
	}

	if len(s.rooms) >= s.roomCfg.MaxRooms {
		return nil, nil, ErrNoCapacity
	}

	room := s.createRoomLocked()
	player, err := room.AddPlayer(name, s.roomCfg.MaxPlayersPerRoom)
	if err != nil {
		return nil, nil, err
	}
	return room, player, nil
}

func (s *Supervisor) roomByID(id string) *game.Room {
	for _, r := range s.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Supervisor) createRoomLocked() *game.Room {
	id := uuid.NewString()
	room := game.NewRoom(id, s.roomCfg.MapSeed, s.roomCfg.TickRate, s.roomCfg.MaxLagCompensation)
	room.OnSnapshot = s.OnSnapshot

	s.rooms = append(s.rooms, room)
	s.order = append(s.order, id)

	room.Start()
	log.Printf("arena: room %s started (%d/%d rooms)", id, len(s.rooms), s.roomCfg.MaxRooms)

	return room
}

// Leave removes a player from its room. If the room becomes empty, it is
// stopped and removed from the registry so an idle room's goroutine and
// memory are reclaimed.
func (s *Supervisor) Leave(room *game.Room, playerID uint16) {
	room.RemovePlayer(playerID)

	if room.PlayerCount() > 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rooms {
		if r == room {
			room.Stop()
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			for j, id := range s.order {
				if id == room.ID {
					s.order = append(s.order[:j], s.order[j+1:]...)
					break
				}
			}
			log.Printf("arena: room %s emptied and stopped (%d/%d rooms)", room.ID, len(s.rooms), s.roomCfg.MaxRooms)
			return
		}
	}
}

// RoomCount returns the number of active rooms.
func (s *Supervisor) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// PlayerCount returns the total number of players across all rooms.
func (s *Supervisor) PlayerCount() int {
	s.mu.Lock()
	rooms := make([]*game.Room, len(s.rooms))
	copy(rooms, s.rooms)
	s.mu.Unlock()

	total := 0
	for _, r := range rooms {
		total += r.PlayerCount()
	}
	return total
}

// Shutdown stops every room, for graceful process exit.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	rooms := make([]*game.Room, len(s.rooms))
	copy(rooms, s.rooms)
	s.rooms = nil
	s.order = nil
	s.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
}
