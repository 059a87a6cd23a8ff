package game

import "math/rand"

// RespawnTimeMs is how long a killed player waits before respawn.
const RespawnTimeMs = 2000

// Mode is the pluggable game-mode capability set. The room never
// downcasts a Mode — every policy decision is expressed through this
// interface.
type Mode interface {
	OnPlayerJoin(player *Player, obstacles []Obstacle)
	OnPlayerLeave(player *Player)
	OnPlayerKill(killer, victim *Player, headshot bool)
	OnPlayerDeath(victim *Player, nowMs float64)
	ShouldEndGame(players []*Player) bool
	GetWinners(players []*Player) []*Player
	GetSpawnPosition(player *Player, obstacles []Obstacle) Vec3
	Tick(players []*Player, dt float64)
}

// Deathmatch is the default mode: no score or time limit, winners are
// whoever is tied at the highest score, spawn points are uniform random
// with no safety check against obstacles (collisions resolve on the first
// tick).
type Deathmatch struct {
	rng *rand.Rand
}

// NewDeathmatch constructs the default mode using the given PRNG for spawn
// selection.
func NewDeathmatch(rng *rand.Rand) *Deathmatch {
	return &Deathmatch{rng: rng}
}

// OnPlayerJoin is a no-op beyond spawn placement, which the room performs
// via GetSpawnPosition when it places the new player.
func (m *Deathmatch) OnPlayerJoin(player *Player, obstacles []Obstacle) {}

// OnPlayerLeave is a no-op: deathmatch keeps no per-player mode state.
func (m *Deathmatch) OnPlayerLeave(player *Player) {}

// OnPlayerKill awards +2 for a headshot, +1 for a body kill, and credits
// the killer's kill count.
func (m *Deathmatch) OnPlayerKill(killer, victim *Player, headshot bool) {
	if headshot {
		killer.Score += 2
	} else {
		killer.Score++
	}
	killer.Kills++
}

// OnPlayerDeath schedules the victim's respawn RespawnTimeMs from now.
func (m *Deathmatch) OnPlayerDeath(victim *Player, nowMs float64) {
	victim.RespawnTime = nowMs + RespawnTimeMs
}

// ShouldEndGame never ends a deathmatch automatically.
func (m *Deathmatch) ShouldEndGame(players []*Player) bool { return false }

// GetWinners returns every player tied at the highest score.
func (m *Deathmatch) GetWinners(players []*Player) []*Player {
	best := -1
	for _, p := range players {
		if p.Score > best {
			best = p.Score
		}
	}
	var winners []*Player
	for _, p := range players {
		if p.Score == best {
			winners = append(winners, p)
		}
	}
	return winners
}

// GetSpawnPosition returns a uniform random point in
// [-(MapSize/2-2), +(MapSize/2-2)]^2 with y=5 (drop-in from above) and
// deliberately performs no safety check against obstacles.
func (m *Deathmatch) GetSpawnPosition(player *Player, obstacles []Obstacle) Vec3 {
	bound := MapSize/2.0 - 2
	x := (m.rng.Float64()*2 - 1) * bound
	z := (m.rng.Float64()*2 - 1) * bound
	return Vec3{X: x, Y: 5, Z: z}
}

// Tick has no timers in the default mode.
func (m *Deathmatch) Tick(players []*Player, dt float64) {}
