package game

import "testing"

// TestRoomAddPlayerAssignsSequentialIDs verifies player ids are assigned
// starting at 1 and increment monotonically.
func TestRoomAddPlayerAssignsSequentialIDs(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)

	a, err := r.AddPlayer("a", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := r.AddPlayer("b", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
}

// TestRoomAddPlayerRejectsWhenFull verifies AddPlayer returns ErrRoomFull
// once maxPlayers is reached.
func TestRoomAddPlayerRejectsWhenFull(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)

	if _, err := r.AddPlayer("a", 1); err != nil {
		t.Fatalf("unexpected error filling the only slot: %v", err)
	}
	if _, err := r.AddPlayer("b", 1); err != ErrRoomFull {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
}

// TestRoomRemovePlayerDropsFromOrderAndMap verifies a removed player no
// longer appears in PlayerCount or Players.
func TestRoomRemovePlayerDropsFromOrderAndMap(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)
	a, _ := r.AddPlayer("a", 16)
	_, _ = r.AddPlayer("b", 16)

	r.RemovePlayer(a.ID)

	if r.PlayerCount() != 1 {
		t.Fatalf("expected 1 remaining player, got %d", r.PlayerCount())
	}
	for _, p := range r.Players() {
		if p.ID == a.ID {
			t.Error("removed player still present in Players()")
		}
	}
}

// TestRoomTickRespawnGating verifies a dead player whose respawn time has
// elapsed is revived to full health by tick-end, per the respawn gating
// invariant.
func TestRoomTickRespawnGating(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)
	p, _ := r.AddPlayer("a", 16)

	p.IsDead = true
	p.RespawnTime = 500
	r.nowMs = func() float64 { return 600 }

	r.tick()

	if p.IsDead {
		t.Error("expected player to be revived once now >= respawnTime")
	}
	if p.Health != MaxHealth {
		t.Errorf("expected health restored to %d, got %d", MaxHealth, p.Health)
	}
}

// TestRoomTickRespawnNotYetDue verifies a dead player whose respawn timer
// has not yet elapsed stays dead.
func TestRoomTickRespawnNotYetDue(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)
	p, _ := r.AddPlayer("a", 16)

	p.IsDead = true
	p.RespawnTime = 500
	r.nowMs = func() float64 { return 100 }

	r.tick()

	if !p.IsDead {
		t.Error("expected player to remain dead before its respawn time")
	}
}

// TestRoomTickLastProcessedInputTracksHighestDrainedSeq verifies that after
// a tick drains several queued inputs, lastProcessedInput equals the
// highest seq among them — the value every broadcast snapshot personalizes
// on for that player.
func TestRoomTickLastProcessedInputTracksHighestDrainedSeq(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)
	p, _ := r.AddPlayer("a", 16)
	r.nowMs = func() float64 { return 1000 }

	r.QueueInput(p.ID, Input{Seq: 5})
	r.QueueInput(p.ID, Input{Seq: 6})
	r.QueueInput(p.ID, Input{Seq: 7})

	r.tick()

	if p.LastProcessedInput != 7 {
		t.Errorf("expected lastProcessedInput 7, got %d", p.LastProcessedInput)
	}
}

// TestRoomTickInvokesOnSnapshotWithTickCount verifies the snapshot callback
// fires once per tick with the incremented tick counter and the full
// player/hit-event set.
func TestRoomTickInvokesOnSnapshotWithTickCount(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)
	p, _ := r.AddPlayer("a", 16)

	var gotTick uint64
	var gotPlayers []*Player
	r.OnSnapshot = func(room *Room, tick uint64, players []*Player, hits []HitEvent) {
		gotTick = tick
		gotPlayers = players
	}

	r.tick()

	if gotTick != 1 {
		t.Errorf("expected tick 1 on the first tick, got %d", gotTick)
	}
	if len(gotPlayers) != 1 || gotPlayers[0].ID != p.ID {
		t.Errorf("expected the snapshot to include the one joined player, got %+v", gotPlayers)
	}
}

// TestRoomQueueInputUnknownPlayerIsNoOp verifies queuing input for an unknown
// player id is a silent no-op rather than a panic — the network layer may
// race a disconnect against an in-flight input.
func TestRoomQueueInputUnknownPlayerIsNoOp(t *testing.T) {
	r := NewRoom("room-1", 1, 60, 400)
	r.QueueInput(999, Input{Seq: 1})
	r.tick()
}
