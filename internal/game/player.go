package game

// MaxHealth is the maximum (and spawn) health value for every player.
const MaxHealth = 100

// Input flag bit positions, LSB first — the exact layout the wire codec's
// INPUT message flags byte uses.
const (
	FlagForward = 1 << iota
	FlagBackward
	FlagLeft
	FlagRight
	FlagJump
	FlagSprint
	FlagSneak
	FlagShoot
)

// Input is one decoded client input record.
type Input struct {
	Seq       uint32
	Flags     uint8
	Weapon    uint8
	Yaw       float32
	Pitch     float32
	Timestamp float64 // Client wall-clock milliseconds
}

func (in Input) has(flag uint8) bool { return in.Flags&flag != 0 }

// Forward reports whether the forward movement bit is set.
func (in Input) Forward() bool { return in.has(FlagForward) }

// Backward reports whether the backward movement bit is set.
func (in Input) Backward() bool { return in.has(FlagBackward) }

// Left reports whether the strafe-left bit is set.
func (in Input) Left() bool { return in.has(FlagLeft) }

// Right reports whether the strafe-right bit is set.
func (in Input) Right() bool { return in.has(FlagRight) }

// Jump reports whether the jump bit is set.
func (in Input) Jump() bool { return in.has(FlagJump) }

// Sprint reports whether the sprint bit is set.
func (in Input) Sprint() bool { return in.has(FlagSprint) }

// Sneak reports whether the sneak bit is set.
func (in Input) Sneak() bool { return in.has(FlagSneak) }

// Shoot reports whether the shoot bit is set.
func (in Input) Shoot() bool { return in.has(FlagShoot) }

// HitEvent records one bullet's successful strike, emitted once per hit
// inside the tick it occurred.
type HitEvent struct {
	ShooterID uint16
	TargetID  uint16
	Damage    uint8
	Headshot  bool
}

// Player is a single room participant: transform, combat state, stats, the
// per-connection input queue, and the lag-compensation history ring. A
// room owns its players exclusively; nothing outside the room touches one.
type Player struct {
	ID   uint16
	Name string

	Position Vec3
	Velocity Vec3
	Yaw      float64
	Pitch    float64

	Health        uint8
	IsDead        bool
	RespawnTime   float64 // Wall-clock ms; 0 = not scheduled
	Weapon        uint8
	IsShooting    bool
	LastShootTime float64

	Score  int
	Kills  int
	Deaths int

	PendingInputs      []Input
	LastProcessedInput uint32

	Grounded bool

	History History
}

// NewPlayer constructs a player with default health and an empty input
// queue, ready to be placed at a spawn point by the room's mode policy.
func NewPlayer(id uint16, name string) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Health: MaxHealth,
	}
}

// QueueInput appends an input record to this player's FIFO. The network
// layer is the sole producer; the tick driver is the sole consumer.
func (p *Player) QueueInput(in Input) {
	p.PendingInputs = append(p.PendingInputs, in)
}

// DrainInputs removes and returns all currently queued inputs, in the order
// they were received (FIFO, no reordering).
func (p *Player) DrainInputs() []Input {
	if len(p.PendingInputs) == 0 {
		return nil
	}
	drained := p.PendingInputs
	p.PendingInputs = nil
	return drained
}

// ApplyInput advances this player's transform by one input record, using
// the shared physics kernel, and updates the grounded flag and orientation.
func (p *Player) ApplyInput(in Input, obstacles []Obstacle, dt float64) {
	p.Yaw = float64(in.Yaw)
	p.Pitch = ClampPitch(float64(in.Pitch))

	intent := MoveIntent{
		Forward: in.Forward(), Backward: in.Backward(),
		Left: in.Left(), Right: in.Right(),
		Jump: in.Jump(), Sprint: in.Sprint(), Sneak: in.Sneak(),
		Yaw: p.Yaw,
	}
	p.Grounded = ApplyMoveIntent(&p.Velocity, intent, p.Grounded)
	p.Grounded = StepPlayer(&p.Position, &p.Velocity, obstacles, dt)

	p.Weapon = in.Weapon
	p.IsShooting = in.Shoot()
}

// RecordHistory appends the player's current position to its history ring
// — called once per tick, after all of that player's inputs are applied.
func (p *Player) RecordHistory(nowMs float64) {
	p.History.Write(p.Position, nowMs)
}

// TakeDamage applies damage and reports whether it was lethal.
func (p *Player) TakeDamage(damage uint8) (lethal bool) {
	if int(damage) >= int(p.Health) {
		p.Health = 0
		return true
	}
	p.Health -= damage
	return false
}

// Respawn resets a player to full health at the given point and clears
// death/respawn scheduling and the history ring.
func (p *Player) Respawn(at Vec3) {
	p.Position = at
	p.Velocity = Vec3{}
	p.Health = MaxHealth
	p.IsDead = false
	p.RespawnTime = 0
	p.Grounded = false
	p.History.Clear()
}

// EyePosition returns the shooter's ray origin (eye height).
func (p *Player) EyePosition() Vec3 {
	return Vec3{p.Position.X, p.Position.Y + PlayerHeight - 0.2, p.Position.Z}
}

// HeadCenter returns the head hitbox sphere center for a position sampled
// from history (or the live position).
func HeadCenter(pos Vec3) Vec3 {
	return Vec3{pos.X, pos.Y + PlayerHeight - HeadHeight, pos.Z}
}

// BodyCenter returns the body hitbox sphere center for a position sampled
// from history (or the live position).
func BodyCenter(pos Vec3) Vec3 {
	return Vec3{pos.X, pos.Y + PlayerHeight/2, pos.Z}
}
