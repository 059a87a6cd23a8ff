package game

import (
	"math"
	"math/rand"
)

// KillInfo records a death caused by a validated hit, for the room to
// forward to the active mode policy.
type KillInfo struct {
	Killer   *Player
	Victim   *Player
	Headshot bool
}

// HitValidator performs fire-rate gating, lag-compensated rewind, and
// ray-based hit testing for a single shoot input. One instance is owned by
// each room; its PRNG drives only the non-deterministic shotgun-style
// spread perturbation (fixed-seed in tests for reproducibility).
type HitValidator struct {
	rng *rand.Rand
}

// NewHitValidator constructs a validator using the given PRNG source.
func NewHitValidator(rng *rand.Rand) *HitValidator {
	return &HitValidator{rng: rng}
}

// ProcessShot runs the full shoot-input pipeline: fire-rate gate,
// rewind-time clamp, per-bullet ray cast against every other alive
// player's rewound position, and obstacle line-of-sight. It mutates target
// health directly and returns the hit events plus any resulting deaths.
func (v *HitValidator) ProcessShot(shooter *Player, in Input, nowMs float64, targets []*Player, obstacles []Obstacle, maxLagCompensationMs float64) (events []HitEvent, kills []KillInfo) {
	weapon := GetWeapon(shooter.Weapon)

	if nowMs-shooter.LastShootTime < weapon.FireRateMs {
		return nil, nil
	}
	shooter.LastShootTime = nowMs

	rewindT := clampF(in.Timestamp, nowMs-maxLagCompensationMs, nowMs)

	origin := shooter.EyePosition()
	baseDir := Vec3{
		X: math.Sin(shooter.Yaw) * math.Cos(shooter.Pitch),
		Y: -math.Sin(shooter.Pitch),
		Z: math.Cos(shooter.Yaw) * math.Cos(shooter.Pitch),
	}

	for b := 0; b < weapon.BulletCount; b++ {
		direction := baseDir
		if weapon.Spread > 0 {
			direction = Vec3{
				X: baseDir.X + (v.rng.Float64()-0.5)*weapon.Spread,
				Y: baseDir.Y + (v.rng.Float64()-0.5)*weapon.Spread,
				Z: baseDir.Z + (v.rng.Float64()-0.5)*weapon.Spread,
			}
			if direction.Length() == 0 {
				// Degenerate geometry: treat as a miss rather than divide by zero.
				continue
			}
			direction = direction.Normalize()
		}

		nearestDist := math.Inf(1)
		var nearestTarget *Player
		nearestHeadshot := false

		for _, target := range targets {
			if target == shooter || target.IsDead {
				continue
			}
			pos, ok := target.History.Query(rewindT)
			if !ok {
				continue // History miss: shot misses this target silently.
			}

			if hit, d := RaySphereHit(origin, direction, HeadCenter(pos), HeadHeight, weapon.Range); hit {
				if d < nearestDist {
					nearestDist = d
					nearestTarget = target
					nearestHeadshot = true
				}
				continue
			}
			if hit, d := RaySphereHit(origin, direction, BodyCenter(pos), PlayerRadius*1.5, weapon.Range); hit {
				if d < nearestDist {
					nearestDist = d
					nearestTarget = target
					nearestHeadshot = false
				}
			}
		}

		if nearestTarget == nil {
			continue
		}

		if blocked, _ := RayObstacleHit(origin, direction, nearestDist, obstacles); blocked {
			continue
		}

		damage := weapon.Damage
		if nearestHeadshot {
			damage *= 2
		}

		lethal := nearestTarget.TakeDamage(damage)
		events = append(events, HitEvent{
			ShooterID: shooter.ID,
			TargetID:  nearestTarget.ID,
			Damage:    damage,
			Headshot:  nearestHeadshot,
		})

		if lethal {
			nearestTarget.IsDead = true
			nearestTarget.Deaths++
			kills = append(kills, KillInfo{Killer: shooter, Victim: nearestTarget, Headshot: nearestHeadshot})
		}
	}

	return events, kills
}
