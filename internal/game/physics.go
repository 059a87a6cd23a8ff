package game

import "math"

// Physical constants shared by the physics kernel and input-to-velocity
// conversion. These are server-authoritative; a client's local prediction
// must use the identical values to converge with the server.
const (
	TickRate          = 60
	Gravity           = 20.0
	PlayerRadius      = 0.4
	PlayerHeight      = 1.8
	HeadHeight        = 0.3
	MoveSpeed         = 5.0
	SprintMultiplier  = 1.6
	SneakMultiplier   = 0.5
	JumpForce         = 8.0
	MaxPitch          = math.Pi/2 - 0.1
	rayStep           = 0.5
)

// DeltaTime returns the fixed per-tick timestep for the given tick rate.
func DeltaTime(tickRate int) float64 {
	return 1.0 / float64(tickRate)
}

// aabbCollides reports whether a player capsule — approximated as an AABB
// of radius PlayerRadius in XZ and height PlayerHeight in Y, feet at y —
// intersects an obstacle.
func aabbCollides(x, y, z float64, o Obstacle) bool {
	halfW := o.Width / 2
	halfD := o.Depth / 2

	closestX := clampF(x, o.X-halfW, o.X+halfW)
	closestZ := clampF(z, o.Z-halfD, o.Z+halfD)

	dx := x - closestX
	dz := z - closestZ
	distSq := dx*dx + dz*dz
	if distSq >= PlayerRadius*PlayerRadius {
		return false
	}

	return y <= o.Height && y+PlayerHeight >= 0
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StepPlayer advances one player's transform by a single fixed tick of
// gravity plus axis-separated AABB collision resolution, applying gravity
// then resolving X, then Z, then Y against every obstacle in turn. It
// mutates pos/vel in place and returns the resulting grounded flag.
func StepPlayer(pos, vel *Vec3, obstacles []Obstacle, dt float64) (grounded bool) {
	vel.Y -= Gravity * dt

	newX := pos.X + vel.X*dt
	newY := pos.Y + vel.Y*dt
	newZ := pos.Z + vel.Z*dt

	// X axis, holding Z and Y at their pre-step values.
	if collidesAny(newX, pos.Y, pos.Z, obstacles) {
		newX = pos.X
		vel.X = 0
	}

	// Z axis, holding X at its post-X-resolution value and Y at pre-step.
	if collidesAny(newX, pos.Y, newZ, obstacles) {
		newZ = pos.Z
		vel.Z = 0
	}

	// Y axis, using the combined resolved X/Z.
	if newY <= 0 {
		newY = 0
		vel.Y = 0
		grounded = true
	} else if collidesAny(newX, newY, newZ, obstacles) {
		newY = pos.Y
		vel.Y = 0
		grounded = false
	} else {
		grounded = false
	}

	halfBound := MapSize/2 - PlayerRadius
	newX = clampF(newX, -halfBound, halfBound)
	newZ = clampF(newZ, -halfBound, halfBound)

	pos.X, pos.Y, pos.Z = newX, newY, newZ
	return grounded
}

func collidesAny(x, y, z float64, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if aabbCollides(x, y, z, o) {
			return true
		}
	}
	return false
}

// RayObstacleHit marches a ray in rayStep increments up to maxDistance,
// reporting the first step whose sample point lies inside an obstacle (or
// below ground). This coarse march is the contract: shotgun/rifle
// line-of-sight behavior depends on its exact step size.
func RayObstacleHit(origin, dir Vec3, maxDistance float64, obstacles []Obstacle) (hit bool, distance float64) {
	steps := int(maxDistance / rayStep)
	for i := 1; i <= steps; i++ {
		d := float64(i) * rayStep
		p := origin.Add(dir.Scale(d))

		if p.Y < 0 {
			return true, d
		}
		for _, o := range obstacles {
			halfW := o.Width / 2
			halfD := o.Depth / 2
			if p.X >= o.X-halfW && p.X <= o.X+halfW &&
				p.Z >= o.Z-halfD && p.Z <= o.Z+halfD &&
				p.Y >= 0 && p.Y <= o.Height {
				return true, d
			}
		}
	}
	return false, maxDistance
}

// RaySphereHit solves the standard ray-sphere quadratic, returning the
// smaller non-negative root if it is strictly less than maxDistance (a root
// at exactly maxDistance is a miss).
func RaySphereHit(origin, dir Vec3, center Vec3, radius, maxDistance float64) (hit bool, distance float64) {
	oc := Vec3{origin.X - center.X, origin.Y - center.Y, origin.Z - center.Z}

	a := dir.X*dir.X + dir.Y*dir.Y + dir.Z*dir.Z
	b := 2 * (oc.X*dir.X + oc.Y*dir.Y + oc.Z*dir.Z)
	c := oc.X*oc.X + oc.Y*oc.Y + oc.Z*oc.Z - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return false, 0
	}

	sqrtDisc := math.Sqrt(disc)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	root := t1
	if root < 0 {
		root = t2
	}
	if root < 0 || root >= maxDistance {
		return false, 0
	}
	return true, root
}

// MoveIntent is the WASD/jump/sprint/sneak subset of an input record that
// feeds velocity computation.
type MoveIntent struct {
	Forward, Backward, Left, Right bool
	Jump, Sprint, Sneak            bool
	Yaw                            float64
}

// ApplyMoveIntent sets the player's horizontal velocity directly (it is not
// accumulated) from the given intent and yaw, and applies the jump impulse
// if grounded. This is the contract client-side prediction must replay
// identically.
func ApplyMoveIntent(vel *Vec3, intent MoveIntent, grounded bool) bool {
	var dx, dz float64
	if intent.Forward {
		dz++
	}
	if intent.Backward {
		dz--
	}
	if intent.Right {
		dx++
	}
	if intent.Left {
		dx--
	}

	if dx != 0 || dz != 0 {
		length := math.Sqrt(dx*dx + dz*dz)
		dx /= length
		dz /= length
	}

	sin, cos := math.Sin(intent.Yaw), math.Cos(intent.Yaw)
	wx := dx*cos + dz*sin
	wz := -dx*sin + dz*cos

	speed := MoveSpeed
	switch {
	case intent.Sprint:
		speed *= SprintMultiplier
	case intent.Sneak:
		speed *= SneakMultiplier
	}

	vel.X = wx * speed
	vel.Z = wz * speed

	if intent.Jump && grounded {
		vel.Y = JumpForce
		return false
	}
	return grounded
}

// ClampPitch clamps a pitch value to the |pitch| <= pi/2 - 0.1 contract.
func ClampPitch(pitch float64) float64 {
	return clampF(pitch, -MaxPitch, MaxPitch)
}
