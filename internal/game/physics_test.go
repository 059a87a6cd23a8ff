package game

import (
	"math"
	"testing"
)

// TestStepPlayerGravity verifies gravity accumulates downward velocity when
// no obstacle or ground is in the way.
func TestStepPlayerGravity(t *testing.T) {
	pos := Vec3{X: 0, Y: 10, Z: 0}
	vel := Vec3{}
	dt := DeltaTime(TickRate)

	grounded := StepPlayer(&pos, &vel, nil, dt)

	if grounded {
		t.Error("expected not grounded while falling in open air")
	}
	if vel.Y >= 0 {
		t.Errorf("expected downward velocity after one tick, got %v", vel.Y)
	}
}

// TestStepPlayerGroundsAtZero verifies a falling player stops exactly at
// y=0 and is reported grounded.
func TestStepPlayerGroundsAtZero(t *testing.T) {
	pos := Vec3{X: 0, Y: 0.01, Z: 0}
	vel := Vec3{Y: -5}
	dt := DeltaTime(TickRate)

	grounded := StepPlayer(&pos, &vel, nil, dt)

	if !grounded {
		t.Error("expected grounded once y drops to or below 0")
	}
	if pos.Y != 0 {
		t.Errorf("expected y clamped to 0, got %v", pos.Y)
	}
	if vel.Y != 0 {
		t.Errorf("expected vertical velocity zeroed on landing, got %v", vel.Y)
	}
}

// TestStepPlayerBoundaryClamp verifies a player at the map edge is kept
// inside [-halfMap+radius, halfMap-radius] after a resolve step, per the
// documented boundary behavior.
func TestStepPlayerBoundaryClamp(t *testing.T) {
	half := MapSize / 2.0
	pos := Vec3{X: half, Y: 0, Z: half}
	vel := Vec3{X: 10, Z: 10}
	dt := DeltaTime(TickRate)

	StepPlayer(&pos, &vel, nil, dt)

	bound := half - PlayerRadius
	if pos.X < -bound-1e-9 || pos.X > bound+1e-9 {
		t.Errorf("x=%v escaped bound %v", pos.X, bound)
	}
	if pos.Z < -bound-1e-9 || pos.Z > bound+1e-9 {
		t.Errorf("z=%v escaped bound %v", pos.Z, bound)
	}
}

// TestApplyMoveIntentJumpRequiresGrounded verifies jumping while not
// grounded leaves vertical velocity unchanged.
func TestApplyMoveIntentJumpRequiresGrounded(t *testing.T) {
	vel := Vec3{Y: -3}
	intent := MoveIntent{Jump: true}

	grounded := ApplyMoveIntent(&vel, intent, false)

	if grounded {
		t.Error("expected grounded to remain false when ungrounded jump is requested")
	}
	if vel.Y != -3 {
		t.Errorf("expected vel.Y unchanged at -3, got %v", vel.Y)
	}
}

// TestApplyMoveIntentJumpFromGround verifies a grounded jump applies the
// jump impulse and reports no-longer-grounded.
func TestApplyMoveIntentJumpFromGround(t *testing.T) {
	vel := Vec3{}
	intent := MoveIntent{Jump: true}

	grounded := ApplyMoveIntent(&vel, intent, true)

	if grounded {
		t.Error("expected grounded to flip false after a jump impulse")
	}
	if vel.Y != JumpForce {
		t.Errorf("expected vel.Y = %v, got %v", JumpForce, vel.Y)
	}
}

// TestClampPitchBounds verifies pitch is clamped symmetrically to MaxPitch.
func TestClampPitchBounds(t *testing.T) {
	if got := ClampPitch(10); got != MaxPitch {
		t.Errorf("expected clamp to %v, got %v", MaxPitch, got)
	}
	if got := ClampPitch(-10); got != -MaxPitch {
		t.Errorf("expected clamp to %v, got %v", -MaxPitch, got)
	}
}

// TestRaySphereHitExactRangeMisses verifies a shot at exactly weapon.range
// misses, since the range check is an open interval.
func TestRaySphereHitExactRangeMisses(t *testing.T) {
	origin := Vec3{0, 0, 0}
	dir := Vec3{0, 0, 1}
	center := Vec3{0, 0, 100.5} // sphere center sits just past `maxDistance`
	radius := 0.5
	maxDistance := 100.0

	hit, _ := RaySphereHit(origin, dir, center, radius, maxDistance)
	if hit {
		t.Error("expected a shot resolving at exactly weapon.range to miss")
	}
}

// TestRayObstacleHitReportsNearestStep verifies the ray march returns the
// first obstructed sample, not the obstacle's far face.
func TestRayObstacleHitReportsNearestStep(t *testing.T) {
	obstacles := []Obstacle{{X: 0, Z: 5, Width: 4, Height: 5, Depth: 1}}
	origin := Vec3{0, 1, 0}
	dir := Vec3{0, 0, 1}

	hit, dist := RayObstacleHit(origin, dir, 20, obstacles)
	if !hit {
		t.Fatal("expected ray to hit the obstacle")
	}
	if math.Abs(dist-4.5) > rayStep {
		t.Errorf("expected hit distance near 4.5, got %v", dist)
	}
}
