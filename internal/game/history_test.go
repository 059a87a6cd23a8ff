package game

import "testing"

// TestHistoryBound verifies size never exceeds capacity and head always
// stays within the valid index range, even after wrapping many times over.
func TestHistoryBound(t *testing.T) {
	var h History

	for i := 0; i < HistoryCapacity*3; i++ {
		h.Write(Vec3{X: float64(i)}, float64(i))

		if h.Size() > HistoryCapacity {
			t.Fatalf("size %d exceeded capacity %d at write %d", h.Size(), HistoryCapacity, i)
		}
		if h.Head() < 0 || h.Head() >= HistoryCapacity {
			t.Fatalf("head %d out of range [0,%d) at write %d", h.Head(), HistoryCapacity, i)
		}
	}

	if h.Size() != HistoryCapacity {
		t.Errorf("expected size to saturate at %d, got %d", HistoryCapacity, h.Size())
	}
}

// TestHistoryMonotonicity verifies that after every write, walking backward
// from head-1 yields strictly non-increasing timestamps.
func TestHistoryMonotonicity(t *testing.T) {
	var h History

	for i := 0; i < HistoryCapacity+50; i++ {
		h.Write(Vec3{}, float64(i)*10)

		idx := (h.Head() - 1 + HistoryCapacity) % HistoryCapacity
		last := h.timestamp[idx]
		for n := 1; n < h.Size(); n++ {
			idx = (idx - 1 + HistoryCapacity) % HistoryCapacity
			if h.timestamp[idx] > last {
				t.Fatalf("timestamps not non-increasing walking backward at write %d", i)
			}
			last = h.timestamp[idx]
		}
	}
}

// TestHistoryQueryNewest verifies querying at or after the newest sample
// returns that sample verbatim.
func TestHistoryQueryNewest(t *testing.T) {
	var h History
	h.Write(Vec3{X: 1}, 100)
	h.Write(Vec3{X: 2}, 200)

	pos, ok := h.Query(500)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if pos.X != 2 {
		t.Errorf("expected newest sample X=2, got %v", pos.X)
	}
}

// TestHistoryQueryOldestClamp verifies a query older than every sample
// clamps to the oldest one rather than extrapolating.
func TestHistoryQueryOldestClamp(t *testing.T) {
	var h History
	h.Write(Vec3{X: 1}, 100)
	h.Write(Vec3{X: 2}, 200)

	pos, ok := h.Query(0)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if pos.X != 1 {
		t.Errorf("expected oldest sample X=1, got %v", pos.X)
	}
}

// TestHistoryQueryInterpolates verifies a query between two bracketing
// samples linearly interpolates.
func TestHistoryQueryInterpolates(t *testing.T) {
	var h History
	h.Write(Vec3{X: 0}, 0)
	h.Write(Vec3{X: 10}, 100)

	pos, ok := h.Query(50)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if pos.X != 5 {
		t.Errorf("expected interpolated X=5 at the midpoint, got %v", pos.X)
	}
}

// TestHistoryQueryEmpty verifies querying an empty ring reports not ok.
func TestHistoryQueryEmpty(t *testing.T) {
	var h History
	if _, ok := h.Query(100); ok {
		t.Error("expected ok=false on an empty history")
	}
}

// TestHistoryClear verifies Clear resets size and head, discarding samples.
func TestHistoryClear(t *testing.T) {
	var h History
	h.Write(Vec3{X: 1}, 10)
	h.Write(Vec3{X: 2}, 20)

	h.Clear()

	if h.Size() != 0 {
		t.Errorf("expected size 0 after Clear, got %d", h.Size())
	}
	if h.Head() != 0 {
		t.Errorf("expected head 0 after Clear, got %d", h.Head())
	}
	if _, ok := h.Query(100); ok {
		t.Error("expected Query to report not-ok immediately after Clear")
	}
}
