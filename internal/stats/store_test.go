package stats

import "testing"

// TestCreateUserRejectsDuplicateName verifies CreateUser refuses a name
// that is already registered.
func TestCreateUserRejectsDuplicateName(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.CreateUser("ace"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CreateUser("ace"); err != ErrUserExists {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

// TestGetUserUnknownReturnsNotFound verifies GetUser reports
// ErrUserNotFound for an id that was never created.
func TestGetUserUnknownReturnsNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetUser("nope"); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// TestUpdateStatsAccumulates verifies repeated UpdateStats calls add to,
// rather than replace, the running kill/death totals.
func TestUpdateStatsAccumulates(t *testing.T) {
	s := NewMemoryStore()
	u, _ := s.CreateUser("ace")

	if err := s.UpdateStats(u.ID, 3, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpdateStats(u.ID, 2, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetUser(u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kills != 5 || got.Deaths != 1 {
		t.Errorf("expected kills=5 deaths=1, got kills=%d deaths=%d", got.Kills, got.Deaths)
	}
}

// TestGetLeaderboardOrdersByScoreDescending verifies the leaderboard ranks
// highest score first, where score = kills*100 - deaths*10.
func TestGetLeaderboardOrdersByScoreDescending(t *testing.T) {
	s := NewMemoryStore()

	low, _ := s.CreateUser("low")
	high, _ := s.CreateUser("high")
	mid, _ := s.CreateUser("mid")

	_ = s.UpdateStats(low.ID, 1, 5)  // 100 - 50 = 50
	_ = s.UpdateStats(high.ID, 10, 0) // 1000
	_ = s.UpdateStats(mid.ID, 3, 1)  // 300 - 10 = 290

	board, err := s.GetLeaderboard(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}

	wantOrder := []string{"high", "mid", "low"}
	for i, name := range wantOrder {
		if board[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, board[i].Name)
		}
		if board[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, board[i].Rank)
		}
	}
}

// TestGetLeaderboardRespectsLimit verifies only the top `limit` entries are
// returned.
func TestGetLeaderboardRespectsLimit(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		u, _ := s.CreateUser(string(rune('a' + i)))
		_ = s.UpdateStats(u.ID, i, 0)
	}

	board, err := s.GetLeaderboard(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board) != 2 {
		t.Errorf("expected 2 entries given limit=2, got %d", len(board))
	}
}
