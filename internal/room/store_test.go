package room

import (
	"errors"
	"testing"

	"github.com/taranggg/Chillax/internal/models"
)

func TestMemoryStoreCreate(t *testing.T) {
	s := NewMemoryStore()

	r, err := s.Create("R1", models.Participant{ID: "c1", Name: "Alice"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if r.ID() != "R1" {
		t.Errorf("room ID = %q, want %q", r.ID(), "R1")
	}

	// 同じIDでの作成は失敗し、既存ルームには影響しない
	if _, err := s.Create("R1", models.Participant{ID: "c2", Name: "Bob"}); !errors.Is(err, ErrRoomExists) {
		t.Fatalf("duplicate Create() error = %v, want ErrRoomExists", err)
	}
	got, ok := s.Get("R1")
	if !ok {
		t.Fatal("original room disappeared after failed create")
	}
	if got.HostID() != "c1" {
		t.Errorf("original host = %q, want %q", got.HostID(), "c1")
	}
	if got.Len() != 1 {
		t.Errorf("original room Len() = %d, want 1", got.Len())
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get("nope"); ok {
		t.Error("Get() = ok for missing room")
	}
	if s.Exists("nope") {
		t.Error("Exists() = true for missing room")
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Create("R1", models.Participant{ID: "c1"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	s.Delete("R1")
	if s.Exists("R1") {
		t.Error("room still exists after Delete()")
	}
	// 2回目の削除もエラーなく通る
	s.Delete("R1")
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Create("R1", models.Participant{ID: "c1"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	r2, err := s.Create("R2", models.Participant{ID: "c2"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	r2.AddParticipant(models.Participant{ID: "c3"})

	summaries := s.List()
	if len(summaries) != 2 {
		t.Fatalf("List() size = %d, want 2", len(summaries))
	}
	counts := make(map[string]int, len(summaries))
	for _, sum := range summaries {
		counts[sum.ID] = sum.ParticipantCount
		if sum.CreatedAt.IsZero() {
			t.Errorf("room %s: CreatedAt should not be zero", sum.ID)
		}
	}
	if counts["R1"] != 1 || counts["R2"] != 2 {
		t.Errorf("participant counts = %v, want R1:1 R2:2", counts)
	}
}
