package room

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taranggg/Chillax/internal/models"
)

func hostCount(r *Room) int {
	n := 0
	for _, p := range r.Participants() {
		if p.IsHost {
			n++
		}
	}
	return n
}

func TestNewRoom(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})

	if r.ID() != "R1" {
		t.Errorf("ID() = %q, want %q", r.ID(), "R1")
	}
	if r.HostID() != "c1" {
		t.Errorf("HostID() = %q, want %q", r.HostID(), "c1")
	}
	if r.CreatedAt().IsZero() {
		t.Error("CreatedAt() should not be zero")
	}

	p, ok := r.Participant("c1")
	if !ok {
		t.Fatal("host participant not found")
	}
	if !p.IsHost || !p.IsOnline {
		t.Errorf("host participant = %+v, want isHost=true isOnline=true", p)
	}
	if p.JoinedAt.IsZero() {
		t.Error("JoinedAt should be set on creation")
	}
}

func TestAddParticipant(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})

	r.AddParticipant(models.Participant{ID: "c2", Name: "Bob"})
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	// 同じIDでの追加は上書きであり、エントリは増えない
	r.AddParticipant(models.Participant{ID: "c2", Name: "Bobby"})
	if r.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", r.Len())
	}
	p, _ := r.Participant("c2")
	if p.Name != "Bobby" {
		t.Errorf("overwritten name = %q, want %q", p.Name, "Bobby")
	}
	if p.IsHost {
		t.Error("joining participant must not become host")
	}
	if hostCount(r) != 1 {
		t.Errorf("host count = %d, want 1", hostCount(r))
	}
}

func TestUpdateParticipant(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})

	enabled := true
	if !r.UpdateParticipant("c1", ParticipantUpdate{AudioEnabled: &enabled}) {
		t.Fatal("UpdateParticipant() = false for existing participant")
	}
	p, _ := r.Participant("c1")
	if !p.AudioEnabled {
		t.Error("AudioEnabled not applied")
	}
	if p.VideoEnabled {
		t.Error("VideoEnabled must stay untouched on partial update")
	}

	// 存在しない参加者への更新は何もしない（新規作成しない）
	if r.UpdateParticipant("ghost", ParticipantUpdate{AudioEnabled: &enabled}) {
		t.Error("UpdateParticipant() = true for absent participant")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (update must not create)", r.Len())
	}
}

func TestRemoveAndElect(t *testing.T) {
	tests := []struct {
		name        string
		leave       string
		wantHost    string
		wantEmpty   bool
		wantNewHost bool
	}{
		{name: "non-host leaves, host unchanged", leave: "c2", wantHost: "c1"},
		{name: "host leaves, oldest remaining promoted", leave: "c1", wantHost: "c2", wantNewHost: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("R1", models.Participant{ID: "c1", Name: "Alice"})
			r.AddParticipant(models.Participant{ID: "c2", Name: "Bob"})
			r.AddParticipant(models.Participant{ID: "c3", Name: "Carol"})

			res := r.RemoveAndElect(tt.leave)
			if !res.Removed {
				t.Fatal("Removed = false")
			}
			if res.Empty != tt.wantEmpty {
				t.Errorf("Empty = %v, want %v", res.Empty, tt.wantEmpty)
			}
			if (res.NewHost != nil) != tt.wantNewHost {
				t.Errorf("NewHost = %v, wantNewHost = %v", res.NewHost, tt.wantNewHost)
			}
			if r.HostID() != tt.wantHost {
				t.Errorf("HostID() = %q, want %q", r.HostID(), tt.wantHost)
			}
			if hostCount(r) != 1 {
				t.Errorf("host count = %d, want exactly 1", hostCount(r))
			}
			if len(res.Roster) != 2 {
				t.Errorf("Roster size = %d, want 2", len(res.Roster))
			}
		})
	}
}

func TestRemoveAndElectLastParticipant(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})

	res := r.RemoveAndElect("c1")
	if !res.Removed || !res.Empty {
		t.Errorf("result = %+v, want Removed=true Empty=true", res)
	}
	if res.NewHost != nil {
		t.Error("no host transfer expected for emptied room")
	}

	// 退出の重複は冪等
	res = r.RemoveAndElect("c1")
	if res.Removed {
		t.Error("duplicate removal must be a no-op")
	}
}

func TestAddMessageBound(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})

	const total = 150
	for i := 0; i < total; i++ {
		r.AddMessage(models.Message{
			UserID:   "c1",
			UserName: "Alice",
			Content:  fmt.Sprintf("msg-%d", i),
			Type:     models.MessageTypeUser,
		})
	}

	msgs := r.Messages()
	assert.Len(t, msgs, MaxMessages)

	// 直近100件が挿入順で残ること
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%d", total-MaxMessages+i), m.Content)
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.Timestamp.IsZero())
	}

	// IDは全て一意
	seen := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		assert.False(t, seen[m.ID], "duplicate message id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestUpdatePlayback(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})

	url := "movie.mp4"
	dur := 120.0
	r.UpdatePlayback(PlaybackUpdate{URL: &url, Duration: &dur})

	playing := true
	at := 42.5
	pb := r.UpdatePlayback(PlaybackUpdate{IsPlaying: &playing, CurrentTime: &at})

	// 部分更新は指定フィールドのみ反映される
	assert.Equal(t, "movie.mp4", pb.URL)
	assert.Equal(t, 42.5, pb.CurrentTime)
	assert.True(t, pb.IsPlaying)
	assert.Equal(t, 120.0, pb.Duration)
}

func TestSnapshot(t *testing.T) {
	r := New("R1", models.Participant{ID: "c1", Name: "Alice"})
	r.AddParticipant(models.Participant{ID: "c2", Name: "Bob"})
	r.AddMessage(models.Message{UserID: "c1", UserName: "Alice", Content: "hi", Type: models.MessageTypeUser})

	snap := r.Snapshot()
	assert.Equal(t, "R1", snap.ID)
	assert.Len(t, snap.Participants, 2)
	assert.Len(t, snap.Messages, 1)
}
