package room

import (
	"errors"
	"sync"

	"github.com/taranggg/Chillax/internal/models"
)

// ErrRoomExists は既に存在するルームIDで作成しようとした場合のエラー
var ErrRoomExists = errors.New("room already exists")

// Store はルームの生成・取得・削除を担当します
// 生成したRoomの所有権はStoreにあり、削除後の参照は保持しない前提です
type Store interface {
	Create(id string, host models.Participant) (*Room, error)
	Get(id string) (*Room, bool)
	Exists(id string) bool
	Delete(id string)
	List() []models.RoomSummary
}

// MemoryStore はStoreのインメモリ実装です
// ルームの状態はこのプロセスが唯一の正であり、再起動で消えます
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

// Create は新しいルームを作成します
// 既に同じIDのルームがある場合はErrRoomExistsを返し、既存ルームには触れません
func (s *MemoryStore) Create(id string, host models.Participant) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[id]; exists {
		return nil, ErrRoomExists
	}
	r := New(id, host)
	s.rooms[id] = r
	return r, nil
}

func (s *MemoryStore) Get(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *MemoryStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok
}

// Delete はルームを削除します（冪等）
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// List は全ルームの概要一覧を返します
func (s *MemoryStore) List() []models.RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RoomSummary, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r.Summary())
	}
	return out
}
