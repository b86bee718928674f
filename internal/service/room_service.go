// Package service はルーム調整のビジネスロジックを担当します
// イベントの前提条件チェック（ルームの存在・ホスト権限）と集約の更新をここで行い、
// 誰に何を配信するかはハンドラー側が決めます
package service

import (
	"context"
	"errors"

	"github.com/taranggg/Chillax/internal/idgen"
	"github.com/taranggg/Chillax/internal/models"
	"github.com/taranggg/Chillax/internal/room"
)

// RoomService はルーム管理のビジネスロジックを提供します
type RoomService struct {
	store room.Store  // ルームの保管先（注入されたインメモリストア）
	idg   IDGenerator // ルームID生成器
}

// IDGenerator はユニークなIDを生成するインターフェース
type IDGenerator interface {
	New() (string, error) // 新しいIDを生成
}

// roomIDGen はIDGeneratorの実装
type roomIDGen struct{}

// New は新しいルームIDを生成します
func (roomIDGen) New() (string, error) { return idgen.NewRoomID() }

// NewRoomIDGenerator は新しいRoomIDGeneratorを作成します
func NewRoomIDGenerator() IDGenerator {
	return roomIDGen{}
}

// NewRoomService は新しいRoomServiceを作成します
func NewRoomService(store room.Store, idg IDGenerator) *RoomService {
	return &RoomService{store: store, idg: idg}
}

// Create は新しいルームを作成し、作成者をホストとして入室させます
// roomIDが空の場合はIDを生成します（重複チェック付き、最大10回リトライ）
// 指定されたIDが既に使われている場合はErrRoomAlreadyExistsを返します
func (s *RoomService) Create(ctx context.Context, roomID string, host models.Participant) (*room.Room, error) {
	const maxRetries = 10 // ID生成の最大リトライ回数

	if roomID == "" {
		for i := 0; i < maxRetries; i++ {
			id, err := s.idg.New()
			if err != nil {
				return nil, err
			}
			if !s.store.Exists(id) {
				roomID = id
				break
			}
			if i == maxRetries-1 {
				return nil, ErrRoomIDGenerationFailed
			}
		}
	}

	r, err := s.store.Create(roomID, host)
	if err != nil {
		if errors.Is(err, room.ErrRoomExists) {
			return nil, ErrRoomAlreadyExists
		}
		return nil, err
	}
	return r, nil
}

// Join は参加者をルームに入室させます
// 格納された参加者（joinedAt等を設定済み）を返します
func (s *RoomService) Join(ctx context.Context, roomID string, p models.Participant) (*room.Room, models.Participant, error) {
	r, ok := s.store.Get(roomID)
	if !ok {
		return nil, models.Participant{}, ErrRoomNotFound
	}
	stored := r.AddParticipant(p)
	return r, stored, nil
}

// Leave は参加者をルームから退出させます
// 退出後にルームが空になった場合はルームごと削除します
// 退出したのがホストだった場合は参加順で次の参加者にホストを引き継ぎます
func (s *RoomService) Leave(ctx context.Context, roomID, userID string) (room.LeaveResult, error) {
	r, ok := s.store.Get(roomID)
	if !ok {
		return room.LeaveResult{}, ErrRoomNotFound
	}
	res := r.RemoveAndElect(userID)
	if res.Removed && res.Empty {
		s.store.Delete(roomID)
	}
	return res, nil
}

// Get はルームを取得します
func (s *RoomService) Get(ctx context.Context, roomID string) (*room.Room, bool) {
	return s.store.Get(roomID)
}

// ListRooms は全ルームの概要一覧を返します
func (s *RoomService) ListRooms(ctx context.Context) []models.RoomSummary {
	return s.store.List()
}

// UpdatePlayback は再生状態を部分更新し、更新後の状態を返します
func (s *RoomService) UpdatePlayback(ctx context.Context, roomID string, update room.PlaybackUpdate) (models.PlaybackState, error) {
	r, ok := s.store.Get(roomID)
	if !ok {
		return models.PlaybackState{}, ErrRoomNotFound
	}
	return r.UpdatePlayback(update), nil
}

// ChangeVideoURL は動画URLを変更します（ホストのみ実行可能）
// URLを差し替え、再生位置を0に戻し、一時停止状態にします
// ホスト以外からの要求はErrNotHostを返し、状態には触れません
func (s *RoomService) ChangeVideoURL(ctx context.Context, roomID, userID, url string) (models.PlaybackState, error) {
	r, ok := s.store.Get(roomID)
	if !ok {
		return models.PlaybackState{}, ErrRoomNotFound
	}
	if !r.IsHost(userID) {
		return models.PlaybackState{}, ErrNotHost
	}
	zero := 0.0
	paused := false
	return r.UpdatePlayback(room.PlaybackUpdate{
		URL:         &url,
		CurrentTime: &zero,
		IsPlaying:   &paused,
	}), nil
}

// AppendMessage はメッセージをルームのログに追記します
// IDとタイムスタンプを付与した格納後のメッセージを返します
func (s *RoomService) AppendMessage(ctx context.Context, roomID string, msg models.Message) (models.Message, error) {
	r, ok := s.store.Get(roomID)
	if !ok {
		return models.Message{}, ErrRoomNotFound
	}
	return r.AddMessage(msg), nil
}

// UpdateMediaStatus はマイク・カメラの状態をまとめて更新します
func (s *RoomService) UpdateMediaStatus(ctx context.Context, roomID, userID string, audioEnabled, videoEnabled bool) error {
	r, ok := s.store.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	online := true
	if !r.UpdateParticipant(userID, room.ParticipantUpdate{
		AudioEnabled: &audioEnabled,
		VideoEnabled: &videoEnabled,
		IsOnline:     &online,
	}) {
		return ErrParticipantNotFound
	}
	return nil
}

// SetAudioEnabled はマイクの状態を更新します
func (s *RoomService) SetAudioEnabled(ctx context.Context, roomID, userID string, enabled bool) error {
	return s.updateFlag(roomID, userID, room.ParticipantUpdate{AudioEnabled: &enabled})
}

// SetVideoEnabled はカメラの状態を更新します
func (s *RoomService) SetVideoEnabled(ctx context.Context, roomID, userID string, enabled bool) error {
	return s.updateFlag(roomID, userID, room.ParticipantUpdate{VideoEnabled: &enabled})
}

func (s *RoomService) updateFlag(roomID, userID string, update room.ParticipantUpdate) error {
	r, ok := s.store.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	if !r.UpdateParticipant(userID, update) {
		return ErrParticipantNotFound
	}
	return nil
}
