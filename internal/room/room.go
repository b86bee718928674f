// Package room はセッション（ルーム）の状態を管理します
// 参加者名簿・共有再生状態・直近メッセージログ・ホスト権限を1つの集約として扱い、
// 同一ルームへの変更はルーム内部のロックで直列化します
package room

import (
	"sync"
	"time"

	"github.com/taranggg/Chillax/internal/idgen"
	"github.com/taranggg/Chillax/internal/models"
)

// MaxMessages はルームが保持するメッセージ数の上限
// 上限を超えた分は古いものから破棄されます
const MaxMessages = 100

// Room は1つのルームの状態機械です
// ルームが空でない限り、常にちょうど1人の参加者が isHost=true を持ちます
type Room struct {
	id        string
	createdAt time.Time

	mu           sync.RWMutex
	hostID       string
	participants map[string]models.Participant
	order        []string // 参加順（ホスト引き継ぎ先の決定に使用）
	playback     models.PlaybackState
	messages     []models.Message
}

// ParticipantUpdate は参加者への部分更新を表します
// nilのフィールドは変更しません
type ParticipantUpdate struct {
	Name         *string
	IsOnline     *bool
	AudioEnabled *bool
	VideoEnabled *bool
}

// PlaybackUpdate は再生状態への部分更新を表します
// nilのフィールドは変更しません
// 並行する更新はlast-writer-winsで適用されます（シーケンス番号による順序保証はありません）
type PlaybackUpdate struct {
	URL         *string
	CurrentTime *float64
	IsPlaying   *bool
	Duration    *float64
}

// LeaveResult は参加者の退出処理の結果です
type LeaveResult struct {
	Removed bool                 // 実際に参加者が削除されたか
	WasHost bool                 // 退出したのがホストだったか
	Empty   bool                 // 退出後にルームが空になったか
	NewHost *models.Participant  // ホスト引き継ぎが発生した場合の新ホスト
	Roster  []models.Participant // 退出後の参加者一覧
}

// New は最初の参加者をホストとして新しいルームを作成します
func New(id string, host models.Participant) *Room {
	r := &Room{
		id:           id,
		createdAt:    time.Now(),
		participants: make(map[string]models.Participant),
	}
	host.IsHost = true
	host.IsOnline = true
	host.JoinedAt = time.Now()
	r.participants[host.ID] = host
	r.order = append(r.order, host.ID)
	r.hostID = host.ID
	return r
}

func (r *Room) ID() string           { return r.id }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// HostID は現在のホストの接続IDを返します
func (r *Room) HostID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostID
}

// IsHost は指定した参加者がホストかどうかを返します
func (r *Room) IsHost(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostID == id
}

// AddParticipant は参加者を追加します（同一IDは上書き）
// joinedAtとオンライン状態はここで設定し、格納した値を返します
func (r *Room) AddParticipant(p models.Participant) models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.JoinedAt = time.Now()
	p.IsOnline = true
	if _, exists := r.participants[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.participants[p.ID] = p
	if p.IsHost {
		r.hostID = p.ID
	}
	return p
}

// UpdateParticipant は参加者の状態を部分更新します
// 参加者が存在しない場合は何もしません（新規作成はしません）
func (r *Room) UpdateParticipant(id string, update ParticipantUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return false
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.IsOnline != nil {
		p.IsOnline = *update.IsOnline
	}
	if update.AudioEnabled != nil {
		p.AudioEnabled = *update.AudioEnabled
	}
	if update.VideoEnabled != nil {
		p.VideoEnabled = *update.VideoEnabled
	}
	r.participants[id] = p
	return true
}

// RemoveAndElect は参加者を削除し、必要ならホストを引き継ぎます
// 退出したのがホストでルームに参加者が残っている場合、
// 参加順で最も古い参加者を新ホストに昇格させます
// 削除・昇格・名簿の取得を1回のロックで行うため、ホスト不在の瞬間は観測されません
func (r *Room) RemoveAndElect(id string) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[id]; !ok {
		return LeaveResult{Roster: r.participantsLocked()}
	}

	delete(r.participants, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	res := LeaveResult{
		Removed: true,
		WasHost: r.hostID == id,
		Empty:   len(r.participants) == 0,
	}
	if res.Empty {
		r.hostID = ""
	} else if res.WasHost {
		next := r.order[0]
		np := r.participants[next]
		np.IsHost = true
		r.participants[next] = np
		r.hostID = next
		res.NewHost = &np
	}
	res.Roster = r.participantsLocked()
	return res
}

// Participant は指定した参加者の現在の状態を返します
func (r *Room) Participant(id string) (models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	return p, ok
}

// Participants は現在の参加者一覧のスナップショットを返します
func (r *Room) Participants() []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participantsLocked()
}

// Len は現在の参加者数を返します
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// AddMessage はメッセージにIDとタイムスタンプを付与して追記します
// ログがMaxMessagesを超えた場合は古いものから破棄します
func (r *Room) AddMessage(msg models.Message) models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = idgen.NewULID()
	msg.Timestamp = time.Now()
	r.messages = append(r.messages, msg)
	if len(r.messages) > MaxMessages {
		trimmed := make([]models.Message, MaxMessages)
		copy(trimmed, r.messages[len(r.messages)-MaxMessages:])
		r.messages = trimmed
	}
	return msg
}

// Messages は現在のメッセージログのコピーを挿入順で返します
func (r *Room) Messages() []models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// UpdatePlayback は再生状態を部分更新し、更新後の状態を返します
// currentTimeの範囲チェックは行いません（送信側を信頼します）
func (r *Room) UpdatePlayback(update PlaybackUpdate) models.PlaybackState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if update.URL != nil {
		r.playback.URL = *update.URL
	}
	if update.CurrentTime != nil {
		r.playback.CurrentTime = *update.CurrentTime
	}
	if update.IsPlaying != nil {
		r.playback.IsPlaying = *update.IsPlaying
	}
	if update.Duration != nil {
		r.playback.Duration = *update.Duration
	}
	return r.playback
}

// Playback は現在の再生状態を返します
func (r *Room) Playback() models.PlaybackState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playback
}

// Snapshot は参加者への応答に使うルームの完全なスナップショットを返します
func (r *Room) Snapshot() models.RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := make([]models.Message, len(r.messages))
	copy(msgs, r.messages)
	return models.RoomSnapshot{
		ID:           r.id,
		Participants: r.participantsLocked(),
		CurrentVideo: r.playback,
		Messages:     msgs,
	}
}

// Summary はルーム一覧用の概要を返します
func (r *Room) Summary() models.RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.RoomSummary{
		ID:               r.id,
		ParticipantCount: len(r.participants),
		CreatedAt:        r.createdAt,
	}
}

// Detail はルーム個別取得用の情報を返します
func (r *Room) Detail() models.RoomDetail {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.RoomDetail{
		ID:               r.id,
		ParticipantCount: len(r.participants),
		CurrentVideo:     r.playback,
		CreatedAt:        r.createdAt,
	}
}

// participantsLocked は参加順の参加者一覧を返します（呼び出し側でロック必須）
func (r *Room) participantsLocked() []models.Participant {
	out := make([]models.Participant, 0, len(r.participants))
	for _, id := range r.order {
		if p, ok := r.participants[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
