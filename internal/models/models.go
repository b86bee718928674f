// Package models はアプリケーションで使用するデータ構造を定義します
package models

import "time"

// メッセージ種別
const (
	MessageTypeUser   = "user"   // 参加者が送信した通常メッセージ
	MessageTypeSystem = "system" // サーバーが生成した通知メッセージ
	MessageTypeError  = "error"  // エラー通知メッセージ
)

// Participant はルームに参加しているユーザーの状態を表します
type Participant struct {
	ID           string    `json:"id"`           // 接続ID（参加者の一意な識別子）
	Name         string    `json:"name"`         // 表示名
	IsHost       bool      `json:"isHost"`       // ホストかどうか（動画URL変更の権限を持つ）
	IsOnline     bool      `json:"isOnline"`     // オンライン状態
	AudioEnabled bool      `json:"audioEnabled"` // マイクの状態
	VideoEnabled bool      `json:"videoEnabled"` // カメラの状態
	JoinedAt     time.Time `json:"joinedAt"`     // 参加日時
}

// PlaybackState はルームで共有している動画の再生状態を表します
type PlaybackState struct {
	URL         string  `json:"url"`         // 再生中の動画URL
	CurrentTime float64 `json:"currentTime"` // 再生位置（秒）
	IsPlaying   bool    `json:"isPlaying"`   // 再生中かどうか
	Duration    float64 `json:"duration"`    // 動画の長さ（秒）
}

// Message はルーム内のチャットメッセージを表します
type Message struct {
	ID        string    `json:"id"`        // メッセージの一意なID（ULID）
	UserID    string    `json:"userId"`    // 送信者の接続ID（システム発の場合は "system"）
	UserName  string    `json:"userName"`  // 送信者の表示名
	Content   string    `json:"content"`   // 本文
	Type      string    `json:"type"`      // メッセージ種別（user / system / error）
	Timestamp time.Time `json:"timestamp"` // 送信日時
}

// RoomSummary はルーム一覧で公開する概要情報です
// メッセージ履歴や参加者の詳細は含めません
type RoomSummary struct {
	ID               string    `json:"id"`
	ParticipantCount int       `json:"participantCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RoomDetail はルーム個別取得で公開する情報です
type RoomDetail struct {
	ID               string        `json:"id"`
	ParticipantCount int           `json:"participantCount"`
	CurrentVideo     PlaybackState `json:"currentVideo"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// RoomSnapshot は参加時に送信者へ返すルームの完全なスナップショットです
type RoomSnapshot struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
	CurrentVideo PlaybackState `json:"currentVideo"`
	Messages     []Message     `json:"messages"`
}
