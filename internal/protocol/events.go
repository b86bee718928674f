// Package protocol はWebSocketで送受信するイベントの名前とペイロード型を定義します
// イベント名とフィールド名はクライアントとの互換性保証の対象です
package protocol

import (
	"encoding/json"

	"github.com/taranggg/Chillax/internal/models"
)

// 受信イベント名
const (
	EvtCreateRoom        = "create-room"
	EvtJoinRoom          = "join-room"
	EvtVideoPlay         = "video-play"
	EvtVideoPause        = "video-pause"
	EvtVideoSeek         = "video-seek"
	EvtVideoSync         = "video-sync"
	EvtVideoURLChange    = "video-url-change"
	EvtSendMessage       = "send-message"
	EvtMediaStatusUpdate = "media-status-update"
	EvtToggleAudio       = "toggle-audio"
	EvtToggleVideo       = "toggle-video"
	EvtWebRTCSignal      = "webrtc-signal"
	EvtWebRTCOffer       = "webrtc-offer"
	EvtWebRTCAnswer      = "webrtc-answer"
	EvtWebRTCICE         = "webrtc-ice-candidate"
	EvtPing              = "ping"
)

// 送信イベント名
const (
	EvtConnected        = "connected"
	EvtCreateRoomResult = "create-room-result"
	EvtJoinRoomResult   = "join-room-result"
	EvtUserJoined       = "user-joined"
	EvtUserLeft         = "user-left"
	EvtHostChanged      = "host-changed"
	EvtVideoURLChanged  = "video-url-changed"
	EvtNewMessage       = "new-message"
	EvtUserAudioToggled = "user-audio-toggled"
	EvtUserVideoToggled = "user-video-toggled"
	EvtPong             = "pong"
)

// Envelope は受信イベント共通の外枠です
// ペイロードはイベント名ごとの型にデコードしてから処理します
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message は送信イベント共通の外枠です
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ---- 受信ペイロード ----

// CreateRoomRequest はルーム作成要求です
// RoomIDが空の場合はサーバー側でIDを生成します
type CreateRoomRequest struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// JoinRoomRequest はルーム参加要求です
// 表示名はuserName優先、なければnameを使います
type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Name     string `json:"name"`
	UserName string `json:"userName"`
}

// VideoActionRequest はvideo-play / video-pause / video-seekのペイロードです
type VideoActionRequest struct {
	CurrentTime float64 `json:"currentTime"`
}

// VideoSyncRequest は再生状態の強制同期要求です
type VideoSyncRequest struct {
	CurrentTime float64 `json:"currentTime"`
	Playing     bool    `json:"playing"`
}

// VideoURLChangeRequest は動画URLの変更要求です（ホストのみ）
type VideoURLChangeRequest struct {
	URL string `json:"url"`
}

// SendMessageRequest はチャットメッセージの送信要求です
type SendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// MediaStatusRequest はマイク・カメラ状態の一括更新要求です
type MediaStatusRequest struct {
	AudioEnabled bool `json:"audioEnabled"`
	VideoEnabled bool `json:"videoEnabled"`
}

// ToggleRequest はtoggle-audio / toggle-videoのペイロードです
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// SignalRequest は汎用シグナリングの転送要求です
// Signalの中身は解釈せず、そのまま相手に渡します
type SignalRequest struct {
	To     string          `json:"to"`
	Signal json.RawMessage `json:"signal"`
}

// OfferRequest はWebRTCオファーの転送要求です
type OfferRequest struct {
	TargetID string          `json:"targetId"`
	Offer    json.RawMessage `json:"offer"`
}

// AnswerRequest はWebRTCアンサーの転送要求です
type AnswerRequest struct {
	TargetID string          `json:"targetId"`
	Answer   json.RawMessage `json:"answer"`
}

// CandidateRequest はICE候補の転送要求です
type CandidateRequest struct {
	TargetID  string          `json:"targetId"`
	Candidate json.RawMessage `json:"candidate"`
}

// ---- 送信ペイロード ----

// ConnectedPayload は接続直後に送る接続IDの通知です
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// CreateRoomResult はcreate-roomへの応答です（送信者のみ）
type CreateRoomResult struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	RoomID  string               `json:"roomId,omitempty"`
	User    *models.Participant  `json:"user,omitempty"`
	Room    *models.RoomSnapshot `json:"room,omitempty"`
}

// JoinRoomResult はjoin-roomへの応答です（送信者のみ）
type JoinRoomResult struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	User    *models.Participant  `json:"user,omitempty"`
	Room    *models.RoomSnapshot `json:"room,omitempty"`
}

// UserJoinedPayload は新しい参加者の通知です（送信者以外）
type UserJoinedPayload struct {
	UserID       string               `json:"userId"`
	UserName     string               `json:"userName"`
	IsHost       bool                 `json:"isHost"`
	Participants []models.Participant `json:"participants"`
}

// UserLeftPayload は参加者の退出通知です（送信者以外）
type UserLeftPayload struct {
	UserID       string               `json:"userId"`
	UserName     string               `json:"userName"`
	Participants []models.Participant `json:"participants"`
}

// HostChangedPayload はホスト引き継ぎの通知です（ルーム全体）
type HostChangedPayload struct {
	NewHostID   string `json:"newHostId"`
	NewHostName string `json:"newHostName"`
}

// VideoEventPayload はvideo-play / video-pause / video-seekの中継です
type VideoEventPayload struct {
	RoomID      string  `json:"roomId"`
	CurrentTime float64 `json:"currentTime"`
	Timestamp   int64   `json:"timestamp"`
}

// VideoSyncPayload は強制同期の中継です（送信者を含むルーム全体）
type VideoSyncPayload struct {
	RoomID      string  `json:"roomId"`
	CurrentTime float64 `json:"currentTime"`
	Playing     bool    `json:"playing"`
	Timestamp   int64   `json:"timestamp"`
}

// VideoURLChangedPayload は動画URL変更の通知です（送信者を含むルーム全体）
type VideoURLChangedPayload struct {
	RoomID      string  `json:"roomId"`
	URL         string  `json:"url"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

// MediaStatusPayload はマイク・カメラ状態変更の通知です（送信者以外）
type MediaStatusPayload struct {
	RoomID       string `json:"roomId"`
	UserID       string `json:"userId"`
	AudioEnabled bool   `json:"audioEnabled"`
	VideoEnabled bool   `json:"videoEnabled"`
}

// ToggledPayload はuser-audio-toggled / user-video-toggledの通知です
type ToggledPayload struct {
	UserID  string `json:"userId"`
	Enabled bool   `json:"enabled"`
}

// SignalForward は汎用シグナリングの転送です（宛先のみ）
type SignalForward struct {
	RoomID   string          `json:"roomId"`
	Signal   json.RawMessage `json:"signal"`
	From     string          `json:"from"`
	FromName string          `json:"fromName"`
	To       string          `json:"to"`
}

// OfferForward はWebRTCオファーの転送です（宛先のみ）
type OfferForward struct {
	Offer  json.RawMessage `json:"offer"`
	FromID string          `json:"fromId"`
}

// AnswerForward はWebRTCアンサーの転送です（宛先のみ）
type AnswerForward struct {
	Answer json.RawMessage `json:"answer"`
	FromID string          `json:"fromId"`
}

// CandidateForward はICE候補の転送です（宛先のみ）
type CandidateForward struct {
	Candidate json.RawMessage `json:"candidate"`
	FromID    string          `json:"fromId"`
}
