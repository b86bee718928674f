package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/taranggg/Chillax/internal/protocol"
	"github.com/taranggg/Chillax/internal/room"
	"github.com/taranggg/Chillax/internal/service"
)

// 再生操作（play/pause/seek）は送信者自身の画面では適用済みのため、送信者以外に配信します
// video-syncとvideo-url-changedだけは送信者を含む全員に配信します（正とする状態の再同期）

func (h *WebSocketHandler) handleVideoPlay(c *Client, raw json.RawMessage) {
	var req protocol.VideoActionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal video-play payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	playing := true
	if _, err := h.svc.UpdatePlayback(context.Background(), c.roomID, room.PlaybackUpdate{
		IsPlaying:   &playing,
		CurrentTime: &req.CurrentTime,
	}); err != nil {
		log.Printf("video-play error (roomId=%s): %v", c.roomID, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type: protocol.EvtVideoPlay,
		Payload: protocol.VideoEventPayload{
			RoomID:      c.roomID,
			CurrentTime: req.CurrentTime,
			Timestamp:   time.Now().UnixMilli(),
		},
	}, c.id)
}

func (h *WebSocketHandler) handleVideoPause(c *Client, raw json.RawMessage) {
	var req protocol.VideoActionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal video-pause payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	playing := false
	if _, err := h.svc.UpdatePlayback(context.Background(), c.roomID, room.PlaybackUpdate{
		IsPlaying:   &playing,
		CurrentTime: &req.CurrentTime,
	}); err != nil {
		log.Printf("video-pause error (roomId=%s): %v", c.roomID, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type: protocol.EvtVideoPause,
		Payload: protocol.VideoEventPayload{
			RoomID:      c.roomID,
			CurrentTime: req.CurrentTime,
			Timestamp:   time.Now().UnixMilli(),
		},
	}, c.id)
}

func (h *WebSocketHandler) handleVideoSeek(c *Client, raw json.RawMessage) {
	var req protocol.VideoActionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal video-seek payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	if _, err := h.svc.UpdatePlayback(context.Background(), c.roomID, room.PlaybackUpdate{
		CurrentTime: &req.CurrentTime,
	}); err != nil {
		log.Printf("video-seek error (roomId=%s): %v", c.roomID, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type: protocol.EvtVideoSeek,
		Payload: protocol.VideoEventPayload{
			RoomID:      c.roomID,
			CurrentTime: req.CurrentTime,
			Timestamp:   time.Now().UnixMilli(),
		},
	}, c.id)
}

// handleVideoSync は再生状態の強制同期を処理します
// 送信者の状態を正として保存し、送信者を含む全員に配信します
func (h *WebSocketHandler) handleVideoSync(c *Client, raw json.RawMessage) {
	var req protocol.VideoSyncRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal video-sync payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	if _, err := h.svc.UpdatePlayback(context.Background(), c.roomID, room.PlaybackUpdate{
		CurrentTime: &req.CurrentTime,
		IsPlaying:   &req.Playing,
	}); err != nil {
		log.Printf("video-sync error (roomId=%s): %v", c.roomID, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type: protocol.EvtVideoSync,
		Payload: protocol.VideoSyncPayload{
			RoomID:      c.roomID,
			CurrentTime: req.CurrentTime,
			Playing:     req.Playing,
			Timestamp:   time.Now().UnixMilli(),
		},
	}, "")
}

// handleVideoURLChange は動画URLの変更を処理します（ホストのみ）
// ホスト以外からの要求は状態に触れず、送信者へのエラー通知もしません
// （UI側の連打で拒否通知が溢れるのを避けるための意図的なsoft-fail）
func (h *WebSocketHandler) handleVideoURLChange(c *Client, raw json.RawMessage) {
	var req protocol.VideoURLChangeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal video-url-change payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	pb, err := h.svc.ChangeVideoURL(context.Background(), c.roomID, c.id, req.URL)
	if err != nil {
		if errors.Is(err, service.ErrNotHost) {
			log.Printf("video-url-change rejected: not host (roomId=%s, connId=%s)", c.roomID, c.id)
			return
		}
		log.Printf("video-url-change error (roomId=%s): %v", c.roomID, err)
		return
	}

	log.Printf("Video URL changed: roomId=%s url=%s", c.roomID, pb.URL)
	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type: protocol.EvtVideoURLChanged,
		Payload: protocol.VideoURLChangedPayload{
			RoomID:      c.roomID,
			URL:         pb.URL,
			CurrentTime: pb.CurrentTime,
			IsPlaying:   pb.IsPlaying,
		},
	}, "")
}
