package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/taranggg/Chillax/internal/protocol"
)

// handleMediaStatus はマイク・カメラ状態の一括更新を処理します
// 参加者をオンライン扱いに戻した上で、送信者以外に通知します
func (h *WebSocketHandler) handleMediaStatus(c *Client, raw json.RawMessage) {
	var req protocol.MediaStatusRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal media-status-update payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	if err := h.svc.UpdateMediaStatus(context.Background(), c.roomID, c.id, req.AudioEnabled, req.VideoEnabled); err != nil {
		log.Printf("media-status-update error (roomId=%s, connId=%s): %v", c.roomID, c.id, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type: protocol.EvtMediaStatusUpdate,
		Payload: protocol.MediaStatusPayload{
			RoomID:       c.roomID,
			UserID:       c.id,
			AudioEnabled: req.AudioEnabled,
			VideoEnabled: req.VideoEnabled,
		},
	}, c.id)
}

func (h *WebSocketHandler) handleToggleAudio(c *Client, raw json.RawMessage) {
	var req protocol.ToggleRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal toggle-audio payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	if err := h.svc.SetAudioEnabled(context.Background(), c.roomID, c.id, req.Enabled); err != nil {
		log.Printf("toggle-audio error (roomId=%s, connId=%s): %v", c.roomID, c.id, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type:    protocol.EvtUserAudioToggled,
		Payload: protocol.ToggledPayload{UserID: c.id, Enabled: req.Enabled},
	}, c.id)
}

func (h *WebSocketHandler) handleToggleVideo(c *Client, raw json.RawMessage) {
	var req protocol.ToggleRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal toggle-video payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}

	if err := h.svc.SetVideoEnabled(context.Background(), c.roomID, c.id, req.Enabled); err != nil {
		log.Printf("toggle-video error (roomId=%s, connId=%s): %v", c.roomID, c.id, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type:    protocol.EvtUserVideoToggled,
		Payload: protocol.ToggledPayload{UserID: c.id, Enabled: req.Enabled},
	}, c.id)
}
