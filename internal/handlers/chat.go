package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/taranggg/Chillax/internal/models"
	"github.com/taranggg/Chillax/internal/protocol"
)

// handleSendMessage はチャットメッセージの送信を処理します
// IDとタイムスタンプを付与してログへ追記し、送信者を含む全員に配信します
func (h *WebSocketHandler) handleSendMessage(c *Client, raw json.RawMessage) {
	var req protocol.SendMessageRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal send-message payload: %v", err)
		return
	}
	if c.roomID == "" {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		return
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeUser
	}

	stored, err := h.svc.AppendMessage(context.Background(), c.roomID, models.Message{
		UserID:   c.id,
		UserName: c.name,
		Content:  req.Content,
		Type:     msgType,
	})
	if err != nil {
		log.Printf("send-message error (roomId=%s): %v", c.roomID, err)
		return
	}

	h.hub.BroadcastToRoom(c.roomID, protocol.Message{
		Type:    protocol.EvtNewMessage,
		Payload: stored,
	}, "")
}
