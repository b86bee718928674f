package handlers

import (
	"encoding/json"
	"log"

	"github.com/taranggg/Chillax/internal/protocol"
)

// シグナリング中継はルームの状態を一切変更しません
// ペイロードは解釈せず、送信者の接続IDを付けてそのまま宛先へ転送します
// 宛先が既に切断している場合は転送を破棄します（リトライもバッファリングもしません）

// resolveTarget は転送先のクライアントを解決します
// 送信者がルームに参加していること、宛先が同じルームに居ることを検証します
// 宛先はHubのルーム別配信先から引くため、別ルームの接続へは転送されません
func (h *WebSocketHandler) resolveTarget(c *Client, targetID string) (*Client, bool) {
	if c.roomID == "" || targetID == "" {
		return nil, false
	}
	target, ok := h.hub.GetInRoom(c.roomID, targetID)
	if !ok {
		log.Printf("signaling target not in room: connId=%s roomId=%s target=%s", c.id, c.roomID, targetID)
		return nil, false
	}
	return target, true
}

// handleSignal は汎用シグナリングペイロードを宛先へ転送します
func (h *WebSocketHandler) handleSignal(c *Client, raw json.RawMessage) {
	var req protocol.SignalRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal webrtc-signal payload: %v", err)
		return
	}
	target, ok := h.resolveTarget(c, req.To)
	if !ok {
		return
	}

	target.send(protocol.Message{
		Type: protocol.EvtWebRTCSignal,
		Payload: protocol.SignalForward{
			RoomID:   c.roomID,
			Signal:   req.Signal,
			From:     c.id,
			FromName: c.name,
			To:       req.To,
		},
	})
}

func (h *WebSocketHandler) handleOffer(c *Client, raw json.RawMessage) {
	var req protocol.OfferRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal webrtc-offer payload: %v", err)
		return
	}
	target, ok := h.resolveTarget(c, req.TargetID)
	if !ok {
		return
	}

	target.send(protocol.Message{
		Type:    protocol.EvtWebRTCOffer,
		Payload: protocol.OfferForward{Offer: req.Offer, FromID: c.id},
	})
}

func (h *WebSocketHandler) handleAnswer(c *Client, raw json.RawMessage) {
	var req protocol.AnswerRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal webrtc-answer payload: %v", err)
		return
	}
	target, ok := h.resolveTarget(c, req.TargetID)
	if !ok {
		return
	}

	target.send(protocol.Message{
		Type:    protocol.EvtWebRTCAnswer,
		Payload: protocol.AnswerForward{Answer: req.Answer, FromID: c.id},
	})
}

func (h *WebSocketHandler) handleICECandidate(c *Client, raw json.RawMessage) {
	var req protocol.CandidateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal webrtc-ice-candidate payload: %v", err)
		return
	}
	target, ok := h.resolveTarget(c, req.TargetID)
	if !ok {
		return
	}

	target.send(protocol.Message{
		Type:    protocol.EvtWebRTCICE,
		Payload: protocol.CandidateForward{Candidate: req.Candidate, FromID: c.id},
	})
}
