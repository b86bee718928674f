package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/taranggg/Chillax/internal/idgen"
	"github.com/taranggg/Chillax/internal/models"
	"github.com/taranggg/Chillax/internal/protocol"
	"github.com/taranggg/Chillax/internal/service"
)

// Hub は接続中の全クライアントとルームごとの配信先を管理します
// スレッドセーフな実装により、複数のgoroutineから同時にアクセス可能です
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // 接続IDをキーとした全クライアント
	rooms   map[string]map[string]*Client // ルームIDをキーとした配信先の集合
}

// NewHub は新しいHubを作成します
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Client は1つのWebSocket接続を表します
// 接続IDはそのまま参加者IDとして使われます
// roomIDが空の場合は未参加（ルームに紐づくイベントは無視されます）
type Client struct {
	id     string
	name   string
	roomID string
	conn   *websocket.Conn
	wmu    sync.Mutex // 書き込みの直列化（複数goroutineからの送信があるため）
}

// send はクライアントへイベントを送信します
// 切断済みの接続への送信失敗はログに残して握りつぶします（fire-and-forget）
func (c *Client) send(msg protocol.Message) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("failed to send %s to connId=%s: %v", msg.Type, c.id, err)
	}
}

// Register はクライアントを登録します
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// Unregister はクライアントの登録を解除します
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// GetInRoom はルームの配信先の中からクライアントを引きます（シグナリングの宛先解決用）
// 別ルームの接続や未参加の接続は、生きていても見つからない扱いになります
func (h *Hub) GetInRoom(roomID, id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.rooms[roomID][id]
	return c, ok
}

// JoinRoom はクライアントをルームの配信先に加えます
func (h *Hub) JoinRoom(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomID] = members
	}
	members[c.id] = c
	c.roomID = roomID
}

// LeaveRoom はクライアントをルームの配信先から外します
// ルームの配信先が空になった場合はエントリごと削除します
func (h *Hub) LeaveRoom(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[c.roomID]; ok {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	c.roomID = ""
}

// BroadcastToRoom はルーム内のクライアントにイベントを送信します
// excludeIDを指定するとそのクライアントを除外します（空文字なら全員に送信）
func (h *Hub) BroadcastToRoom(roomID string, msg protocol.Message, excludeID string) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for id, c := range h.rooms[roomID] {
		if id == excludeID {
			continue
		}
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.send(msg)
	}
}

// WebSocketHandler はWebSocket接続とイベントの振り分けを担当します
type WebSocketHandler struct {
	svc      *service.RoomService
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler は新しいWebSocketHandlerを作成します
func NewWebSocketHandler(svc *service.RoomService, hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// 本番環境では適切なOriginチェックを実装してください
				return true
			},
		},
	}
}

// HandleWebSocket はWebSocket接続を処理します
// 接続後、以下の処理を行います:
// 1. HTTPからWebSocketへのアップグレードと接続IDの払い出し
// 2. クライアントの登録と接続IDの通知
// 3. イベント受信ループの開始（イベント名ごとに型付きペイロードへデコード）
// 4. 切断時の退出処理とクリーンアップ（ホスト引き継ぎを含む）
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{id: idgen.NewConnectionID(), conn: conn}
	h.hub.Register(client)
	defer func() {
		h.handleDisconnect(client)
		h.hub.Unregister(client.id)
		conn.Close()
	}()

	log.Printf("WebSocket connected: connId=%s", client.id)
	client.send(protocol.Message{
		Type:    protocol.EvtConnected,
		Payload: protocol.ConnectedPayload{ConnectionID: client.id},
	})

	// イベント受信ループ
	for {
		var env protocol.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// イベント名に応じて処理
		switch env.Type {
		case protocol.EvtCreateRoom:
			h.handleCreateRoom(client, env.Payload)
		case protocol.EvtJoinRoom:
			h.handleJoinRoom(client, env.Payload)
		case protocol.EvtVideoPlay:
			h.handleVideoPlay(client, env.Payload)
		case protocol.EvtVideoPause:
			h.handleVideoPause(client, env.Payload)
		case protocol.EvtVideoSeek:
			h.handleVideoSeek(client, env.Payload)
		case protocol.EvtVideoSync:
			h.handleVideoSync(client, env.Payload)
		case protocol.EvtVideoURLChange:
			h.handleVideoURLChange(client, env.Payload)
		case protocol.EvtSendMessage:
			h.handleSendMessage(client, env.Payload)
		case protocol.EvtMediaStatusUpdate:
			h.handleMediaStatus(client, env.Payload)
		case protocol.EvtToggleAudio:
			h.handleToggleAudio(client, env.Payload)
		case protocol.EvtToggleVideo:
			h.handleToggleVideo(client, env.Payload)
		case protocol.EvtWebRTCSignal:
			h.handleSignal(client, env.Payload)
		case protocol.EvtWebRTCOffer:
			h.handleOffer(client, env.Payload)
		case protocol.EvtWebRTCAnswer:
			h.handleAnswer(client, env.Payload)
		case protocol.EvtWebRTCICE:
			h.handleICECandidate(client, env.Payload)
		case protocol.EvtPing:
			// ping/pongで接続を維持
			client.send(protocol.Message{Type: protocol.EvtPong})
		default:
			log.Printf("Unknown event type: %s (connId=%s)", env.Type, client.id)
		}
	}
}

// handleCreateRoom はルーム作成を処理します
// 作成者がホストになります。応答は送信者のみに返します
func (h *WebSocketHandler) handleCreateRoom(c *Client, raw json.RawMessage) {
	var req protocol.CreateRoomRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal create-room payload: %v", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultUserName(c.id)
	}

	r, err := h.svc.Create(context.Background(), normalizeID(req.RoomID), models.Participant{
		ID:     c.id,
		Name:   name,
		IsHost: true,
	})
	if err != nil {
		log.Printf("Create room error (connId=%s): %v", c.id, err)
		c.send(protocol.Message{
			Type:    protocol.EvtCreateRoomResult,
			Payload: protocol.CreateRoomResult{Success: false, Error: clientErrorMessage(err)},
		})
		return
	}

	c.name = name
	if c.roomID != "" && c.roomID != r.ID() {
		h.leaveCurrentRoom(c)
	}
	h.hub.JoinRoom(r.ID(), c)

	snap := r.Snapshot()
	user, _ := r.Participant(c.id)
	log.Printf("Room created: roomId=%s host=%s", r.ID(), name)

	c.send(protocol.Message{
		Type: protocol.EvtCreateRoomResult,
		Payload: protocol.CreateRoomResult{
			Success: true,
			RoomID:  r.ID(),
			User:    &user,
			Room:    &snap,
		},
	})
}

// handleJoinRoom は既存ルームへの参加を処理します
// 処理の流れ:
// 1. ルームの存在確認と参加者の追加
// 2. 既存の参加者へ最新の名簿付きでuser-joinedを通知
// 3. 送信者へルームの完全なスナップショット（名簿・再生状態・メッセージ履歴）を応答
func (h *WebSocketHandler) handleJoinRoom(c *Client, raw json.RawMessage) {
	var req protocol.JoinRoomRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Printf("Failed to unmarshal join-room payload: %v", err)
		return
	}

	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = strings.TrimSpace(req.Name)
	}
	if name == "" {
		name = defaultUserName(c.id)
	}

	r, user, err := h.svc.Join(context.Background(), normalizeID(req.RoomID), models.Participant{
		ID:   c.id,
		Name: name,
	})
	if err != nil {
		log.Printf("Join room error (roomId=%s, connId=%s): %v", req.RoomID, c.id, err)
		c.send(protocol.Message{
			Type:    protocol.EvtJoinRoomResult,
			Payload: protocol.JoinRoomResult{Success: false, Error: clientErrorMessage(err)},
		})
		return
	}

	c.name = name
	if c.roomID != "" && c.roomID != r.ID() {
		h.leaveCurrentRoom(c)
	}
	h.hub.JoinRoom(r.ID(), c)
	log.Printf("User joined: roomId=%s connId=%s name=%s", r.ID(), c.id, name)

	// 既存の参加者に新しいユーザーの参加を通知
	h.hub.BroadcastToRoom(r.ID(), protocol.Message{
		Type: protocol.EvtUserJoined,
		Payload: protocol.UserJoinedPayload{
			UserID:       user.ID,
			UserName:     user.Name,
			IsHost:       user.IsHost,
			Participants: r.Participants(),
		},
	}, c.id)

	snap := r.Snapshot()
	c.send(protocol.Message{
		Type: protocol.EvtJoinRoomResult,
		Payload: protocol.JoinRoomResult{
			Success: true,
			User:    &user,
			Room:    &snap,
		},
	})
}

// handleDisconnect は切断時のクリーンアップを行います
func (h *WebSocketHandler) handleDisconnect(c *Client) {
	if c.roomID == "" {
		log.Printf("WebSocket disconnected: connId=%s", c.id)
		return
	}
	h.leaveCurrentRoom(c)
}

// leaveCurrentRoom は参加中のルームからの退出処理を行います
// 参加者を削除し、ルームが空になればルームごと削除します
// 退出したのがホストだった場合は次の参加者へホストを引き継ぎ、host-changedを配信します
// 切断時と、参加中に別ルームへ移るときの両方で使われます
func (h *WebSocketHandler) leaveCurrentRoom(c *Client) {
	roomID := c.roomID
	res, err := h.svc.Leave(context.Background(), roomID, c.id)
	h.hub.LeaveRoom(c)
	if err != nil {
		log.Printf("Failed to leave room: roomId=%s connId=%s err=%v", roomID, c.id, err)
		return
	}

	log.Printf("User left: roomId=%s connId=%s", roomID, c.id)

	// 他のユーザーに退出を通知
	h.hub.BroadcastToRoom(roomID, protocol.Message{
		Type: protocol.EvtUserLeft,
		Payload: protocol.UserLeftPayload{
			UserID:       c.id,
			UserName:     c.name,
			Participants: res.Roster,
		},
	}, c.id)

	if res.NewHost != nil {
		log.Printf("Host changed: roomId=%s newHost=%s", roomID, res.NewHost.ID)
		h.hub.BroadcastToRoom(roomID, protocol.Message{
			Type: protocol.EvtHostChanged,
			Payload: protocol.HostChangedPayload{
				NewHostID:   res.NewHost.ID,
				NewHostName: res.NewHost.Name,
			},
		}, "")
	}
}

// clientErrorMessage はエラー応答に載せる文言を返します
// 既知のエラーの文言はクライアントとの互換性保証の対象なので、ここで固定文言に変換します
func clientErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrRoomAlreadyExists):
		return "Room ID already exists"
	case errors.Is(err, service.ErrRoomNotFound):
		return "Room not found"
	default:
		return err.Error()
	}
}

// defaultUserName は表示名が未指定のときの既定名を返します
func defaultUserName(connID string) string {
	short := connID
	if len(short) > 6 {
		short = short[:6]
	}
	return "User-" + short
}
