package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taranggg/Chillax/internal/service"
)

type RoomHandler struct {
	svc *service.RoomService
}

func NewRoomHandler(s *service.RoomService) *RoomHandler { return &RoomHandler{svc: s} }

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *RoomHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.ListRooms(r.Context()))
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := normalizeID(chi.URLParam(r, "roomId"))
	if err := validateRoomId(roomID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rm, ok := h.svc.Get(r.Context(), roomID)
	if !ok {
		respondError(w, http.StatusNotFound, "Room not found")
		return
	}
	respondJSON(w, http.StatusOK, rm.Detail())
}
