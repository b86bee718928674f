package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taranggg/Chillax/internal/handlers"
)

func NewRouter(h *handlers.RoomHandler, uh *handlers.UploadHandler, wsHandler *handlers.WebSocketHandler, uploadsDir string, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", h.Health)
	r.Get("/rooms", h.List)
	r.Get("/rooms/{roomId}", h.Get)
	r.Post("/upload", uh.Upload)

	// アップロード済みファイルの静的配信
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	// WebSocketエンドポイント
	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}
