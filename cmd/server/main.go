package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taranggg/Chillax/internal/config"
	"github.com/taranggg/Chillax/internal/handlers"
	httpx "github.com/taranggg/Chillax/internal/http"
	"github.com/taranggg/Chillax/internal/room"
	"github.com/taranggg/Chillax/internal/service"
	"github.com/taranggg/Chillax/internal/storage"
)

func main() {
	cfg := config.Load()

	videoStore, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload dir: %v", err)
	}

	store := room.NewMemoryStore()
	idg := service.NewRoomIDGenerator()
	svc := service.NewRoomService(store, idg)

	hub := handlers.NewHub()
	rh := handlers.NewRoomHandler(svc)
	uh := handlers.NewUploadHandler(videoStore, cfg.MaxUploadBytes, cfg.PublicBaseURL)
	wh := handlers.NewWebSocketHandler(svc, hub)
	router := httpx.NewRouter(rh, uh, wh, videoStore.Dir(), cfg.AllowedOrigin)

	srv := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown用のシグナルチャネル
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// サーバーを別goroutineで起動
	go func() {
		log.Printf("listening on %s", cfg.APIAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// シャットダウンシグナルを待つ
	<-sigChan
	log.Println("shutdown signal received, shutting down gracefully...")

	// 30秒のタイムアウトでGraceful Shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
