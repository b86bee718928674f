package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/taranggg/Chillax/internal/storage"
)

// UploadHandler は動画ファイルのアップロードを処理します
// コアはアップロード結果のURL文字列を再生ソースとして扱うだけで、中身には関与しません
type UploadHandler struct {
	store         storage.VideoStore
	maxBytes      int64
	publicBaseURL string
}

func NewUploadHandler(store storage.VideoStore, maxBytes int64, publicBaseURL string) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: maxBytes, publicBaseURL: publicBaseURL}
}

type uploadResponse struct {
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// Upload は multipart/form-data の video フィールドを受け取って保存します
// サイズ上限を超えたリクエストは400を返します
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("video")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusBadRequest, "File too large")
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	saved, err := h.store.Save(r.Context(), header.Filename, file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusBadRequest, "File too large")
			return
		}
		log.Printf("upload: save error name=%s err=%v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	log.Printf("Video uploaded: name=%s size=%d", saved.Name, saved.Size)
	respondJSON(w, http.StatusOK, uploadResponse{
		URL:          h.publicBaseURL + "/uploads/" + saved.Name,
		OriginalName: header.Filename,
		Size:         saved.Size,
	})
}
