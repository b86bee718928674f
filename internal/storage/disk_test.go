package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	saved, err := s.Save(context.Background(), "My Movie (1).mp4", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if saved.Size != int64(len("content")) {
		t.Errorf("Size = %d, want %d", saved.Size, len("content"))
	}
	if !strings.HasPrefix(saved.Name, "My_Movie__1_-") {
		t.Errorf("Name = %q, want sanitized prefix %q", saved.Name, "My_Movie__1_-")
	}
	if !strings.HasSuffix(saved.Name, ".mp4") {
		t.Errorf("Name = %q, want .mp4 suffix", saved.Name)
	}

	data, err := os.ReadFile(filepath.Join(dir, saved.Name))
	if err != nil {
		t.Fatalf("saved file unreadable: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("file content = %q, want %q", data, "content")
	}
}

func TestDiskStoreSaveUniqueNames(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	a, err := s.Save(context.Background(), "same.mp4", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	b, err := s.Save(context.Background(), "same.mp4", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if a.Name == b.Name {
		t.Errorf("same name for two uploads: %q", a.Name)
	}
}

func TestBuildFileName(t *testing.T) {
	tests := []struct {
		name       string
		original   string
		wantPrefix string
		wantSuffix string
	}{
		{name: "plain", original: "movie.mp4", wantPrefix: "movie-", wantSuffix: ".mp4"},
		{name: "spaces and symbols", original: "a b!c.webm", wantPrefix: "a_b_c-", wantSuffix: ".webm"},
		{name: "no extension", original: "raw", wantPrefix: "raw-", wantSuffix: ""},
		{name: "only symbols", original: "!!!.mp4", wantPrefix: "___-", wantSuffix: ".mp4"},
		{name: "path stripped", original: "../../etc/passwd", wantPrefix: "passwd-", wantSuffix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildFileName(tt.original)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("buildFileName(%q) = %q, want prefix %q", tt.original, got, tt.wantPrefix)
			}
			if tt.wantSuffix != "" && !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("buildFileName(%q) = %q, want suffix %q", tt.original, got, tt.wantSuffix)
			}
		})
	}
}
