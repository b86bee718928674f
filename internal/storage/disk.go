package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taranggg/Chillax/internal/idgen"
)

// DiskStore は動画をローカルディスクに保存します
// ファイル名は元の名前を無害化し、ULIDサフィックスで一意化します
type DiskStore struct {
	dir string
}

// NewDiskStore は保存先ディレクトリを作成してDiskStoreを返します
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir は保存先ディレクトリを返します（静的配信の設定用）
func (s *DiskStore) Dir() string { return s.dir }

// Save は動画データを書き込み、保存後のファイル名とサイズを返します
func (s *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (SavedFile, error) {
	name := buildFileName(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return SavedFile{}, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		// 途中まで書いたファイルは残さない
		os.Remove(path)
		return SavedFile{}, fmt.Errorf("write file: %w", err)
	}
	return SavedFile{Name: name, Size: n}, nil
}

// buildFileName は元のファイル名から安全な保存名を作ります
// 拡張子以外の記号はアンダースコアに置き換えます
func buildFileName(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = sanitize(base)
	if base == "" {
		base = "video"
	}
	return base + "-" + idgen.NewULID() + ext
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
