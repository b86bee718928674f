// Package storage はアップロードされた動画ファイルの保存を担当します
package storage

import (
	"context"
	"io"
)

// SavedFile は保存結果を表します
type SavedFile struct {
	Name string // 保存後のファイル名（配信パスの構築に使用）
	Size int64  // 保存したバイト数
}

// VideoStore は動画データを保存するためのインターフェース
type VideoStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (SavedFile, error)
}
