// Package config はアプリケーションの設定を管理します
// 環境変数から設定を読み込み、デフォルト値を提供します
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultAPIAddr        = ":3001"                 // APIサーバーのデフォルトリッスンアドレス
	defaultUploadDir      = "uploads"               // アップロード先のデフォルトディレクトリ
	defaultMaxUploadBytes = int64(1) << 30          // アップロード上限（1GiB）
	defaultPublicBaseURL  = "http://localhost:3001" // 配信URLの組み立てに使う公開ベースURL
)

// defaultAllowedOrigins はCORSで許可するデフォルトのオリジン一覧
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
}

// Config はアプリケーションの設定を保持します
type Config struct {
	APIAddr        string   // APIサーバーのリッスンアドレス
	UploadDir      string   // アップロードファイルの保存先
	MaxUploadBytes int64    // アップロードのサイズ上限（バイト）
	PublicBaseURL  string   // アップロードURLの公開ベース
	AllowedOrigin  []string // CORSで許可するオリジン一覧
}

// Load は環境変数から設定を読み込みます
// 環境変数が設定されていない場合はデフォルト値を使用します
func Load() Config {
	return Config{
		APIAddr:        envOr("API_ADDR", defaultAPIAddr),
		UploadDir:      envOr("UPLOAD_DIR", defaultUploadDir),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		PublicBaseURL:  envOr("PUBLIC_BASE_URL", defaultPublicBaseURL),
		AllowedOrigin:  envCSV("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
	}
}

// envOr は環境変数から文字列を取得します
// 環境変数が設定されていない場合はデフォルト値を返します
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt64 は環境変数から整数を取得します
// 環境変数が設定されていない、または無効な値の場合はデフォルト値を返します
func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("invalid %s=%s, fallback to default (%d)", key, v, def)
			return def
		}
		return i
	}
	return def
}

// envCSV は環境変数からカンマ区切りの文字列リストを取得します
// 環境変数が設定されていない、または空の場合はデフォルト値を返します
func envCSV(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
