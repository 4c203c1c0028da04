// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// ストレージ設定
	MongoURI        string // MongoDB 接続URI
	MongoDatabase   string // 使用するデータベース名
	SessionRedisURL string // セッションストア用 Redis 接続URL

	// セッション設定
	SessionSecret     string // セッションクッキー署名用の秘密鍵
	SessionTTLMinutes int    // セッションの有効期限（分）

	// サーバー設定
	Port    string // サーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// ストレージ設定（デフォルトはローカル開発専用）
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "todo"),
		SessionRedisURL: getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),

		// セッション設定
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 720), // 12時間

		// サーバー設定
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
// ローカル開発ではデフォルト値のまま起動できますが、本番環境では
// 接続先と署名鍵の明示的な設定を必須とします。
func (c *Config) Validate() error {
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if os.Getenv("MONGODB_URI") == "" {
			return fmt.Errorf("MONGODB_URI is required in release mode")
		}
		if os.Getenv("SESSION_REDIS_URL") == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required in release mode")
		}
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
