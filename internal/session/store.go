// Package session はセッショントークンの発行・解決・破棄を提供します。
//
// トークンとユーザーIDの対応は Redis に保存するため、ハンドラー層は
// 状態を持たず水平に複製できます。セッションストアはグローバル変数では
// なく、依存として各ハンドラーへ明示的に注入します。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// ErrNoSession はトークンが存在しない（期限切れ・破棄済み含む）ことを表します。
var ErrNoSession = errors.New("session not found")

// Store はトークン→ユーザーIDの対応を Redis に保存します。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore は Store を作成します。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// Create は新しいセッションを発行し、トークンを返します。
// トークンは crypto/rand による32バイトの乱数で、推測できません。
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("userID is required")
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve はトークンからユーザーIDを引きます。
// 未知のトークンは ErrNoSession を返します。
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	userID, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}
		return "", err
	}
	return userID, nil
}

// Destroy はセッションを破棄します。冪等で、存在しないトークンの
// 破棄もエラーにしません。
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
