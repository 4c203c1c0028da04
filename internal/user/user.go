// Package user はユーザーの登録と認証情報の検証を提供します。
package user

import (
	"errors"
	"time"
)

// User はユーザーのドキュメントを表します。
// PasswordHash には bcrypt ハッシュのみを保存し、平文パスワードは
// 永続化もログ出力も行いません。
type User struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

var (
	// ErrDuplicateUsername は既に使われているユーザー名での登録を表します。
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials は認証失敗を表します。ユーザー名不明と
	// パスワード不一致を区別しない共通のエラーです。
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrNotFound は指定IDのユーザーが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
)
