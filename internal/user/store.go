package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store はユーザードキュメントを MongoDB に保存します。
type Store struct {
	col *mongo.Collection
}

// NewStore は Store を作成します。
func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// Register は新規ユーザーを登録し、作成したユーザーを返します。
// ユーザー名の一意性は username のユニークインデックスで保証します
// （事前チェックとの二段階にすると同時登録で競合するため）。
func (s *Store) Register(ctx context.Context, username, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Verify はユーザー名とパスワードを検証し、一致したユーザーを返します。
// ユーザー名不明とパスワード不一致はどちらも ErrInvalidCredentials を
// 返し、呼び出し側からは区別できません。
func (s *Store) Verify(ctx context.Context, username, password string) (*User, error) {
	var u User
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// 応答時間を揃えるためダミーハッシュと比較する。結果は使わない。
			checkPassword(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !checkPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// FindByID は ID でユーザーを取得します。セッション解決時に
// ユーザーが削除済みでないかの確認に使います。
func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// EnsureIndexes は username のユニークインデックスを作成します。
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
