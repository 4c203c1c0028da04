package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store はタスクドキュメントを MongoDB に保存します。
//
// 変更系の操作はすべて {_id, user_id} の複合フィルターを一回の
// クエリで適用します。取得してから所有者を比較する二段階にはしない
// こと。単一のフィルター付きクエリであれば、他人のタスクは
// 「存在しない」のと同じ結果になり、所有権の検査と操作の間に
// 隙間も生まれません。
type Store struct {
	col *mongo.Collection
}

// NewStore は Store を作成します。
func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// Create はタスクを1件作成します。作成操作はこの一つだけです
// （単数・複数の曖昧な一括作成は提供しません）。
func (s *Store) Create(ctx context.Context, ownerID, text string) (*Task, error) {
	t := &Task{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// ListByOwner は所有タスクを作成順で返します。呼び出し時点の
// スナップショットであり、ライブビューではありません。
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// Get は所有タスクを1件取得します。編集フォームの表示に使います。
func (s *Store) Get(ctx context.Context, ownerID, taskID string) (*Task, error) {
	var t Task
	err := s.col.FindOne(ctx, ownerFilter(ownerID, taskID)).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

// Update は所有タスクの本文を書き換えます。
func (s *Store) Update(ctx context.Context, ownerID, taskID, text string) error {
	res, err := s.col.UpdateOne(ctx, ownerFilter(ownerID, taskID),
		bson.M{"$set": bson.M{"text": text}})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle は所有タスクの完了フラグを反転します。
// 集約パイプラインによる更新なので、所有権フィルターと反転が
// ストレージ上の一回の操作で済みます。同一所有者の同時反転は
// 後勝ちとします。
func (s *Store) Toggle(ctx context.Context, ownerID, taskID string) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"completed": bson.M{"$not": "$completed"}}}},
	}
	res, err := s.col.UpdateOne(ctx, ownerFilter(ownerID, taskID), pipeline)
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete は所有タスクを1件削除します。
func (s *Store) Delete(ctx context.Context, ownerID, taskID string) error {
	res, err := s.col.DeleteOne(ctx, ownerFilter(ownerID, taskID))
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll は所有タスクを一括削除し、削除件数を返します。
// 他ユーザーのタスクには触れません。
func (s *Store) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes は user_id のインデックスを作成します。
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}

func ownerFilter(ownerID, taskID string) bson.M {
	return bson.M{"_id": taskID, "user_id": ownerID}
}
