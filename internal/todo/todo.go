// Package todo はタスクの保存と、所有者によるアクセス制御を提供します。
package todo

import (
	"errors"
	"time"
)

// Task はタスクのドキュメントを表します。
// UserID は作成時に決まり、以後変更されません。
type Task struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Text      string    `bson:"text"`
	Completed bool      `bson:"completed"`
	CreatedAt time.Time `bson:"created_at"`
}

// ErrNotFound はタスクが存在しないか、呼び出し主の所有でないことを
// 表します。他人のタスクIDの実在を列挙されないよう、二つの場合を
// 意図的に区別しません。
var ErrNotFound = errors.New("task not found")
