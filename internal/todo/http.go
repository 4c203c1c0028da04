package todo

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/go-todo/internal/auth"
)

// TaskService はハンドラーが利用するタスク操作です。
// すべての操作は呼び出し主（所有者）のIDでスコープされます。
type TaskService interface {
	Create(ctx context.Context, ownerID, text string) (*Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*Task, error)
	Update(ctx context.Context, ownerID, taskID, text string) error
	Toggle(ctx context.Context, ownerID, taskID string) error
	Delete(ctx context.Context, ownerID, taskID string) error
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
}

// IndexHandler は GET / のハンドラーを返します。
func IndexHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		tasks, err := svc.ListByOwner(c.Request.Context(), ownerID)
		if err != nil {
			respondStorageError(c, "list tasks", err)
			return
		}
		c.HTML(http.StatusOK, "index.html", gin.H{"Tasks": tasks})
	}
}

// CreateHandler は POST /newtodo のハンドラーを返します。
func CreateHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		text := strings.TrimSpace(c.PostForm("task"))
		if text == "" {
			c.Redirect(http.StatusFound, "/")
			return
		}
		if _, err := svc.Create(c.Request.Context(), ownerID, text); err != nil {
			respondStorageError(c, "create task", err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// DeleteHandler は GET /delete/:id のハンドラーを返します。
// タスクが存在しない場合も他人の所有の場合も、同じリダイレクトを
// 返します。応答から資源の実在は判別できません。
func DeleteHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		err := svc.Delete(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil && !errors.Is(err, ErrNotFound) {
			respondStorageError(c, "delete task", err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// ToggleHandler は POST /toggle/:id のハンドラーを返します。
func ToggleHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		err := svc.Toggle(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil && !errors.Is(err, ErrNotFound) {
			respondStorageError(c, "toggle task", err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// DeleteAllHandler は POST /delAlltodo のハンドラーを返します。
func DeleteAllHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if _, err := svc.DeleteAll(c.Request.Context(), ownerID); err != nil {
			respondStorageError(c, "delete all tasks", err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// EditFormHandler は GET /edit/:id のハンドラーを返します。
func EditFormHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		task, err := svc.Get(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.Redirect(http.StatusFound, "/")
				return
			}
			respondStorageError(c, "get task", err)
			return
		}
		c.HTML(http.StatusOK, "edit.html", gin.H{"Task": task})
	}
}

// UpdateHandler は POST /update/:id のハンドラーを返します。
func UpdateHandler(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		text := strings.TrimSpace(c.PostForm("task"))
		if text == "" {
			c.Redirect(http.StatusFound, "/")
			return
		}
		err := svc.Update(c.Request.Context(), ownerID, c.Param("id"), text)
		if err != nil && !errors.Is(err, ErrNotFound) {
			respondStorageError(c, "update task", err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// respondStorageError はストレージ障害を処理します。詳細はログにのみ残します。
func respondStorageError(c *gin.Context, op string, err error) {
	log.Printf("todo: %s failed: %v", op, err)
	c.String(http.StatusInternalServerError, "サーバーエラーが発生しました")
}
