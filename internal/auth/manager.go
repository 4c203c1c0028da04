// Package auth はログイン・登録・ログアウトのハンドラーと、
// セッション検証ミドルウェアを提供します。
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/user"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーIDを共有するためのキーです。
const ContextUserKey = "auth.user_id"

// UserStore は認証に必要なユーザー操作です。
type UserStore interface {
	Register(ctx context.Context, username, password string) (*user.User, error)
	Verify(ctx context.Context, username, password string) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// SessionStore はセッショントークンの発行・解決・破棄です。
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Options は Manager の構築パラメータです。
type Options struct {
	Users        UserStore
	Sessions     SessionStore
	Codec        *session.Codec
	CookieMaxAge int  // 秒
	SecureCookie bool // release モードでは true
}

// Manager は認証処理をまとめた構造体です。
// セッションストアはプロセス全体のシングルトンではなく、
// ここに明示的に注入されたものだけを使います。
type Manager struct {
	users        UserStore
	sessions     SessionStore
	codec        *session.Codec
	cookieMaxAge int
	secureCookie bool
}

// NewManager は認証マネージャーを作成します。
func NewManager(opts Options) *Manager {
	return &Manager{
		users:        opts.Users,
		sessions:     opts.Sessions,
		codec:        opts.Codec,
		cookieMaxAge: opts.CookieMaxAge,
		secureCookie: opts.SecureCookie,
	}
}

// LoginForm は GET /login のハンドラーです。
func (m *Manager) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// Login は POST /login のハンドラーです。
// 成功時はセッションを発行して / へ、失敗時は /login へ戻します。
// ユーザー名不明とパスワード不一致で応答を変えません。
func (m *Manager) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	u, err := m.users.Verify(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		serverError(c, "login", err)
		return
	}

	token, err := m.sessions.Create(c.Request.Context(), u.ID)
	if err != nil {
		serverError(c, "create session", err)
		return
	}

	m.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm は GET /register のハンドラーです。
func (m *Manager) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

// Register は POST /register のハンドラーです。
// ハッシュ化してから保存し、成功時は /login へ、重複時は /register へ
// 戻します。
func (m *Manager) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.Redirect(http.StatusFound, "/register")
		return
	}

	if _, err := m.users.Register(c.Request.Context(), username, password); err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			c.Redirect(http.StatusFound, "/register")
			return
		}
		serverError(c, "register", err)
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// Logout は GET /logout のハンドラーです。
// セッションを破棄し（存在しなくてもエラーにしない）、クッキーを消して
// /login へ戻します。
func (m *Manager) Logout(c *gin.Context) {
	if token, ok := m.sessionToken(c); ok {
		if err := m.sessions.Destroy(c.Request.Context(), token); err != nil {
			serverError(c, "destroy session", err)
			return
		}
	}
	m.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

// RequireLogin はセッションを検証するミドルウェアを返します。
// 未ログインならタスクストアに触れる前に /login へリダイレクトします。
// トークンが指すユーザーが既に存在しない場合、セッションは無効として
// 破棄します（宙ぶらりんの参照を認証済みとして扱わない）。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.sessionToken(c)
		if !ok {
			redirectToLogin(c)
			return
		}

		userID, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				m.clearSessionCookie(c)
				redirectToLogin(c)
				return
			}
			serverError(c, "resolve session", err)
			c.Abort()
			return
		}

		if _, err := m.users.FindByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				_ = m.sessions.Destroy(c.Request.Context(), token)
				m.clearSessionCookie(c)
				redirectToLogin(c)
				return
			}
			serverError(c, "resolve user", err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// CurrentUserID はミドルウェアが保存したユーザーIDを取り出します。
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func (m *Manager) sessionToken(c *gin.Context) (string, bool) {
	value, err := c.Cookie(session.CookieName)
	if err != nil || value == "" {
		return "", false
	}
	token, err := m.codec.Decode(value)
	if err != nil {
		return "", false
	}
	return token, true
}

func (m *Manager) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, m.codec.Encode(token),
		m.cookieMaxAge, "/", "", m.secureCookie, true)
}

func (m *Manager) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", m.secureCookie, true)
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// serverError はストレージ障害などの内部エラーを処理します。
// 詳細はサーバー側のログにのみ残し、呼び出し側には汎用の応答を返します。
func serverError(c *gin.Context, op string, err error) {
	log.Printf("auth: %s failed: %v", op, err)
	c.String(http.StatusInternalServerError, "サーバーエラーが発生しました")
	c.Abort()
}
