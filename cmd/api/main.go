// Package main はToDoアプリケーションサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourusername/go-todo/internal/auth"
	"github.com/yourusername/go-todo/internal/config"
	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/todo"
	"github.com/yourusername/go-todo/internal/user"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// MongoDB への接続とインデックスの保証
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	userStore := user.NewStore(db.Collection("users"))
	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	taskStore := todo.NewStore(db.Collection("tasks"))
	if err := taskStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create task indexes: %v", err)
	}

	// セッションストア（Redis）の初期化
	redisOpt, err := redis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		log.Fatalf("Failed to parse SESSION_REDIS_URL: %v", err)
	}
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessionStore := session.NewStore(redis.NewClient(redisOpt), sessionTTL)

	authManager := auth.NewManager(auth.Options{
		Users:        userStore,
		Sessions:     sessionStore,
		Codec:        session.NewCodec(cfg.SessionSecret),
		CookieMaxAge: int(sessionTTL.Seconds()),
		SecureCookie: cfg.GinMode == gin.ReleaseMode,
	})

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.LoadHTMLGlob("templates/*.html")

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	setupRoutes(router, authManager, taskStore)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "go-todo",
		"version": "0.1.0",
	})
}

// setupRoutes は認証まわりとタスク操作の配線を行います。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, taskStore *todo.Store) {
	router.GET("/health", handleHealth)

	// 未ログインでも叩けるルート
	router.GET("/login", authManager.LoginForm)
	router.POST("/login", authManager.Login)
	router.GET("/register", authManager.RegisterForm)
	router.POST("/register", authManager.Register)

	// ログイン必須のルート。ミドルウェアが解決したユーザーIDで
	// すべてのタスク操作をスコープする。
	protected := router.Group("")
	protected.Use(authManager.RequireLogin())
	{
		protected.GET("/", todo.IndexHandler(taskStore))
		protected.GET("/logout", authManager.Logout)
		protected.POST("/newtodo", todo.CreateHandler(taskStore))
		protected.GET("/delete/:id", todo.DeleteHandler(taskStore))
		protected.POST("/toggle/:id", todo.ToggleHandler(taskStore))
		protected.POST("/delAlltodo", todo.DeleteAllHandler(taskStore))
		protected.GET("/edit/:id", todo.EditFormHandler(taskStore))
		protected.POST("/update/:id", todo.UpdateHandler(taskStore))
	}

	// 不明なパスはリダイレクトせず固定の応答を返す
	router.NoRoute(func(c *gin.Context) {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8",
			[]byte("<h1>Invalid Page</h1>"))
	})
}
