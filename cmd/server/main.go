package main

import (
	"context"
	"fmt"
	"log"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/api"
	"github.com/yzh77/plaza_go_server/internal/api/handler"
	"github.com/yzh77/plaza_go_server/internal/database"
	"github.com/yzh77/plaza_go_server/internal/pkg/cron"
	"github.com/yzh77/plaza_go_server/internal/pkg/pubsub"
	"github.com/yzh77/plaza_go_server/internal/pkg/queue"
	"github.com/yzh77/plaza_go_server/internal/pkg/ws"
	"github.com/yzh77/plaza_go_server/internal/repository"
	"github.com/yzh77/plaza_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis（不可用时通知降级为 no-op，评论主流程不受影响）
	var notifier service.Notifier = service.NoopNotifier{}
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: redis unavailable, notifications disabled: %v", err)
		rdb = nil
	} else {
		log.Println("Redis connected")
		notifyQueue := queue.NewQueue(rdb, cfg.Notify.Queue)
		notifier = service.NewQueueNotifier(notifyQueue)
	}

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentedRepo := repository.NewCommentedPostRepository(db)

	// 初始化 Service
	profiles := service.NewProfileDirectory(userRepo, cfg.Comment.ProfileChunkSize)
	commentService := service.NewCommentService(
		db, commentRepo, postRepo, likeRepo, commentedRepo, profiles, notifier, cfg.Comment)
	likeService := service.NewLikeService(db, likeRepo, postRepo, commentRepo, cfg.Comment)
	postService := service.NewPostService(postRepo, likeRepo, commentedRepo)
	reconcileService := service.NewReconcileService(postRepo, commentRepo, likeRepo)

	// 初始化 Handler
	postHandler := handler.NewPostHandler(postService, likeService)
	commentHandler := handler.NewCommentHandler(commentService, likeService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 订阅通知事件并推送到在线用户
	if rdb != nil {
		subscriber := pubsub.NewSubscriber(rdb, cfg.Notify.Channel)
		go func() {
			err := subscriber.Subscribe(context.Background(), func(event *pubsub.NotifyEvent) {
				if err := wsHub.SendToUser(event.UserID, &ws.Message{
					Type: "notification",
					Data: event,
				}); err != nil {
					log.Printf("Failed to push notification to user %d: %v", event.UserID, err)
				}
			})
			if err != nil {
				log.Printf("Notification subscriber stopped: %v", err)
			}
		}()
	}

	// 启动计数对账定时任务
	cronService := cron.NewService(reconcileService)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(postHandler, commentHandler, websocketHandler, cfg)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
