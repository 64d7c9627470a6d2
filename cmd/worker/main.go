package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/database"
	"github.com/yzh77/plaza_go_server/internal/pkg/pubsub"
	"github.com/yzh77/plaza_go_server/internal/pkg/queue"
	"github.com/yzh77/plaza_go_server/internal/repository"
	"github.com/yzh77/plaza_go_server/internal/worker"
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

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和 Pub/Sub
	notifyQueue := queue.NewQueue(rdb, cfg.Notify.Queue)
	publisher := pubsub.NewPublisher(rdb, cfg.Notify.Channel)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)

	// 创建通知处理器
	notifier := worker.NewNotifier(notifyQueue, publisher, userRepo)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	notifier.Run(ctx)
	log.Println("Worker shutdown complete")
}
