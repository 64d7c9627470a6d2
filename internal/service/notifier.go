package service

import (
	"context"
	"log"
	"time"

	"github.com/yzh77/plaza_go_server/internal/pkg/queue"
)

// Notifier 通知网关。投递是 fire-and-forget：
// 事务提交即操作完成，投递失败只记日志，绝不回传给调用方。
type Notifier interface {
	Notify(userID int64, kind string, msg *queue.NotificationMessage)
}

// QueueNotifier 把通知异步推入 Redis 队列，由 worker 消费投递
type QueueNotifier struct {
	queue *queue.Queue
}

func NewQueueNotifier(q *queue.Queue) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

func (n *QueueNotifier) Notify(userID int64, kind string, msg *queue.NotificationMessage) {
	msg.UserID = userID
	msg.Kind = kind

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := n.queue.Push(ctx, msg); err != nil {
			log.Printf("notify push failed: user=%d kind=%s err=%v", userID, kind, err)
		}
	}()
}

// NoopNotifier 无 Redis 场景（测试、单机部署）下的空实现
type NoopNotifier struct{}

func (NoopNotifier) Notify(int64, string, *queue.NotificationMessage) {}
