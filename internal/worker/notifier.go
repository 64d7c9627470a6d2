package worker

import (
	"context"
	"log"
	"time"

	"github.com/yzh77/plaza_go_server/internal/pkg/pubsub"
	"github.com/yzh77/plaza_go_server/internal/pkg/queue"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

// Notifier 通知投递器：消费通知队列，补全触发者展示名后
// 广播到通知频道，由在线网关推给用户。
type Notifier struct {
	queue     *queue.Queue
	publisher *pubsub.Publisher
	userRepo  *repository.UserRepository
}

func NewNotifier(q *queue.Queue, publisher *pubsub.Publisher, userRepo *repository.UserRepository) *Notifier {
	return &Notifier{
		queue:     q,
		publisher: publisher,
		userRepo:  userRepo,
	}
}

// Run 循环消费队列直到 ctx 取消
func (n *Notifier) Run(ctx context.Context) {
	log.Println("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopped")
			return
		default:
		}

		msg, err := n.queue.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("Pop notification failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue // 超时，无消息
		}

		n.deliver(ctx, msg)
	}
}

func (n *Notifier) deliver(ctx context.Context, msg *queue.NotificationMessage) {
	event := &pubsub.NotifyEvent{
		UserID:    msg.UserID,
		Kind:      msg.Kind,
		ActorID:   msg.ActorID,
		PostID:    msg.PostID,
		CommentID: msg.CommentID,
		Preview:   msg.Preview,
	}

	// 触发者展示名尽力补全，查不到就留空
	if actor, err := n.userRepo.GetByID(msg.ActorID); err == nil {
		event.ActorName = actor.Username
	}

	if err := n.publisher.PublishNotify(ctx, event); err != nil {
		log.Printf("Publish notification failed: user=%d kind=%s err=%v", msg.UserID, msg.Kind, err)
	}
}
