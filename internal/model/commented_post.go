package model

import (
	"time"
)

// CommentedPost 用户评论过的帖子（交叉引用聚合）。
// 用户在帖子下首次评论时写入，最后一条评论被硬删除时移除。
type CommentedPost struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uk_commented_user_post" json:"user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:uk_commented_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentedPost) TableName() string {
	return "commented_posts"
}
