package model

import (
	"time"
)

// 点赞目标类型
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// Like 点赞记录，(user_id, target_type, target_id) 唯一。
// 点赞记录是 is_liked 的事实来源，目标上的 like_count 只是冗余缓存。
type Like struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:uk_like_user_target" json:"user_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:uk_like_user_target" json:"target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:uk_like_user_target;index" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
