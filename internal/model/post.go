package model

import (
	"time"
)

// 帖子类型
const (
	PostKindGeneral = "general" // 普通帖子，回复支持任意层级
	PostKindMission = "mission" // 任务帖子，只展示两级评论
)

type Post struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	AuthorID     int64     `gorm:"not null;index" json:"author_id"`
	Kind         string    `gorm:"size:20;not null;default:general;index" json:"kind"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	CommentCount int       `gorm:"default:0" json:"comment_count"`
	LikeCount    int       `gorm:"default:0" json:"like_count"`
	ViewCount    int       `gorm:"default:0" json:"view_count"`
	ReportCount  int       `gorm:"default:0" json:"report_count"`
	IsLocked     bool      `gorm:"default:false" json:"is_locked"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
