package model

import (
	"time"
)

type Comment struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	PostID      int64     `gorm:"not null;index" json:"post_id"`
	AuthorID    *int64    `gorm:"index" json:"author_id,omitempty"` // 软删除匿名化后为 NULL
	ParentID    *int64    `gorm:"index" json:"parent_id,omitempty"` // NULL 表示根评论
	Depth       int       `gorm:"not null;default:0" json:"depth"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	LikeCount   int       `gorm:"default:0" json:"like_count"`
	ReportCount int       `gorm:"default:0" json:"report_count"`
	IsDeleted   bool      `gorm:"default:false;index" json:"is_deleted"`
	IsLocked    bool      `gorm:"default:false" json:"is_locked"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsRoot 是否为根评论
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
