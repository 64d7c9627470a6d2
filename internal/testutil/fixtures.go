package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Username: fmt.Sprintf("testuser_%d", nextSeq()),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// TestPost 创建测试帖子
func TestPost(t *testing.T, db *gorm.DB, authorID int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	post := &model.Post{
		AuthorID: authorID,
		Kind:     model.PostKindGeneral,
		Title:    fmt.Sprintf("Test Post %d", nextSeq()),
		Content:  "post body",
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithKind 设置帖子类型
func WithKind(kind string) func(*model.Post) {
	return func(p *model.Post) {
		p.Kind = kind
	}
}

// WithPostLocked 锁定帖子
func WithPostLocked() func(*model.Post) {
	return func(p *model.Post) {
		p.IsLocked = true
	}
}

// WithCommentCount 设置评论计数
func WithCommentCount(n int) func(*model.Post) {
	return func(p *model.Post) {
		p.CommentCount = n
	}
}

// TestComment 创建测试根评论
func TestComment(t *testing.T, db *gorm.DB, authorID, postID int64, content string, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: &authorID,
		Content:  content,
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复，depth 取父评论 depth+1
func TestReply(t *testing.T, db *gorm.DB, authorID int64, parent *model.Comment, content string, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		PostID:   parent.PostID,
		AuthorID: &authorID,
		ParentID: &parent.ID,
		Depth:    parent.Depth + 1,
		Content:  content,
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// WithCreatedAt 设置评论创建时间（分页测试需要确定的时间序）
func WithCreatedAt(ts time.Time) func(*model.Comment) {
	return func(c *model.Comment) {
		c.CreatedAt = ts
	}
}

// WithCommentLocked 锁定评论
func WithCommentLocked() func(*model.Comment) {
	return func(c *model.Comment) {
		c.IsLocked = true
	}
}

// WithDeleted 标记评论已软删除
func WithDeleted() func(*model.Comment) {
	return func(c *model.Comment) {
		c.IsDeleted = true
		c.AuthorID = nil
	}
}

// TestLike 创建测试点赞记录
func TestLike(t *testing.T, db *gorm.DB, userID int64, targetType string, targetID int64) *model.Like {
	t.Helper()

	like := &model.Like{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}
