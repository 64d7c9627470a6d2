package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
)

type CommentedPostRepository struct {
	db *gorm.DB
}

func NewCommentedPostRepository(db *gorm.DB) *CommentedPostRepository {
	return &CommentedPostRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *CommentedPostRepository) WithTx(tx *gorm.DB) *CommentedPostRepository {
	return &CommentedPostRepository{db: tx}
}

// Ensure 确保聚合记录存在，重复写入按唯一键忽略
func (r *CommentedPostRepository) Ensure(userID, postID int64) error {
	err := r.db.Create(&model.CommentedPost{UserID: userID, PostID: postID}).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

// Remove 移除聚合记录
func (r *CommentedPostRepository) Remove(userID, postID int64) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.CommentedPost{}).Error
}

// Exists 检查聚合记录是否存在
func (r *CommentedPostRepository) Exists(userID, postID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.CommentedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// ListPostIDsByUser 获取用户评论过的帖子 ID
func (r *CommentedPostRepository) ListPostIDsByUser(userID int64, page, pageSize int) ([]int64, int64, error) {
	var total int64
	var ids []int64

	query := r.db.Model(&model.CommentedPost{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Pluck("post_id", &ids).Error
	return ids, total, err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
