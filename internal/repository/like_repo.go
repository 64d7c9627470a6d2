package repository

import (
	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// Create 创建点赞记录
func (r *LikeRepository) Create(like *model.Like) error {
	return r.db.Create(like).Error
}

// Delete 删除点赞记录
func (r *LikeRepository) Delete(userID int64, targetType string, targetID int64) error {
	return r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.Like{}).Error
}

// Exists 检查点赞是否存在
func (r *LikeRepository) Exists(userID int64, targetType string, targetID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// ListLikedTargetIDs 批量查询用户点过赞的目标 ID
func (r *LikeRepository) ListLikedTargetIDs(userID int64, targetType string, targetIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(targetIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// DeleteByTarget 清理目标的全部点赞记录（硬删除评论时随评论一并移除）
func (r *LikeRepository) DeleteByTarget(targetType string, targetID int64) error {
	return r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&model.Like{}).Error
}

// CountByTarget 统计目标的点赞总数（对账用）
func (r *LikeRepository) CountByTarget(targetType string, targetID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}
