package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent 修改评论内容
func (r *CommentRepository) UpdateContent(id int64, content string) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).
		Update("content", content).Error
}

// SoftDelete 软删除：保留树结构，抹去作者与内容
func (r *CommentRepository) SoftDelete(id int64, placeholder string) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"author_id":  nil,
			"content":    placeholder,
		}).Error
}

// HardDelete 硬删除：物理移除评论
func (r *CommentRepository) HardDelete(id int64) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

// SetLikeCount 写入点赞数绝对值（切换时由服务层计算钳位后的值）
func (r *CommentRepository) SetLikeCount(id int64, count int) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).
		UpdateColumn("like_count", count).Error
}

// CountLiveReplies 统计直接子回复中未删除的数量
func (r *CommentRepository) CountLiveReplies(parentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Count(&count).Error
	return count, err
}

// CountByPostAndAuthor 统计某作者在帖子下的评论数
func (r *CommentRepository) CountByPostAndAuthor(postID, authorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		Count(&count).Error
	return count, err
}

// ListRootsFirstPage 获取帖子根评论的首页，调用方多取一条探测 hasNext
func (r *CommentRepository) ListRootsFirstPage(postID int64, limit int) ([]*model.Comment, error) {
	var roots []*model.Comment
	err := r.db.Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&roots).Error
	return roots, err
}

// ListRootsAfter 获取游标之后的根评论页
func (r *CommentRepository) ListRootsAfter(postID int64, cursorTime time.Time, cursorID int64, limit int) ([]*model.Comment, error) {
	var roots []*model.Comment
	err := r.db.Where("post_id = ? AND parent_id IS NULL", postID).
		Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursorTime, cursorTime, cursorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&roots).Error
	return roots, err
}

// GetChildrenOfIDs 批量获取指定评论的直接子回复（含软删除占位）
func (r *CommentRepository) GetChildrenOfIDs(parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var replies []*model.Comment
	err := r.db.Where("parent_id IN ?", parentIDs).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

// CountRepliesByParentIDs 按父评论分组统计直接回复数
func (r *CommentRepository) CountRepliesByParentIDs(parentIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(parentIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ParentID int64
		Cnt      int
	}
	var rows []row
	err := r.db.Model(&model.Comment{}).
		Select("parent_id, COUNT(*) AS cnt").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		counts[rw.ParentID] = rw.Cnt
	}
	return counts, nil
}

// CountRootsByPostID 统计帖子的根评论总数
func (r *CommentRepository) CountRootsByPostID(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Count(&count).Error
	return count, err
}

// CountByPostID 统计帖子的评论总数（对账用）
func (r *CommentRepository) CountByPostID(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
