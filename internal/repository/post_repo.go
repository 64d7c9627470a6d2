package repository

import (
	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

// Create 创建帖子
func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// GetByID 根据 ID 获取帖子
func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDWithAuthor 获取帖子及作者信息
func (r *PostRepository) GetByIDWithAuthor(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List 获取帖子列表
func (r *PostRepository) List(page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.Model(&model.Post{}).Preload("Author")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListByIDs 批量获取帖子
func (r *PostRepository) ListByIDs(ids []int64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var posts []*model.Post
	err := r.db.Preload("Author").Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

// IncrementCommentCount 调整评论数
func (r *PostRepository) IncrementCommentCount(id int64, delta int) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

// SetLikeCount 写入点赞数绝对值（切换时由服务层计算钳位后的值）
func (r *PostRepository) SetLikeCount(id int64, count int) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("like_count", count).Error
}

// SetCommentCount 写入评论数绝对值（对账用）
func (r *PostRepository) SetCommentCount(id int64, count int) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("comment_count", count).Error
}

// IncrementViewCount 增加浏览数
func (r *PostRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// ListIDs 遍历全部帖子 ID（对账用）
func (r *PostRepository) ListIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Post{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
