package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/model/dto"
	"github.com/yzh77/plaza_go_server/internal/pkg/richtext"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

var (
	ErrPostNotFound = errors.New("帖子不存在")
	ErrPostLocked   = errors.New("帖子已锁定")
)

type PostService struct {
	postRepo      *repository.PostRepository
	likeRepo      *repository.LikeRepository
	commentedRepo *repository.CommentedPostRepository
}

func NewPostService(
	postRepo *repository.PostRepository,
	likeRepo *repository.LikeRepository,
	commentedRepo *repository.CommentedPostRepository,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		likeRepo:      likeRepo,
		commentedRepo: commentedRepo,
	}
}

// Create 创建帖子
func (s *PostService) Create(authorID int64, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	content := richtext.Clean(req.Content)
	if richtext.IsBlank(content) {
		return nil, ErrEmptyContent
	}

	kind := req.Kind
	if kind == "" {
		kind = model.PostKindGeneral
	}

	post := &model.Post{
		AuthorID: authorID,
		Kind:     kind,
		Title:    req.Title,
		Content:  content,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	return s.buildPostItem(post), nil
}

// List 获取帖子列表
func (s *PostService) List(page, pageSize int) ([]*dto.PostItem, int64, error) {
	posts, total, err := s.postRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PostItem, len(posts))
	for i, p := range posts {
		items[i] = s.buildPostItem(p)
	}
	return items, total, nil
}

// Get 获取帖子详情，已登录用户附带点赞状态
func (s *PostService) Get(postID int64, viewerID *int64) (*dto.PostDetail, error) {
	post, err := s.postRepo.GetByIDWithAuthor(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// 浏览数尽力而为，失败不影响读取
	_ = s.postRepo.IncrementViewCount(postID)

	detail := &dto.PostDetail{
		ID:           post.ID,
		Kind:         post.Kind,
		Title:        post.Title,
		Content:      post.Content,
		ContentHTML:  richtext.Render(post.Content),
		CommentCount: post.CommentCount,
		LikeCount:    post.LikeCount,
		ViewCount:    post.ViewCount + 1,
		IsLocked:     post.IsLocked,
		CreatedAt:    post.CreatedAt.Format(time.RFC3339),
	}

	if post.Author != nil {
		detail.Author = &dto.AuthorInfo{
			ID:        post.Author.ID,
			Username:  post.Author.Username,
			AvatarURL: post.Author.AvatarURL,
			Bio:       post.Author.Bio,
		}
	}

	if viewerID != nil {
		liked, err := s.likeRepo.Exists(*viewerID, model.LikeTargetPost, postID)
		if err == nil {
			detail.IsLiked = liked
		}
	}

	return detail, nil
}

// ListCommentedByUser 获取用户评论过的帖子列表
func (s *PostService) ListCommentedByUser(userID int64, page, pageSize int) ([]*dto.PostItem, int64, error) {
	ids, total, err := s.commentedRepo.ListPostIDsByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []*dto.PostItem{}, total, nil
	}

	posts, err := s.postRepo.ListByIDs(ids)
	if err != nil {
		return nil, 0, err
	}

	// 保持聚合记录的时间序
	byID := make(map[int64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	items := make([]*dto.PostItem, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, s.buildPostItem(p))
		}
	}
	return items, total, nil
}

func (s *PostService) buildPostItem(p *model.Post) *dto.PostItem {
	item := &dto.PostItem{
		ID:           p.ID,
		Kind:         p.Kind,
		Title:        p.Title,
		CommentCount: p.CommentCount,
		LikeCount:    p.LikeCount,
		ViewCount:    p.ViewCount,
		IsLocked:     p.IsLocked,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}

	if p.Author != nil {
		item.Author = &dto.AuthorInfo{
			ID:        p.Author.ID,
			Username:  p.Author.Username,
			AvatarURL: p.Author.AvatarURL,
		}
	}

	return item
}
