package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/model/dto"
	"github.com/yzh77/plaza_go_server/internal/pkg/queue"
	"github.com/yzh77/plaza_go_server/internal/pkg/richtext"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
	ErrCommentDeleted    = errors.New("评论已删除")
	ErrCommentLocked     = errors.New("评论已锁定")
	ErrParentNotFound    = errors.New("父评论不存在")
	ErrParentNotInPost   = errors.New("父评论不属于该帖子")
	ErrParentDeleted     = errors.New("父评论已删除")
	ErrEmptyContent      = errors.New("内容不能为空")
	ErrInvalidCursor     = errors.New("无效的分页游标")
)

type CommentService struct {
	db            *gorm.DB
	commentRepo   *repository.CommentRepository
	postRepo      *repository.PostRepository
	likeRepo      *repository.LikeRepository
	commentedRepo *repository.CommentedPostRepository
	profiles      *ProfileDirectory
	notifier      Notifier
	cfg           config.CommentConfig
	resolver      *threadResolver
}

func NewCommentService(
	db *gorm.DB,
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	likeRepo *repository.LikeRepository,
	commentedRepo *repository.CommentedPostRepository,
	profiles *ProfileDirectory,
	notifier Notifier,
	cfg config.CommentConfig,
) *CommentService {
	return &CommentService{
		db:            db,
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		likeRepo:      likeRepo,
		commentedRepo: commentedRepo,
		profiles:      profiles,
		notifier:      notifier,
		cfg:           cfg,
		resolver: &threadResolver{
			commentRepo:   commentRepo,
			idFilterLimit: cfg.IDFilterLimit,
		},
	}
}

// Create 创建评论
func (s *CommentService) Create(authorID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	content := richtext.Clean(req.Content)
	if richtext.IsBlank(content) {
		return nil, ErrEmptyContent
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.IsLocked {
		return nil, ErrPostLocked
	}

	// 如果是回复，验证父评论并推导层级
	depth := 0
	var parent *model.Comment
	if req.ParentID != nil {
		parent, err = s.commentRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}

		if parent.PostID != postID {
			return nil, ErrParentNotInPost
		}
		if parent.IsDeleted {
			return nil, ErrParentDeleted
		}
		if parent.IsLocked {
			return nil, ErrCommentLocked
		}

		// 层级只从父级推导，不信任客户端
		depth = parent.Depth + 1
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: &authorID,
		ParentID: req.ParentID,
		Depth:    depth,
		Content:  content,
	}

	// 评论写入、计数 +1、交叉引用聚合在同一事务内落盘
	err = repository.RunInTxn(s.db, s.cfg.TxnAttempts, func(tx *gorm.DB) error {
		if err := s.commentRepo.WithTx(tx).Create(comment); err != nil {
			return err
		}
		if err := s.postRepo.WithTx(tx).IncrementCommentCount(postID, 1); err != nil {
			return err
		}
		return s.commentedRepo.WithTx(tx).Ensure(authorID, postID)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchCreateNotifications(post, parent, comment)

	authors := s.profiles.Resolve([]int64{authorID})
	return s.buildCommentItem(comment, authors, nil, 0), nil
}

// Update 修改评论内容，仅作者本人且评论未删除未锁定
func (s *CommentService) Update(authorID, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentItem, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.AuthorID == nil || *comment.AuthorID != authorID {
		return nil, ErrCommentPermission
	}
	if comment.IsDeleted {
		return nil, ErrCommentDeleted
	}
	if comment.IsLocked {
		return nil, ErrCommentLocked
	}

	content := richtext.Clean(req.Content)
	if richtext.IsBlank(content) {
		return nil, ErrEmptyContent
	}

	err = repository.RunInTxn(s.db, s.cfg.TxnAttempts, func(tx *gorm.DB) error {
		return s.commentRepo.WithTx(tx).UpdateContent(commentID, content)
	})
	if err != nil {
		return nil, err
	}

	comment.Content = content
	authors := s.profiles.Resolve([]int64{authorID})
	return s.buildCommentItem(comment, authors, nil, 0), nil
}

// Delete 删除评论。
// 存在未删除的直接回复 → 软删除（内容与作者匿名化，树形保留，计数不变）；
// 不存在 → 硬删除（物理移除，计数 -1，必要时清理交叉引用聚合）。
// 对已软删除评论重复请求是幂等的 no-op。
func (s *CommentService) Delete(authorID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 硬删除后的重复请求：按缺失即幂等处理
			return ErrCommentNotFound
		}
		return err
	}

	if comment.IsDeleted {
		return nil
	}

	if comment.AuthorID == nil || *comment.AuthorID != authorID {
		return ErrCommentPermission
	}

	return repository.RunInTxn(s.db, s.cfg.TxnAttempts, func(tx *gorm.DB) error {
		commentRepo := s.commentRepo.WithTx(tx)

		liveReplies, err := commentRepo.CountLiveReplies(commentID)
		if err != nil {
			return err
		}

		if liveReplies > 0 {
			return commentRepo.SoftDelete(commentID, s.cfg.DeletedPlaceholder)
		}

		if err := commentRepo.HardDelete(commentID); err != nil {
			return err
		}
		if err := s.likeRepo.WithTx(tx).DeleteByTarget(model.LikeTargetComment, commentID); err != nil {
			return err
		}
		if err := s.postRepo.WithTx(tx).IncrementCommentCount(comment.PostID, -1); err != nil {
			return err
		}

		// 作者在该帖子下已无评论时，移除 "评论过的帖子" 聚合
		remaining, err := commentRepo.CountByPostAndAuthor(comment.PostID, authorID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return s.commentedRepo.WithTx(tx).Remove(authorID, comment.PostID)
		}
		return nil
	})
}

// List 获取帖子的根评论分页及各根下的回复分组
func (s *CommentService) List(postID int64, viewerID *int64, cursor string, pageSize int) (*dto.CommentPage, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	// 回复查询的根扇出有上限，超出的请求收紧到上限而不是失败
	if pageSize > s.cfg.MaxRootFanout {
		log.Printf("comment list: page size %d exceeds root fanout cap %d, clamped (post=%d)",
			pageSize, s.cfg.MaxRootFanout, postID)
		pageSize = s.cfg.MaxRootFanout
	}

	// 多取一条探测是否还有下一页，避免额外的 COUNT
	var roots []*model.Comment
	if cursor == "" {
		roots, err = s.commentRepo.ListRootsFirstPage(postID, pageSize+1)
	} else {
		var cursorTime time.Time
		var cursorID int64
		cursorTime, cursorID, err = decodeCursor(cursor)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		roots, err = s.commentRepo.ListRootsAfter(postID, cursorTime, cursorID, pageSize+1)
	}
	if err != nil {
		return nil, err
	}

	hasNext := len(roots) > pageSize
	if hasNext {
		roots = roots[:pageSize]
	}

	page := &dto.CommentPage{Items: []*dto.CommentItem{}, HasNext: hasNext}
	if len(roots) == 0 {
		return page, nil
	}
	if hasNext {
		last := roots[len(roots)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	// 帖子类型决定回复的归集策略：任务帖只看两级，普通帖任意层级
	var buckets map[int64][]*model.Comment
	if post.Kind == model.PostKindMission {
		buckets, err = s.resolver.collectBounded(roots)
	} else {
		buckets, err = s.resolver.collectUnbounded(roots)
	}
	if err != nil {
		return nil, err
	}

	replyCounts := make(map[int64]int, len(roots))
	if post.Kind == model.PostKindMission {
		// 展示截断不影响真实回复数，两级模式用分组计数兜底
		rootIDs := make([]int64, len(roots))
		for i, root := range roots {
			rootIDs[i] = root.ID
		}
		counts, err := s.commentRepo.CountRepliesByParentIDs(rootIDs)
		if err != nil {
			return nil, err
		}
		replyCounts = counts
	} else {
		for rootID, bucket := range buckets {
			replyCounts[rootID] = len(bucket)
		}
	}

	authors := s.profiles.Resolve(collectAuthorIDs(roots, buckets))
	liked := s.resolveViewerLikes(viewerID, roots, buckets)

	for _, root := range roots {
		item := s.buildCommentItem(root, authors, liked, replyCounts[root.ID])

		bucket := buckets[root.ID]
		if len(bucket) > s.cfg.ReplyPreviewLimit {
			bucket = bucket[:s.cfg.ReplyPreviewLimit]
		}
		for _, reply := range bucket {
			item.Replies = append(item.Replies, s.buildCommentItem(reply, authors, liked, 0))
		}

		page.Items = append(page.Items, item)
	}

	return page, nil
}

// dispatchCreateNotifications 通知帖子作者与被回复者，自己触发的不通知
func (s *CommentService) dispatchCreateNotifications(post *model.Post, parent, comment *model.Comment) {
	actorID := *comment.AuthorID
	preview := richtext.Preview(comment.Content, 80)

	notified := map[int64]bool{actorID: true}

	if parent != nil && parent.AuthorID != nil && !notified[*parent.AuthorID] {
		notified[*parent.AuthorID] = true
		s.notifier.Notify(*parent.AuthorID, queue.KindReply, &queue.NotificationMessage{
			ActorID:   actorID,
			PostID:    post.ID,
			CommentID: comment.ID,
			Preview:   preview,
		})
	}

	if !notified[post.AuthorID] {
		s.notifier.Notify(post.AuthorID, queue.KindComment, &queue.NotificationMessage{
			ActorID:   actorID,
			PostID:    post.ID,
			CommentID: comment.ID,
			Preview:   preview,
		})
	}
}

func (s *CommentService) resolveViewerLikes(viewerID *int64, roots []*model.Comment, buckets map[int64][]*model.Comment) map[int64]bool {
	if viewerID == nil {
		return nil
	}

	var ids []int64
	for _, root := range roots {
		ids = append(ids, root.ID)
	}
	for _, bucket := range buckets {
		for _, c := range bucket {
			ids = append(ids, c.ID)
		}
	}

	liked, err := s.likeRepo.ListLikedTargetIDs(*viewerID, model.LikeTargetComment, ids)
	if err != nil {
		// 点赞状态是补充信息，失败降级为未点赞
		log.Printf("resolve viewer likes failed: viewer=%d err=%v", *viewerID, err)
		return nil
	}
	return liked
}

func (s *CommentService) buildCommentItem(c *model.Comment, authors map[int64]*dto.CommentAuthor, liked map[int64]bool, repliesCount int) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:           c.ID,
		PostID:       c.PostID,
		ParentID:     c.ParentID,
		Depth:        c.Depth,
		Content:      c.Content,
		ContentHTML:  richtext.Render(c.Content),
		LikeCount:    c.LikeCount,
		IsLiked:      liked[c.ID],
		IsDeleted:    c.IsDeleted,
		RepliesCount: repliesCount,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}

	if c.IsDeleted || c.AuthorID == nil {
		item.Author = unknownAuthor()
		return item
	}

	if author, ok := authors[*c.AuthorID]; ok {
		item.Author = author
	} else {
		item.Author = unknownAuthor()
	}
	return item
}

func collectAuthorIDs(roots []*model.Comment, buckets map[int64][]*model.Comment) []int64 {
	var ids []int64
	for _, root := range roots {
		if root.AuthorID != nil {
			ids = append(ids, *root.AuthorID)
		}
	}
	for _, bucket := range buckets {
		for _, c := range bucket {
			if c.AuthorID != nil {
				ids = append(ids, *c.AuthorID)
			}
		}
	}
	return ids
}
