package service

import (
	"log"

	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

// ReconcileService 计数对账。
// 冗余计数在极端情况下可能漂移（历史故障、人工改库），
// 定期以权威记录为准重算 comment_count / like_count。
type ReconcileService struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	likeRepo    *repository.LikeRepository
}

func NewReconcileService(
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	likeRepo *repository.LikeRepository,
) *ReconcileService {
	return &ReconcileService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
	}
}

// ReconcilePost 重算单个帖子的计数，返回是否发生修正
func (s *ReconcileService) ReconcilePost(postID int64, dryRun bool) (bool, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return false, err
	}

	commentCount, err := s.commentRepo.CountByPostID(postID)
	if err != nil {
		return false, err
	}
	likeCount, err := s.likeRepo.CountByTarget(model.LikeTargetPost, postID)
	if err != nil {
		return false, err
	}

	fixed := false
	if int(commentCount) != post.CommentCount {
		log.Printf("reconcile: post %d comment_count %d -> %d", postID, post.CommentCount, commentCount)
		fixed = true
		if !dryRun {
			if err := s.postRepo.SetCommentCount(postID, int(commentCount)); err != nil {
				return false, err
			}
		}
	}
	if int(likeCount) != post.LikeCount {
		log.Printf("reconcile: post %d like_count %d -> %d", postID, post.LikeCount, likeCount)
		fixed = true
		if !dryRun {
			if err := s.postRepo.SetLikeCount(postID, int(likeCount)); err != nil {
				return false, err
			}
		}
	}

	return fixed, nil
}

// ReconcileAll 对账全部帖子，返回修正的帖子数
func (s *ReconcileService) ReconcileAll(dryRun bool) (int, error) {
	ids, err := s.postRepo.ListIDs()
	if err != nil {
		return 0, err
	}

	fixedCount := 0
	for _, id := range ids {
		fixed, err := s.ReconcilePost(id, dryRun)
		if err != nil {
			log.Printf("reconcile: post %d failed: %v", id, err)
			continue
		}
		if fixed {
			fixedCount++
		}
	}

	return fixedCount, nil
}
