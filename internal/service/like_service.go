package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/model/dto"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

var (
	ErrLikeTargetNotFound = errors.New("点赞目标不存在")
	ErrLikeTargetInvalid  = errors.New("不支持的点赞目标类型")
)

type LikeService struct {
	db          *gorm.DB
	likeRepo    *repository.LikeRepository
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	cfg         config.CommentConfig
}

func NewLikeService(
	db *gorm.DB,
	likeRepo *repository.LikeRepository,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	cfg config.CommentConfig,
) *LikeService {
	return &LikeService{
		db:          db,
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cfg:         cfg,
	}
}

// Toggle 点赞切换：已点赞则取消，未点赞则点上。
// 目标校验在事务外完成以便同步报错；当前计数在事务内重读，
// 与点赞记录原子提交，冲突重试后拿到的也是最新值。
// 新计数按 max(0, 旧值±1) 计算，容忍历史漂移，绝不出现负数。
func (s *LikeService) Toggle(userID int64, targetType string, targetID int64) (*dto.LikeResponse, error) {
	if err := s.checkTarget(targetType, targetID); err != nil {
		return nil, err
	}

	var resp dto.LikeResponse
	err := repository.RunInTxn(s.db, s.cfg.TxnAttempts, func(tx *gorm.DB) error {
		likeRepo := s.likeRepo.WithTx(tx)

		prevCount, err := s.readCount(tx, targetType, targetID)
		if err != nil {
			return err
		}

		exists, err := likeRepo.Exists(userID, targetType, targetID)
		if err != nil {
			return err
		}

		if exists {
			if err := likeRepo.Delete(userID, targetType, targetID); err != nil {
				return err
			}
			resp.Liked = false
			resp.LikeCount = clampNonNegative(prevCount - 1)
		} else {
			// 并发重复点赞会撞唯一键，由事务重试转成取消路径
			err := likeRepo.Create(&model.Like{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
			})
			if err != nil {
				return err
			}
			resp.Liked = true
			resp.LikeCount = clampNonNegative(prevCount + 1)
		}

		return s.writeCount(tx, targetType, targetID, resp.LikeCount)
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// checkTarget 校验目标存在且可互动
func (s *LikeService) checkTarget(targetType string, targetID int64) error {
	switch targetType {
	case model.LikeTargetPost:
		post, err := s.postRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLikeTargetNotFound
			}
			return err
		}
		if post.IsLocked {
			return ErrPostLocked
		}
		return nil

	case model.LikeTargetComment:
		comment, err := s.commentRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLikeTargetNotFound
			}
			return err
		}
		if comment.IsDeleted {
			return ErrCommentDeleted
		}
		if comment.IsLocked {
			return ErrCommentLocked
		}
		return nil

	default:
		return ErrLikeTargetInvalid
	}
}

// readCount 在事务内读目标当前点赞数，作为绝对写入的基准
func (s *LikeService) readCount(tx *gorm.DB, targetType string, targetID int64) (int, error) {
	if targetType == model.LikeTargetPost {
		post, err := s.postRepo.WithTx(tx).GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrLikeTargetNotFound
			}
			return 0, err
		}
		return post.LikeCount, nil
	}

	comment, err := s.commentRepo.WithTx(tx).GetByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrLikeTargetNotFound
		}
		return 0, err
	}
	return comment.LikeCount, nil
}

func (s *LikeService) writeCount(tx *gorm.DB, targetType string, targetID int64, count int) error {
	if targetType == model.LikeTargetPost {
		return s.postRepo.WithTx(tx).SetLikeCount(targetID, count)
	}
	return s.commentRepo.WithTx(tx).SetLikeCount(targetID, count)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
