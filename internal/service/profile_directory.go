package service

import (
	"log"

	"github.com/yzh77/plaza_go_server/internal/model/dto"
	"github.com/yzh77/plaza_go_server/internal/repository"
)

// UnknownUsername 查不到作者时的兜底展示名
const UnknownUsername = "unknown"

// ProfileDirectory 批量解析作者展示信息。
// 底层查询按 chunkSize 分块，缺失或查询失败的用户回退为 unknown。
type ProfileDirectory struct {
	userRepo  *repository.UserRepository
	chunkSize int
}

func NewProfileDirectory(userRepo *repository.UserRepository, chunkSize int) *ProfileDirectory {
	if chunkSize < 1 {
		chunkSize = 50
	}
	return &ProfileDirectory{
		userRepo:  userRepo,
		chunkSize: chunkSize,
	}
}

// Resolve 解析一批用户的展示信息，返回的 map 覆盖所有请求的 ID
func (d *ProfileDirectory) Resolve(userIDs []int64) map[int64]*dto.CommentAuthor {
	result := make(map[int64]*dto.CommentAuthor, len(userIDs))
	if len(userIDs) == 0 {
		return result
	}

	// 去重
	uniq := make([]int64, 0, len(userIDs))
	seen := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}

	for start := 0; start < len(uniq); start += d.chunkSize {
		end := start + d.chunkSize
		if end > len(uniq) {
			end = len(uniq)
		}

		users, err := d.userRepo.ListByIDs(uniq[start:end])
		if err != nil {
			// 展示信息是尽力而为的补充，失败只记日志
			log.Printf("profile resolve failed for %d ids: %v", end-start, err)
			continue
		}

		for _, u := range users {
			result[u.ID] = &dto.CommentAuthor{
				ID:        u.ID,
				Username:  u.Username,
				AvatarURL: u.AvatarURL,
			}
		}
	}

	// 缺失用户统一回退
	for _, id := range uniq {
		if _, ok := result[id]; !ok {
			result[id] = &dto.CommentAuthor{ID: id, Username: UnknownUsername}
		}
	}

	return result
}

func unknownAuthor() *dto.CommentAuthor {
	return &dto.CommentAuthor{Username: UnknownUsername}
}
