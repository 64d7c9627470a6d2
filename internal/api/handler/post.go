package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yzh77/plaza_go_server/internal/api/middleware"
	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/model/dto"
	"github.com/yzh77/plaza_go_server/internal/pkg/response"
	"github.com/yzh77/plaza_go_server/internal/repository"
	"github.com/yzh77/plaza_go_server/internal/service"
)

type PostHandler struct {
	postService *service.PostService
	likeService *service.LikeService
}

func NewPostHandler(postService *service.PostService, likeService *service.LikeService) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
	}
}

// Create 发布帖子
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	post, err := h.postService.Create(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "发布成功", post)
}

// List 帖子列表（页码分页）
// GET /api/v1/posts?page=1&page_size=10
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	posts, total, err := h.postService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, posts)
}

// Get 帖子详情
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的帖子ID")
		return
	}

	var viewerID *int64
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	detail, err := h.postService.Get(postID, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}

// ToggleLike 帖子点赞切换
// POST /api/v1/posts/:id/like
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的帖子ID")
		return
	}

	result, err := h.likeService.Toggle(userID, model.LikeTargetPost, postID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLikeTargetNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPostLocked):
			response.ParamError(c, err.Error())
		case errors.Is(err, repository.ErrTxnExhausted):
			response.ConflictError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, result)
}

// ListCommented 当前用户评论过的帖子
// GET /api/v1/user/commented-posts?page=1&page_size=10
func (h *PostHandler) ListCommented(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	posts, total, err := h.postService.ListCommentedByUser(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, posts)
}
