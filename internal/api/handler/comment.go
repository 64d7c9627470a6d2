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

type CommentHandler struct {
	commentService *service.CommentService
	likeService    *service.LikeService
}

func NewCommentHandler(commentService *service.CommentService, likeService *service.LikeService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		likeService:    likeService,
	}
}

// List 获取评论列表（游标分页）
// GET /api/v1/posts/:id/comments?cursor=xxx&page_size=10
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的帖子ID")
		return
	}

	cursor := c.Query("cursor")
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	var viewerID *int64
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	page, err := h.commentService.List(postID, viewerID, cursor, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidCursor):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, page)
}

// Create 发表评论
// POST /api/v1/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
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

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(userID, postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrParentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPostLocked),
			errors.Is(err, service.ErrParentNotInPost),
			errors.Is(err, service.ErrParentDeleted),
			errors.Is(err, service.ErrCommentLocked),
			errors.Is(err, service.ErrEmptyContent):
			response.ParamError(c, err.Error())
		case errors.Is(err, repository.ErrTxnExhausted):
			response.ServerError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", comment)
}

// Update 修改评论
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Update(userID, commentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentPermission):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrCommentDeleted),
			errors.Is(err, service.ErrCommentLocked),
			errors.Is(err, service.ErrEmptyContent):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "修改成功", comment)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(userID, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ToggleLike 评论点赞切换
// POST /api/v1/comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	result, err := h.likeService.Toggle(userID, model.LikeTargetComment, commentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLikeTargetNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentDeleted), errors.Is(err, service.ErrCommentLocked):
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
