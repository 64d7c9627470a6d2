package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/api/handler"
	"github.com/yzh77/plaza_go_server/internal/api/middleware"
)

type Router struct {
	postHandler      *handler.PostHandler
	commentHandler   *handler.CommentHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		postHandler:      postHandler,
		commentHandler:   commentHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket 通知推送
		api.GET("/ws", r.websocketHandler.Handle)

		// 帖子 - 公开读取（可选认证，用于标记当前用户的点赞状态）
		postsPublic := api.Group("/posts")
		postsPublic.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			postsPublic.GET("", r.postHandler.List)
			postsPublic.GET("/:id", r.postHandler.Get)
			postsPublic.GET("/:id/comments", r.commentHandler.List)
		}

		// 帖子 - 需要认证
		postsAuth := api.Group("/posts")
		postsAuth.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			postsAuth.POST("", r.postHandler.Create)
			postsAuth.POST("/:id/like", r.postHandler.ToggleLike)
			postsAuth.POST("/:id/comments", r.commentHandler.Create)
		}

		// 评论 - 需要认证
		commentsAuth := api.Group("/comments")
		commentsAuth.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			commentsAuth.PUT("/:id", r.commentHandler.Update)
			commentsAuth.DELETE("/:id", r.commentHandler.Delete)
			commentsAuth.POST("/:id/like", r.commentHandler.ToggleLike)
		}

		// 用户
		user := api.Group("/user")
		user.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			user.GET("/commented-posts", r.postHandler.ListCommented)
		}
	}

	return engine
}
