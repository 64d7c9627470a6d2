package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/config"
	"github.com/yzh77/plaza_go_server/internal/api/middleware"
	"github.com/yzh77/plaza_go_server/internal/pkg/response"
	"github.com/yzh77/plaza_go_server/internal/repository"
	"github.com/yzh77/plaza_go_server/internal/service"
	"github.com/yzh77/plaza_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerEnv struct {
	db             *gorm.DB
	commentHandler *CommentHandler
	postHandler    *PostHandler
}

func setupHandlers(t *testing.T) *handlerEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := config.DefaultCommentConfig()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentedRepo := repository.NewCommentedPostRepository(db)

	profiles := service.NewProfileDirectory(userRepo, cfg.ProfileChunkSize)
	commentService := service.NewCommentService(
		db, commentRepo, postRepo, likeRepo, commentedRepo,
		profiles, service.NoopNotifier{}, cfg)
	likeService := service.NewLikeService(db, likeRepo, postRepo, commentRepo, cfg)
	postService := service.NewPostService(postRepo, likeRepo, commentedRepo)

	return &handlerEnv{
		db:             db,
		commentHandler: NewCommentHandler(commentService, likeService),
		postHandler:    NewPostHandler(postService, likeService),
	}
}

// asUser injects an authenticated user the way the JWT middleware would
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}
