package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/model/dto"
	"github.com/yzh77/plaza_go_server/internal/repository"
	"github.com/yzh77/plaza_go_server/internal/testutil"
)

func setupPostService(t *testing.T) (*PostService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	svc := NewPostService(
		repository.NewPostRepository(db),
		repository.NewLikeRepository(db),
		repository.NewCommentedPostRepository(db),
	)
	return svc, db
}

func TestPostService_Create(t *testing.T) {
	svc, db := setupPostService(t)

	user := testutil.TestUser(t, db)

	item, err := svc.Create(user.ID, &dto.CreatePostRequest{
		Title:   "hello",
		Content: "world",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	// kind defaults to general
	assert.Equal(t, model.PostKindGeneral, item.Kind)

	mission, err := svc.Create(user.ID, &dto.CreatePostRequest{
		Kind:    model.PostKindMission,
		Title:   "task",
		Content: "do it",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PostKindMission, mission.Kind)
}

func TestPostService_Get(t *testing.T) {
	svc, db := setupPostService(t)

	user := testutil.TestUser(t, db, testutil.WithUsername("poster"))
	viewer := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	testutil.TestLike(t, db, viewer.ID, model.LikeTargetPost, post.ID)

	detail, err := svc.Get(post.ID, &viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, detail.Title)
	assert.Equal(t, "poster", detail.Author.Username)
	assert.True(t, detail.IsLiked)
	assert.Equal(t, 1, detail.ViewCount)

	_, err = svc.Get(99999, nil)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_List(t *testing.T) {
	svc, db := setupPostService(t)

	user := testutil.TestUser(t, db)
	for i := 0; i < 3; i++ {
		testutil.TestPost(t, db, user.ID)
	}

	items, total, err := svc.List(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)
}

func TestPostService_ListCommentedByUser(t *testing.T) {
	svc, db := setupPostService(t)

	user := testutil.TestUser(t, db)
	postA := testutil.TestPost(t, db, user.ID)
	postB := testutil.TestPost(t, db, user.ID)
	testutil.TestPost(t, db, user.ID) // never commented

	commentedRepo := repository.NewCommentedPostRepository(db)
	require.NoError(t, commentedRepo.Ensure(user.ID, postA.ID))
	require.NoError(t, commentedRepo.Ensure(user.ID, postB.ID))

	items, total, err := svc.ListCommentedByUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	got := map[int64]bool{}
	for _, item := range items {
		got[item.ID] = true
	}
	assert.True(t, got[postA.ID])
	assert.True(t, got[postB.ID])
}
