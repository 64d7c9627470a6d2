package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yzh77/plaza_go_server/internal/model"
	"github.com/yzh77/plaza_go_server/internal/testutil"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	comment := &model.Comment{
		PostID:   post.ID,
		AuthorID: &user.ID,
		Content:  "hello",
	}
	require.NoError(t, repo.Create(comment))
	require.NotZero(t, comment.ID)

	got, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Nil(t, got.ParentID)
}

func TestCommentRepository_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, post.ID, "secret")

	require.NoError(t, repo.SoftDelete(comment.ID, "[removed]"))

	got, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Nil(t, got.AuthorID)
	assert.Equal(t, "[removed]", got.Content)
}

func TestCommentRepository_HardDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, post.ID, "bye")

	require.NoError(t, repo.HardDelete(comment.ID))

	_, err := repo.GetByID(comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentRepository_CountLiveReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	root := testutil.TestComment(t, db, user.ID, post.ID, "root")
	testutil.TestReply(t, db, user.ID, root, "live")
	testutil.TestReply(t, db, user.ID, root, "dead", testutil.WithDeleted())

	count, err := repo.CountLiveReplies(root.ID)
	require.NoError(t, err)
	// soft-deleted replies don't count as live
	assert.EqualValues(t, 1, count)
}

func TestCommentRepository_ListRoots_KeysetPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 4; i++ {
		c := testutil.TestComment(t, db, user.ID, post.ID, "root",
			testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
		ids = append(ids, c.ID)
	}
	// replies never appear in the root listing
	root, err := repo.GetByID(ids[0])
	require.NoError(t, err)
	testutil.TestReply(t, db, user.ID, root, "reply")

	page, err := repo.ListRootsFirstPage(post.ID, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	last := page[1]
	rest, err := repo.ListRootsAfter(post.ID, last.CreatedAt, last.ID, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, ids[1], rest[0].ID)
	assert.Equal(t, ids[0], rest[1].ID)
}

func TestCommentRepository_ListRootsAfter_TiesBrokenByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	// identical timestamps: ordering falls back to id
	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	a := testutil.TestComment(t, db, user.ID, post.ID, "a", testutil.WithCreatedAt(ts))
	b := testutil.TestComment(t, db, user.ID, post.ID, "b", testutil.WithCreatedAt(ts))

	page, err := repo.ListRootsFirstPage(post.ID, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b.ID, page[0].ID)

	rest, err := repo.ListRootsAfter(post.ID, page[0].CreatedAt, page[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, a.ID, rest[0].ID)
}

func TestCommentRepository_GetChildrenOfIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	rootA := testutil.TestComment(t, db, user.ID, post.ID, "a")
	rootB := testutil.TestComment(t, db, user.ID, post.ID, "b")
	childA := testutil.TestReply(t, db, user.ID, rootA, "ca")
	childB := testutil.TestReply(t, db, user.ID, rootB, "cb")

	children, err := repo.GetChildrenOfIDs([]int64{rootA.ID, rootB.ID})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, childA.ID, children[0].ID)
	assert.Equal(t, childB.ID, children[1].ID)

	empty, err := repo.GetChildrenOfIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_CountRepliesByParentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	rootA := testutil.TestComment(t, db, user.ID, post.ID, "a")
	rootB := testutil.TestComment(t, db, user.ID, post.ID, "b")
	testutil.TestReply(t, db, user.ID, rootA, "r1")
	testutil.TestReply(t, db, user.ID, rootA, "r2")

	counts, err := repo.CountRepliesByParentIDs([]int64{rootA.ID, rootB.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, counts[rootA.ID])
	assert.Equal(t, 0, counts[rootB.ID])
}

func TestCommentRepository_CountByPostAndAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, alice.ID)

	testutil.TestComment(t, db, alice.ID, post.ID, "1")
	testutil.TestComment(t, db, alice.ID, post.ID, "2")
	testutil.TestComment(t, db, bob.ID, post.ID, "3")

	count, err := repo.CountByPostAndAuthor(post.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
