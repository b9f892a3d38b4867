package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"gardencircle/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn              func(context.Context, *models.Post) error
	getByIDFn             func(context.Context, uint, uint) (*models.Post, error)
	getByAuthorIDFn       func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listPageFn            func(context.Context, int, int) ([]*models.Post, error)
	updateFn              func(context.Context, *models.Post) error
	deleteFn              func(context.Context, uint) error
	likeCountFn           func(context.Context, uint) (int64, error)
	commentCountFn        func(context.Context, uint) (int64, error)
	hasLikedFn            func(context.Context, uint, uint) (bool, error)
	likeCountsByPostFn    func(context.Context, []uint) (map[uint]int64, error)
	commentCountsByPostFn func(context.Context, []uint) (map[uint]int64, error)
	likedPostIDsFn        func(context.Context, uint, []uint) ([]uint, error)
	toggleLikeFn          func(context.Context, uint, uint) (bool, int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID, limit, offset, viewerID)
}
func (s *postRepoStub) ListPage(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listPageFn(ctx, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}
func (s *postRepoStub) CommentCount(ctx context.Context, postID uint) (int64, error) {
	return s.commentCountFn(ctx, postID)
}
func (s *postRepoStub) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.hasLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) LikeCountsByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return s.likeCountsByPostFn(ctx, postIDs)
}
func (s *postRepoStub) CommentCountsByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return s.commentCountsByPostFn(ctx, postIDs)
}
func (s *postRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint, int) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	deleteFn           func(context.Context, uint) error
	listFn             func(context.Context, int, int) ([]models.User, error)
	setAdminFn         func(context.Context, uint, bool) error
	avatarsByUserFn    func(context.Context, []uint) (map[uint]string, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) DeleteWithContent(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.setAdminFn(ctx, id, isAdmin)
}
func (s *userRepoStub) AvatarsByUser(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	return s.avatarsByUserFn(ctx, userIDs)
}

func uintPtr(v uint) *uint { return &v }

// threePostFixture returns a page of three posts where post 1 has likes and
// comments, post 2 has nothing, and post 3 has likes only.
func threePostFixture() ([]*models.Post, *postRepoStub, *userRepoStub, *callCounts) {
	now := time.Now()
	posts := []*models.Post{
		{ID: 3, AuthorID: uintPtr(10), AuthorName: "fern", Content: "third", CreatedAt: now},
		{ID: 2, AuthorID: nil, AuthorName: "Anonym", Content: "second", CreatedAt: now.Add(-time.Minute)},
		{ID: 1, AuthorID: uintPtr(10), AuthorName: "fern", Content: "first", CreatedAt: now.Add(-2 * time.Minute)},
	}

	counts := &callCounts{}
	postRepo := &postRepoStub{
		listPageFn: func(_ context.Context, _, _ int) ([]*models.Post, error) {
			counts.pages++
			return posts, nil
		},
		likeCountsByPostFn: func(_ context.Context, _ []uint) (map[uint]int64, error) {
			counts.likes++
			return map[uint]int64{1: 2, 3: 5}, nil
		},
		commentCountsByPostFn: func(_ context.Context, _ []uint) (map[uint]int64, error) {
			counts.comments++
			return map[uint]int64{1: 4}, nil
		},
		likedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) {
			counts.likedSets++
			return []uint{3}, nil
		},
	}
	userRepo := &userRepoStub{
		avatarsByUserFn: func(_ context.Context, ids []uint) (map[uint]string, error) {
			counts.avatars++
			counts.avatarIDs = ids
			return map[uint]string{10: "/media/fern.png"}, nil
		},
	}
	return posts, postRepo, userRepo, counts
}

type callCounts struct {
	pages     int
	likes     int
	comments  int
	likedSets int
	avatars   int
	avatarIDs []uint
}

func TestAssemblerPage_AnonymousDefaults(t *testing.T) {
	t.Parallel()
	_, postRepo, userRepo, counts := threePostFixture()
	a := NewAssembler(postRepo, userRepo)

	items, err := a.Page(context.Background(), 20, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Newest first.
	assert.Equal(t, uint(3), items[0].ID)
	assert.Equal(t, int64(5), items[0].LikesCount)
	assert.Equal(t, int64(0), items[0].CommentsCount)
	assert.Equal(t, "/media/fern.png", items[0].AuthorAvatar)
	assert.False(t, items[0].Liked)

	// Post 2 has no engagement and no author: everything defaults.
	assert.Equal(t, uint(2), items[1].ID)
	assert.Equal(t, int64(0), items[1].LikesCount)
	assert.Equal(t, int64(0), items[1].CommentsCount)
	assert.Equal(t, "", items[1].AuthorAvatar)
	assert.Equal(t, "Anonym", items[1].AuthorName)

	assert.Equal(t, uint(1), items[2].ID)
	assert.Equal(t, int64(2), items[2].LikesCount)
	assert.Equal(t, int64(4), items[2].CommentsCount)

	// Anonymous viewers never trigger the liked-set query.
	assert.Equal(t, 0, counts.likedSets)
}

func TestAssemblerPage_ConstantQueryCount(t *testing.T) {
	t.Parallel()
	_, postRepo, userRepo, counts := threePostFixture()
	a := NewAssembler(postRepo, userRepo)

	_, err := a.Page(context.Background(), 20, 0, 9)
	require.NoError(t, err)

	// One page fetch plus one aggregate per kind, never per post.
	assert.Equal(t, 1, counts.pages)
	assert.Equal(t, 1, counts.likes)
	assert.Equal(t, 1, counts.comments)
	assert.Equal(t, 1, counts.avatars)
	assert.Equal(t, 1, counts.likedSets)

	// Duplicate authors collapse to one lookup key.
	assert.Equal(t, []uint{10}, counts.avatarIDs)
}

func TestAssemblerPage_ViewerLikedSet(t *testing.T) {
	t.Parallel()
	_, postRepo, userRepo, _ := threePostFixture()
	a := NewAssembler(postRepo, userRepo)

	items, err := a.Page(context.Background(), 20, 0, 9)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.True(t, items[0].Liked)
	assert.False(t, items[1].Liked)
	assert.False(t, items[2].Liked)
}

func TestAssemblerPage_EmptyPage(t *testing.T) {
	t.Parallel()
	postRepo := &postRepoStub{
		listPageFn: func(_ context.Context, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
	}
	a := NewAssembler(postRepo, &userRepoStub{})

	items, err := a.Page(context.Background(), 20, 0, 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAssemblerPage_AggregateErrorIsFatal(t *testing.T) {
	t.Parallel()
	_, postRepo, userRepo, _ := threePostFixture()
	postRepo.commentCountsByPostFn = func(_ context.Context, _ []uint) (map[uint]int64, error) {
		return nil, errors.New("connection reset")
	}
	a := NewAssembler(postRepo, userRepo)

	items, err := a.Page(context.Background(), 20, 0, 0)
	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestAssemblerPage_ClampsPageSize(t *testing.T) {
	t.Parallel()
	var gotLimit int
	postRepo := &postRepoStub{
		listPageFn: func(_ context.Context, limit, _ int) ([]*models.Post, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	a := NewAssembler(postRepo, &userRepoStub{})

	_, err := a.Page(context.Background(), 10000, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, gotLimit)

	_, err = a.Page(context.Background(), 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, gotLimit)
}

func feedLatencySamples(t *testing.T) uint64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "gardencircle_feed_assembly_latency_seconds" {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

// Not parallel: it reads the shared latency histogram.
func TestAssemblerPage_OneLatencySamplePerPage(t *testing.T) {
	_, postRepo, userRepo, _ := threePostFixture()
	a := NewAssembler(postRepo, userRepo)

	before := feedLatencySamples(t)

	_, err := a.Page(context.Background(), 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, before+1, feedLatencySamples(t))

	_, err = a.Page(context.Background(), 10, 0, 42)
	require.NoError(t, err)
	assert.Equal(t, before+2, feedLatencySamples(t))
}
