package service

import (
	"context"
	"errors"
	"testing"

	"gardencircle/internal/models"

	"github.com/stretchr/testify/assert"
)

// assertValidationError asserts err is an AppError with the validation code.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	}
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	}
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, models.ErrCodeUnauthorized, appErr.Code)
	}
}

func uintPtr(v uint) *uint { return &v }

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

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		getByAuthorIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listPageFn:            func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:              func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:              func(_ context.Context, _ uint) error { return nil },
		likeCountFn:           func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		commentCountFn:        func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		hasLikedFn:            func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeCountsByPostFn:    func(_ context.Context, _ []uint) (map[uint]int64, error) { return nil, nil },
		commentCountsByPostFn: func(_ context.Context, _ []uint) (map[uint]int64, error) { return nil, nil },
		likedPostIDsFn:        func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		toggleLikeFn:          func(_ context.Context, _, _ uint) (bool, int64, error) { return false, 0, nil },
	}
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

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "gardener"}, nil
		},
		getByIDWithPostsFn: func(_ context.Context, id uint, _ int) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		setAdminFn:      func(_ context.Context, _ uint, _ bool) error { return nil },
		avatarsByUserFn: func(_ context.Context, _ []uint) (map[uint]string, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	toggleFollowFn   func(context.Context, uint, uint) (bool, error)
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	followerCountFn  func(context.Context, uint) (int64, error)
	followingCountFn func(context.Context, uint) (int64, error)
	followersFn      func(context.Context, uint, int, int) ([]models.User, error)
	followingFn      func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) ToggleFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.toggleFollowFn(ctx, followerID, followedID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *followRepoStub) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return s.followerCountFn(ctx, userID)
}
func (s *followRepoStub) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return s.followingCountFn(ctx, userID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		toggleFollowFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followerCountFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		followingCountFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		followersFn:      func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		followingFn:      func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// chatRepoStub is a stub for repository.ChatRepository.
type chatRepoStub struct {
	appendFn  func(context.Context, *models.ChatMessage) error
	historyFn func(context.Context, uint, int) ([]*models.ChatMessage, error)
}

func (s *chatRepoStub) Append(ctx context.Context, msg *models.ChatMessage) error {
	return s.appendFn(ctx, msg)
}
func (s *chatRepoStub) History(ctx context.Context, userID uint, limit int) ([]*models.ChatMessage, error) {
	return s.historyFn(ctx, userID, limit)
}

// newsRepoStub is a stub for repository.NewsRepository.
type newsRepoStub struct {
	upsertItemsFn   func(context.Context, []models.NewsItem) (int64, error)
	createItemFn    func(context.Context, *models.NewsItem) error
	listItemsFn     func(context.Context, int) ([]models.NewsItem, error)
	createArticleFn func(context.Context, *models.Article) error
	getArticleFn    func(context.Context, uint) (*models.Article, error)
	listArticlesFn  func(context.Context, int, int) ([]models.Article, error)
	deleteArticleFn func(context.Context, uint) error
}

func (s *newsRepoStub) UpsertItems(ctx context.Context, items []models.NewsItem) (int64, error) {
	return s.upsertItemsFn(ctx, items)
}
func (s *newsRepoStub) CreateItem(ctx context.Context, item *models.NewsItem) error {
	return s.createItemFn(ctx, item)
}
func (s *newsRepoStub) ListItems(ctx context.Context, limit int) ([]models.NewsItem, error) {
	return s.listItemsFn(ctx, limit)
}
func (s *newsRepoStub) CreateArticle(ctx context.Context, article *models.Article) error {
	return s.createArticleFn(ctx, article)
}
func (s *newsRepoStub) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	return s.getArticleFn(ctx, id)
}
func (s *newsRepoStub) ListArticles(ctx context.Context, limit, offset int) ([]models.Article, error) {
	return s.listArticlesFn(ctx, limit, offset)
}
func (s *newsRepoStub) DeleteArticle(ctx context.Context, id uint) error {
	return s.deleteArticleFn(ctx, id)
}
