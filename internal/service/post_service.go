// Package service holds the business rules between HTTP handlers and the
// data access layer.
package service

import (
	"context"

	"gardencircle/internal/models"
	"gardencircle/internal/repository"
	"gardencircle/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID  uint
	Content   string
	ImagePath string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// LikeResult is the outcome of one like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	authorID := in.AuthorID
	post := &models.Post{
		AuthorID: &authorID,
		// Snapshot of the username at post time. It survives account
		// deletion so threads stay attributed.
		AuthorName: author.Username,
		Content:    in.Content,
		ImagePath:  in.ImagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) GetUserPosts(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, viewerID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !s.canModify(ctx, in.UserID, post.AuthorID) {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !s.canModify(ctx, userID, post.AuthorID) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post and returns the new state.
// The post must exist; the toggle itself runs in one transaction.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	liked, count, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// canModify allows the author or an admin.
func (s *PostService) canModify(ctx context.Context, userID uint, authorID *uint) bool {
	if authorID != nil && *authorID == userID {
		return true
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsAdmin
}
