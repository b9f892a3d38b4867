package service

import (
	"context"

	"gardencircle/internal/models"
	"gardencircle/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// FollowResult is the outcome of one follow toggle.
type FollowResult struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"followerCount"`
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// ToggleFollow flips the follow edge from the caller to the target. Users
// cannot follow themselves, and the target must exist.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followedID uint) (*FollowResult, error) {
	if followerID == followedID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return nil, err
	}

	following, err := s.followRepo.ToggleFollow(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	count, err := s.followRepo.FollowerCount(ctx, followedID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{Following: following, FollowerCount: count}, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	// You never follow yourself; answered without touching storage.
	if followerID == followedID {
		return false, nil
	}
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}

func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID, clampLimit(limit), clampOffset(offset))
}

func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID, clampLimit(limit), clampOffset(offset))
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
