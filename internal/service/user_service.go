package service

import (
	"context"

	"gardencircle/internal/models"
	"gardencircle/internal/repository"
	"gardencircle/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
}

// Profile is a public view of one user plus their graph counts.
type Profile struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	Avatar         string `json:"avatar"`
	IsAdmin        bool   `json:"isAdmin"`
	FollowerCount  int64  `json:"followerCount"`
	FollowingCount int64  `json:"followingCount"`
	Following      bool   `json:"following"`
}

type UpdateProfileInput struct {
	UserID uint
	Bio    *string
	Avatar *string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
	}
}

// GetProfile returns one user's public profile. When viewerID is nonzero the
// Following field reflects the viewer's edge to this user.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.FollowerCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.FollowingCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:             user.ID,
		Username:       user.Username,
		Bio:            user.Bio,
		Avatar:         user.Avatar,
		IsAdmin:        user.IsAdmin,
		FollowerCount:  followers,
		FollowingCount: following,
	}
	if viewerID != 0 && viewerID != userID {
		edge, err := s.followRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.Following = edge
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, clampLimit(limit), clampOffset(offset))
}

// DeleteUser removes an account. Users may delete themselves; admins may
// delete anyone. Engagement rows go with the account, posts and comments
// stay behind anonymized.
func (s *UserService) DeleteUser(ctx context.Context, callerID, targetID uint) error {
	if callerID != targetID {
		caller, err := s.userRepo.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		if !caller.IsAdmin {
			return models.NewUnauthorizedError("Admin access required")
		}
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.userRepo.DeleteWithContent(ctx, targetID)
}

// SetAdmin grants or revokes the admin role. Only admins may call this.
func (s *UserService) SetAdmin(ctx context.Context, callerID, targetID uint, isAdmin bool) error {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return models.NewUnauthorizedError("Admin access required")
	}
	if callerID == targetID && !isAdmin {
		return models.NewValidationError("You cannot revoke your own admin role")
	}
	return s.userRepo.SetAdmin(ctx, targetID, isAdmin)
}

// IsAdmin reports whether a user holds the admin role.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
