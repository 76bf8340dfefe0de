package service

import (
	"context"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
	"algopulse/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	lbCache  *LeaderboardCache
}

func NewUserService(userRepo repository.UserRepository, lbCache *LeaderboardCache) *UserService {
	return &UserService{userRepo: userRepo, lbCache: lbCache}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

type UpdateAvatarRequest struct {
	ProfilePic string `json:"profile_pic"`
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID string, req UpdateAvatarRequest) error {
	if req.ProfilePic == "" {
		return fmt.Errorf("profile_pic is required: %w", common.ErrBadRequest)
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, req.ProfilePic); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

// Leaderboard serves the ranked board, cache-first. Admin accounts are
// excluded from ranking.
func (s *UserService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if entries, ok := s.lbCache.Get(ctx); ok {
		return entries, nil
	}
	entries, err := s.userRepo.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	s.lbCache.Set(ctx, entries)
	return entries, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.lbCache.Invalidate(ctx)
	return nil
}

// ResetAllPoints is the admin seasonal reset: every profile back to zero
// points. Streaks and badges are untouched.
func (s *UserService) ResetAllPoints(ctx context.Context) error {
	if err := s.userRepo.ResetAllPoints(ctx); err != nil {
		return fmt.Errorf("failed to reset points: %w", err)
	}
	s.lbCache.Invalidate(ctx)
	return nil
}
