package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
	"algopulse/internal/domain/repository"

	"github.com/google/uuid"
)

type WinnerService struct {
	winnerRepo repository.WinnerRepository
	userRepo   repository.UserRepository
}

func NewWinnerService(winnerRepo repository.WinnerRepository, userRepo repository.UserRepository) *WinnerService {
	return &WinnerService{winnerRepo: winnerRepo, userRepo: userRepo}
}

// DeclareWeeklyWinner snapshots the current top user (by points, then
// total solved) into the Hall of Fame. Requires at least one non-admin
// profile with points.
func (s *WinnerService) DeclareWeeklyWinner(ctx context.Context) (*model.Winner, error) {
	top, err := s.userRepo.TopUser(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("no eligible activity this week: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find top user: %w", err)
	}

	winner := &model.Winner{
		ID:             uuid.NewString(),
		WeekEnding:     time.Now().UTC(),
		UserID:         top.ID,
		Name:           top.Name,
		Points:         top.Points,
		LeetCodeHandle: top.LeetCodeHandle,
		ProfilePic:     top.ProfilePic,
		Stats:          top.Stats,
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to record winner: %w", err)
	}
	return winner, nil
}

func (s *WinnerService) HallOfFame(ctx context.Context) ([]model.Winner, error) {
	winners, err := s.winnerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hall of fame: %w", err)
	}
	return winners, nil
}

func (s *WinnerService) DeleteWinner(ctx context.Context, id string) error {
	if err := s.winnerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete winner: %w", err)
	}
	return nil
}
