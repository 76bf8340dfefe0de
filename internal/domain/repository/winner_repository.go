package repository

import (
	"context"
	"database/sql"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
)

type WinnerRepository interface {
	Create(ctx context.Context, winner *model.Winner) error
	ListAll(ctx context.Context) ([]model.Winner, error)
	Delete(ctx context.Context, id string) error
}

type pgWinnerRepository struct {
	db *sql.DB
}

func NewPgWinnerRepository(db *sql.DB) WinnerRepository {
	return &pgWinnerRepository{db: db}
}

func (r *pgWinnerRepository) Create(ctx context.Context, winner *model.Winner) error {
	query := `INSERT INTO winners (id, week_ending, user_id, name, points, leetcode_handle, profile_pic,
	            easy_solved, medium_solved, hard_solved, total_solved)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		winner.ID, winner.WeekEnding, winner.UserID, winner.Name, winner.Points,
		winner.LeetCodeHandle, winner.ProfilePic,
		winner.Stats.EasySolved, winner.Stats.MediumSolved, winner.Stats.HardSolved, winner.Stats.TotalSolved,
	)
	if err != nil {
		return fmt.Errorf("pgWinnerRepository.Create: %w", err)
	}
	return nil
}

func (r *pgWinnerRepository) ListAll(ctx context.Context) ([]model.Winner, error) {
	query := `SELECT id, week_ending, user_id, name, points, leetcode_handle, profile_pic,
	            easy_solved, medium_solved, hard_solved, total_solved, created_at
	          FROM winners ORDER BY week_ending DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgWinnerRepository.ListAll: %w", err)
	}
	defer rows.Close()

	var winners []model.Winner
	for rows.Next() {
		var w model.Winner
		if err := rows.Scan(
			&w.ID, &w.WeekEnding, &w.UserID, &w.Name, &w.Points, &w.LeetCodeHandle, &w.ProfilePic,
			&w.Stats.EasySolved, &w.Stats.MediumSolved, &w.Stats.HardSolved, &w.Stats.TotalSolved, &w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgWinnerRepository.ListAll: %w", err)
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

func (r *pgWinnerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM winners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgWinnerRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
