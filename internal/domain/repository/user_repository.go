package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// UpdateProfile rewrites the full gamification state. It performs a
	// compare-and-swap on Version and returns common.ErrConflict when the
	// stored row moved underneath the caller.
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateAvatar(ctx context.Context, userID, profilePic string) error
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
	TopUser(ctx context.Context) (*model.User, error)
	ListSyncableIDs(ctx context.Context) ([]string, error)
	// PenalizeInactive zeroes the streak and deducts penalty points
	// (floored at 0) for a single profile that has not solved today.
	// Returns false when the profile was active today and left untouched.
	PenalizeInactive(ctx context.Context, userID, today string, penalty int) (bool, error)
	ResetAllPoints(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, name, email, hashed_password, leetcode_handle, profile_pic, role,
	easy_solved, medium_solved, hard_solved, total_solved,
	points, streak, last_solve_date, badges, topics, daily_history,
	version, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	badges, topics, history, err := marshalProfileDocs(user)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	query := `INSERT INTO users (id, name, email, hashed_password, leetcode_handle, profile_pic, role,
	            badges, topics, daily_history)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.HashedPassword, user.LeetCodeHandle, user.ProfilePic, user.Role,
		badges, topics, history,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email or handle already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), "FindByEmail")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgUserRepository) scanUser(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	var badges, topics, history []byte
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.LeetCodeHandle, &user.ProfilePic, &user.Role,
		&user.Stats.EasySolved, &user.Stats.MediumSolved, &user.Stats.HardSolved, &user.Stats.TotalSolved,
		&user.Points, &user.Streak, &user.LastSolveDate, &badges, &topics, &history,
		&user.Version, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	if err := unmarshalProfileDocs(user, badges, topics, history); err != nil {
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	badges, topics, history, err := marshalProfileDocs(user)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	query := `UPDATE users SET
	            easy_solved = $1, medium_solved = $2, hard_solved = $3, total_solved = $4,
	            points = $5, streak = $6, last_solve_date = $7,
	            badges = $8, topics = $9, daily_history = $10,
	            version = version + 1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $11 AND version = $12`
	res, err := r.db.ExecContext(ctx, query,
		user.Stats.EasySolved, user.Stats.MediumSolved, user.Stats.HardSolved, user.Stats.TotalSolved,
		user.Points, user.Streak, user.LastSolveDate,
		badges, topics, history,
		user.ID, user.Version,
	)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile %s changed concurrently: %w", user.ID, common.ErrConflict)
	}
	user.Version++
	return nil
}

func (r *pgUserRepository) UpdateAvatar(ctx context.Context, userID, profilePic string) error {
	query := `UPDATE users SET profile_pic = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, profilePic, userID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateAvatar: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	query := `SELECT id, name, leetcode_handle, profile_pic, points, streak,
	            easy_solved, medium_solved, hard_solved, total_solved
	          FROM users WHERE role <> $1
	          ORDER BY points DESC, total_solved DESC`
	rows, err := r.db.QueryContext(ctx, query, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.Leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	rank := 0
	for rows.Next() {
		rank++
		e := model.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(
			&e.UserID, &e.Name, &e.LeetCodeHandle, &e.ProfilePic, &e.Points, &e.Streak,
			&e.Stats.EasySolved, &e.Stats.MediumSolved, &e.Stats.HardSolved, &e.Stats.TotalSolved,
		); err != nil {
			return nil, fmt.Errorf("pgUserRepository.Leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pgUserRepository) TopUser(ctx context.Context) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE role <> $1 AND points > 0
	          ORDER BY points DESC, total_solved DESC LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, model.RoleAdmin), "TopUser")
}

func (r *pgUserRepository) ListSyncableIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM users WHERE leetcode_handle <> '' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListSyncableIDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListSyncableIDs: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgUserRepository) PenalizeInactive(ctx context.Context, userID, today string, penalty int) (bool, error) {
	query := `UPDATE users SET
	            streak = 0,
	            points = GREATEST(0, points - $1),
	            version = version + 1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2 AND last_solve_date <> $3`
	res, err := r.db.ExecContext(ctx, query, penalty, userID, today)
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.PenalizeInactive: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.PenalizeInactive: %w", err)
	}
	return rows > 0, nil
}

func (r *pgUserRepository) ResetAllPoints(ctx context.Context) error {
	query := `UPDATE users SET points = 0, version = version + 1, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("pgUserRepository.ResetAllPoints: %w", err)
	}
	return nil
}

func (r *pgUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// marshalProfileDocs serializes the document-shaped profile fields for
// their JSONB columns. Empty slices are stored as [] rather than null.
func marshalProfileDocs(user *model.User) (badges, topics, history []byte, err error) {
	if badges, err = json.Marshal(emptyIfNil(user.Badges)); err != nil {
		return nil, nil, nil, err
	}
	if user.Topics == nil {
		user.Topics = []model.TopicCount{}
	}
	if topics, err = json.Marshal(user.Topics); err != nil {
		return nil, nil, nil, err
	}
	if user.DailyHistory == nil {
		user.DailyHistory = []model.DailyActivity{}
	}
	history, err = json.Marshal(user.DailyHistory)
	return badges, topics, history, err
}

func unmarshalProfileDocs(user *model.User, badges, topics, history []byte) error {
	if err := json.Unmarshal(badges, &user.Badges); err != nil {
		return fmt.Errorf("badges column: %w", err)
	}
	if err := json.Unmarshal(topics, &user.Topics); err != nil {
		return fmt.Errorf("topics column: %w", err)
	}
	if err := json.Unmarshal(history, &user.DailyHistory); err != nil {
		return fmt.Errorf("daily_history column: %w", err)
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
