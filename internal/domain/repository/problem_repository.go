package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	Update(ctx context.Context, problem *model.Problem) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindLatest(ctx context.Context) (*model.Problem, error)
	ListAll(ctx context.Context) ([]model.Problem, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, problem *model.Problem) error {
	query := `INSERT INTO problems (id, title, slug, link, difficulty)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		problem.ID, problem.Title, problem.Slug, problem.Link, problem.Difficulty)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) Update(ctx context.Context, problem *model.Problem) error {
	query := `UPDATE problems SET title = $1, slug = $2, link = $3, difficulty = $4,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query,
		problem.Title, problem.Slug, problem.Link, problem.Difficulty, problem.ID)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Update: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProblemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

const problemColumns = `id, title, slug, link, difficulty, created_at, updated_at`

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1`
	return r.scanProblem(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgProblemRepository) FindLatest(ctx context.Context) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems ORDER BY created_at DESC LIMIT 1`
	return r.scanProblem(r.db.QueryRowContext(ctx, query), "FindLatest")
}

func (r *pgProblemRepository) ListAll(ctx context.Context) ([]model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListAll: %w", err)
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Link, &p.Difficulty, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListAll: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

func (r *pgProblemRepository) scanProblem(row *sql.Row, op string) (*model.Problem, error) {
	p := &model.Problem{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Link, &p.Difficulty, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.%s: %w", op, err)
	}
	return p, nil
}
