package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
)

type DiscussionRepository interface {
	Create(ctx context.Context, post *model.Discussion) error
	FindByID(ctx context.Context, id string) (*model.Discussion, error)
	ListAll(ctx context.Context) ([]model.Discussion, error)
	// UpdateEngagement rewrites the likes and replies documents in one go;
	// like toggles and new replies both land here.
	UpdateEngagement(ctx context.Context, post *model.Discussion) error
	Delete(ctx context.Context, id string) error
}

type pgDiscussionRepository struct {
	db *sql.DB
}

func NewPgDiscussionRepository(db *sql.DB) DiscussionRepository {
	return &pgDiscussionRepository{db: db}
}

func (r *pgDiscussionRepository) Create(ctx context.Context, post *model.Discussion) error {
	likes, replies, err := marshalEngagement(post)
	if err != nil {
		return fmt.Errorf("pgDiscussionRepository.Create: %w", err)
	}
	query := `INSERT INTO discussions (id, user_id, username, profile_pic, content, image, likes, replies)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.UserID, post.Username, post.ProfilePic, post.Content, post.Image, likes, replies)
	if err != nil {
		return fmt.Errorf("pgDiscussionRepository.Create: %w", err)
	}
	return nil
}

const discussionColumns = `id, user_id, username, profile_pic, content, image, likes, replies, created_at`

func (r *pgDiscussionRepository) FindByID(ctx context.Context, id string) (*model.Discussion, error) {
	query := `SELECT ` + discussionColumns + ` FROM discussions WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post := &model.Discussion{}
	var likes, replies []byte
	err := row.Scan(&post.ID, &post.UserID, &post.Username, &post.ProfilePic,
		&post.Content, &post.Image, &likes, &replies, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgDiscussionRepository.FindByID: %w", err)
	}
	if err := unmarshalEngagement(post, likes, replies); err != nil {
		return nil, fmt.Errorf("pgDiscussionRepository.FindByID: %w", err)
	}
	return post, nil
}

func (r *pgDiscussionRepository) ListAll(ctx context.Context) ([]model.Discussion, error) {
	query := `SELECT ` + discussionColumns + ` FROM discussions ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgDiscussionRepository.ListAll: %w", err)
	}
	defer rows.Close()

	var posts []model.Discussion
	for rows.Next() {
		var post model.Discussion
		var likes, replies []byte
		if err := rows.Scan(&post.ID, &post.UserID, &post.Username, &post.ProfilePic,
			&post.Content, &post.Image, &likes, &replies, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgDiscussionRepository.ListAll: %w", err)
		}
		if err := unmarshalEngagement(&post, likes, replies); err != nil {
			return nil, fmt.Errorf("pgDiscussionRepository.ListAll: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *pgDiscussionRepository) UpdateEngagement(ctx context.Context, post *model.Discussion) error {
	likes, replies, err := marshalEngagement(post)
	if err != nil {
		return fmt.Errorf("pgDiscussionRepository.UpdateEngagement: %w", err)
	}
	query := `UPDATE discussions SET likes = $1, replies = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, likes, replies, post.ID)
	if err != nil {
		return fmt.Errorf("pgDiscussionRepository.UpdateEngagement: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgDiscussionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgDiscussionRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func marshalEngagement(post *model.Discussion) (likes, replies []byte, err error) {
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Replies == nil {
		post.Replies = []model.Reply{}
	}
	if likes, err = json.Marshal(post.Likes); err != nil {
		return nil, nil, err
	}
	replies, err = json.Marshal(post.Replies)
	return likes, replies, err
}

func unmarshalEngagement(post *model.Discussion, likes, replies []byte) error {
	if err := json.Unmarshal(likes, &post.Likes); err != nil {
		return fmt.Errorf("likes column: %w", err)
	}
	if err := json.Unmarshal(replies, &post.Replies); err != nil {
		return fmt.Errorf("replies column: %w", err)
	}
	return nil
}
