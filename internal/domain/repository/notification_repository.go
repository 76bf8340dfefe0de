package repository

import (
	"context"
	"database/sql"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListAll(ctx context.Context) ([]model.Notification, error)
	Delete(ctx context.Context, id string) error
}

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications (id, message, type, created_by) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, n.ID, n.Message, n.Type, n.CreatedBy); err != nil {
		return fmt.Errorf("pgNotificationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) ListAll(ctx context.Context) ([]model.Notification, error) {
	query := `SELECT id, message, type, created_by, created_at FROM notifications ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListAll: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListAll: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *pgNotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
