package service

import (
	"context"
	"fmt"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
	"algopulse/internal/domain/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

type CreateNotificationRequest struct {
	Message   string                 `json:"message"`
	Type      model.NotificationType `json:"type"`
	CreatedBy string                 `json:"created_by"`
}

func (s *NotificationService) Broadcast(ctx context.Context, req CreateNotificationRequest) (*model.Notification, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("message is required: %w", common.ErrBadRequest)
	}
	if req.Type == "" {
		req.Type = model.NotificationUpdate
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("unknown notification type %q: %w", req.Type, common.ErrValidation)
	}

	n := &model.Notification{
		ID:        uuid.NewString(),
		Message:   req.Message,
		Type:      req.Type,
		CreatedBy: req.CreatedBy,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id string) error {
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
