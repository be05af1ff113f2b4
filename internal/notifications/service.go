package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

// ServiceParams groups dependencies for the notification service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes in-app notification reads.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (NotificationsPageDTO, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds a notification service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	return &service{repo: params.Repo, now: time.Now}, nil
}

// List returns a page of the user's notifications.
func (s *service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (NotificationsPageDTO, error) {
	rows, nextCursor, err := s.repo.List(ctx, userID, cursor, limit)
	if err != nil {
		return NotificationsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	items := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return NotificationsPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// MarkRead stamps one notification as read.
func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, userID, notificationID, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found or already read")
	}
	return nil
}

// MarkAllRead stamps every unread notification and returns how many changed.
func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return affected, nil
}

// UnreadCount returns the user's unread notification count.
func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}
