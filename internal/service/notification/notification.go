// Package notification exposes the in-app notification feed. Documents are
// produced by the event workers; this service only reads and acknowledges.
package notification

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Service interface {
	List(ctx context.Context, userID bson.ObjectID) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID bson.ObjectID) error
}

type notificationService struct {
	notifications store.NotificationStore
}

func New(notifications store.NotificationStore) Service {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, userID bson.ObjectID) ([]model.Notification, error) {
	out, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if out == nil {
		out = []model.Notification{}
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID bson.ObjectID) error {
	err := s.notifications.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
