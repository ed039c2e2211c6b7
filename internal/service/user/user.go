// Package user covers the profile surface shared by all roles: reading
// and updating one's own profile, plus the public doctor directory.
package user

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	Profile(ctx context.Context, id bson.ObjectID) (*model.User, error)
	// UpdateProfile applies the allow-listed fields only; email and role
	// cannot change through this surface.
	UpdateProfile(ctx context.Context, id bson.ObjectID, upd model.ProfileUpdate) (*model.User, error)
	ListDoctors(ctx context.Context) ([]model.DoctorSummary, error)
}

type userService struct {
	users store.UserStore
}

func New(users store.UserStore) Service {
	return &userService{users: users}
}

func (s *userService) Profile(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id bson.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		// Nothing to change; return the current document.
		return s.Profile(ctx, id)
	}

	u, err := s.users.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *userService) ListDoctors(ctx context.Context) ([]model.DoctorSummary, error) {
	doctors, err := s.users.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}
