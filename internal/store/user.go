package store

import (
	"context"
	"fmt"

	"gift_catalog/internal/model"
)

// FindUserByID looks up a user by identity
func (s *Store) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find user %d", id))
	}
	return &user, nil
}

// FindUserByLogin looks up a user by login name
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).Where("login = ?", login).First(&user).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find user %q", login))
	}
	return &user, nil
}

// CreateUser inserts a user
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return translate(err, "create user")
	}
	return nil
}
