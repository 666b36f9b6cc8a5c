package services

import (
	"context"
	"strings"

	"funding-application-api/models"

	"gorm.io/gorm"
)

// UserService reads the accounts used for login and notifications.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// FindByEmail returns the active user with email, or nil when none exists.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ? AND delete_at IS NULL", strings.ToLower(strings.TrimSpace(email)))
}

// FindByID returns the active user with id, or nil when none exists.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, "user_id = ? AND delete_at IS NULL", id)
}

func (s *UserService) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where(query, arg).Find(&users).Error; err != nil {
		return nil, storageErr("load user", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
