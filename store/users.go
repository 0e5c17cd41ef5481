package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// Users persists signed-in profiles. Profile rows are advisory: when the
// remote store is down, sign-in still succeeds with the identity provider's
// claims alone.
type Users struct {
	db *gorm.DB // nil when the remote store is not configured
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Upsert creates the user on first sign-in and refreshes the profile after.
func (u *Users) Upsert(ctx context.Context, user *models.User) error {
	if u.db == nil {
		return nil
	}
	var row UserRow
	err := u.db.WithContext(ctx).First(&row, "id = ?", user.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = UserRow{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Picture:   user.Picture,
			Role:      user.Role,
			CreatedAt: time.Now(),
		}
		if err := u.db.WithContext(ctx).Create(&row).Error; err != nil {
			return remoteErr("create user", err)
		}
		return nil
	case err != nil:
		return remoteErr("select user", err)
	default:
		updates := UserRow{Name: user.Name, Picture: user.Picture, Role: user.Role}
		if err := u.db.WithContext(ctx).Model(&row).Updates(updates).Error; err != nil {
			return remoteErr("update user", err)
		}
		return nil
	}
}
