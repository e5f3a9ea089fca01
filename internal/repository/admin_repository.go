package repository

import (
	"context"
	"time"

	"exoticafarms/internal/domain"

	"gorm.io/gorm"
)

// AdminRepository persists administrator credentials.
type AdminRepository interface {
	Create(ctx context.Context, a *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(a).Error
	return observe("admin_create", start, err)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	start := time.Now()
	var a domain.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if err := observe("admin_get_by_email", start, err); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	start := time.Now()
	var a domain.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err := observe("admin_get", start, err); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	start := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Admin{ID: id}).Update("password_hash", hash)
	return observe("admin_update_password", start, affected(res))
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	start := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Admin{ID: id}).Update("last_login", at)
	return observe("admin_touch_last_login", start, affected(res))
}
