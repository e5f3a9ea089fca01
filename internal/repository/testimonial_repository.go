package repository

import (
	"context"
	"time"

	"exoticafarms/internal/domain"

	"gorm.io/gorm"
)

// TestimonialRepository persists customer testimonials.
type TestimonialRepository interface {
	Create(ctx context.Context, t *domain.Testimonial) error
	CreateBatch(ctx context.Context, ts []domain.Testimonial) error
	GetByID(ctx context.Context, id string) (*domain.Testimonial, error)
	List(ctx context.Context, status domain.Status) ([]domain.Testimonial, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error
}

type testimonialRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func (r *testimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(t).Error
	return observe("testimonial_create", start, err)
}

func (r *testimonialRepository) CreateBatch(ctx context.Context, ts []domain.Testimonial) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(&ts).Error
	return observe("testimonial_create_batch", start, err)
}

func (r *testimonialRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	start := time.Now()
	var t domain.Testimonial
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err := observe("testimonial_get", start, err); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns testimonials newest first. An empty status returns all of them.
func (r *testimonialRepository) List(ctx context.Context, status domain.Status) ([]domain.Testimonial, error) {
	start := time.Now()
	var out []domain.Testimonial
	q := r.db.WithContext(ctx).Model(&domain.Testimonial{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&out).Error
	if err := observe("testimonial_list", start, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *testimonialRepository) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Testimonial{}).Count(&n).Error
	return n, observe("testimonial_count", start, err)
}

func (r *testimonialRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	start := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Testimonial{ID: id}).Update("status", status)
	return observe("testimonial_update_status", start, affected(res))
}

func (r *testimonialRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Testimonial{})
	return observe("testimonial_delete", start, affected(res))
}
