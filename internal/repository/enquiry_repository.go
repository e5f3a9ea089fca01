package repository

import (
	"context"
	"time"

	"exoticafarms/internal/domain"

	"gorm.io/gorm"
)

// EnquiryRepository persists contact and farm-visit enquiries.
type EnquiryRepository interface {
	Create(ctx context.Context, e *domain.Enquiry) error
	GetByID(ctx context.Context, id string) (*domain.Enquiry, error)
	List(ctx context.Context, t domain.EnquiryType, f domain.EnquiryFilter) ([]domain.Enquiry, error)
	Counts(ctx context.Context, t domain.EnquiryType) (domain.EnquiryCounts, error)
	CountByType(ctx context.Context, t domain.EnquiryType) (int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, reason *string) (*domain.Enquiry, error)
	MarkContacted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type enquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(ctx context.Context, e *domain.Enquiry) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(e).Error
	return observe("enquiry_create", start, err)
}

func (r *enquiryRepository) GetByID(ctx context.Context, id string) (*domain.Enquiry, error) {
	start := time.Now()
	var e domain.Enquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err := observe("enquiry_get", start, err); err != nil {
		return nil, err
	}
	return &e, nil
}

func applyFilter(q *gorm.DB, f domain.EnquiryFilter) *gorm.DB {
	switch f {
	case domain.FilterPending:
		return q.Where("status = ? AND is_contacted = ?", domain.StatusPending, false)
	case domain.FilterCommunicating:
		return q.Where("status = ? AND is_contacted = ?", domain.StatusPending, true)
	case domain.FilterApproved:
		return q.Where("status = ?", domain.StatusApproved)
	case domain.FilterRejected:
		return q.Where("status = ?", domain.StatusRejected)
	}
	return q
}

func (r *enquiryRepository) List(ctx context.Context, t domain.EnquiryType, f domain.EnquiryFilter) ([]domain.Enquiry, error) {
	start := time.Now()
	var out []domain.Enquiry
	q := r.db.WithContext(ctx).Model(&domain.Enquiry{})
	if t != "" {
		q = q.Where("type = ?", t)
	}
	err := applyFilter(q, f).Order("created_at DESC").Find(&out).Error
	if err := observe("enquiry_list", start, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enquiryRepository) Counts(ctx context.Context, t domain.EnquiryType) (domain.EnquiryCounts, error) {
	start := time.Now()
	var c domain.EnquiryCounts
	targets := []struct {
		filter domain.EnquiryFilter
		dst    *int64
	}{
		{domain.FilterAll, &c.All},
		{domain.FilterPending, &c.Pending},
		{domain.FilterCommunicating, &c.Communicating},
		{domain.FilterApproved, &c.Approved},
		{domain.FilterRejected, &c.Rejected},
	}
	for _, tg := range targets {
		q := r.db.WithContext(ctx).Model(&domain.Enquiry{})
		if t != "" {
			q = q.Where("type = ?", t)
		}
		if err := applyFilter(q, tg.filter).Count(tg.dst).Error; err != nil {
			return c, observe("enquiry_counts", start, err)
		}
	}
	return c, observe("enquiry_counts", start, nil)
}

func (r *enquiryRepository) CountByType(ctx context.Context, t domain.EnquiryType) (int64, error) {
	start := time.Now()
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Enquiry{}).Where("type = ?", t).Count(&n).Error
	return n, observe("enquiry_count", start, err)
}

// UpdateStatus writes the new status. A nil reason clears any stored
// rejection reason.
func (r *enquiryRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, reason *string) (*domain.Enquiry, error) {
	start := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Enquiry{ID: id}).Updates(map[string]interface{}{
		"status":           status,
		"rejection_reason": reason,
	})
	if err := observe("enquiry_update_status", start, affected(res)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *enquiryRepository) MarkContacted(ctx context.Context, id string) error {
	start := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Enquiry{ID: id}).Update("is_contacted", true)
	return observe("enquiry_mark_contacted", start, affected(res))
}

func (r *enquiryRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Enquiry{})
	return observe("enquiry_delete", start, affected(res))
}
