package services

import (
	"context"
	"log"

	"exoticafarms/internal/domain"
	"exoticafarms/internal/repository"
	apperrors "exoticafarms/pkg/errors"
)

// DashboardStats are the admin landing page totals.
type DashboardStats struct {
	Testimonials     int64 `json:"testimonials"`
	FarmVisits       int64 `json:"farmVisits"`
	ContactEnquiries int64 `json:"contactEnquiries"`
}

type DashboardService struct {
	enquiries    repository.EnquiryRepository
	testimonials repository.TestimonialRepository
}

func NewDashboardService(enquiries repository.EnquiryRepository, testimonials repository.TestimonialRepository) *DashboardService {
	return &DashboardService{enquiries: enquiries, testimonials: testimonials}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	var err error
	if st.Testimonials, err = s.testimonials.Count(ctx); err != nil {
		log.Printf("[DASHBOARD] Count testimonials failed: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to load dashboard", err)
	}
	if st.FarmVisits, err = s.enquiries.CountByType(ctx, domain.EnquiryTypeFarmVisit); err != nil {
		log.Printf("[DASHBOARD] Count farm visits failed: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to load dashboard", err)
	}
	if st.ContactEnquiries, err = s.enquiries.CountByType(ctx, domain.EnquiryTypeContact); err != nil {
		log.Printf("[DASHBOARD] Count contact enquiries failed: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to load dashboard", err)
	}
	return &st, nil
}
