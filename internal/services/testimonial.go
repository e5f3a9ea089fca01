package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"exoticafarms/internal/domain"
	"exoticafarms/internal/metrics"
	"exoticafarms/internal/repository"
	apperrors "exoticafarms/pkg/errors"
)

// TestimonialSubmission is a review from the public form or the admin panel.
type TestimonialSubmission struct {
	Name   string `json:"name" validate:"required,max=100"`
	Role   string `json:"role" validate:"max=100"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,max=2000"`
	Image  string `json:"image" validate:"omitempty,max=2000000"`
}

// TestimonialService moderates customer testimonials. None of its
// transitions send notifications.
type TestimonialService struct {
	repo     repository.TestimonialRepository
	validate *validator.Validate
}

func NewTestimonialService(repo repository.TestimonialRepository) *TestimonialService {
	return &TestimonialService{repo: repo, validate: newValidator()}
}

func (s *TestimonialService) create(ctx context.Context, in TestimonialSubmission, status domain.Status, source string) (*domain.Testimonial, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Text = strings.TrimSpace(in.Text)
	in.Image = strings.TrimSpace(in.Image)
	log.Printf("[TESTIMONIAL] %s submission: name=%s, rating=%d", source, in.Name, in.Rating)

	if err := s.validate.Struct(in); err != nil {
		log.Printf("[TESTIMONIAL] Submission rejected: %v", err)
		return nil, validationError(err)
	}

	t := &domain.Testimonial{
		Name:    in.Name,
		Role:    in.Role,
		Message: in.Text,
		Rating:  in.Rating,
		Photo:   optional(in.Image),
		Status:  status,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		log.Printf("[TESTIMONIAL] Submission failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to submit review", err)
	}
	metrics.RecordTestimonial(source)
	log.Printf("[TESTIMONIAL] Stored: id=%s, status=%s", t.ID, t.Status)
	return t, nil
}

// Submit stores a public review awaiting moderation.
func (s *TestimonialService) Submit(ctx context.Context, in TestimonialSubmission) (*domain.Testimonial, error) {
	return s.create(ctx, in, domain.StatusPending, "public")
}

// AdminCreate stores an admin-authored review that is published immediately.
func (s *TestimonialService) AdminCreate(ctx context.Context, in TestimonialSubmission) (*domain.Testimonial, error) {
	return s.create(ctx, in, domain.StatusApproved, "admin")
}

// Approve publishes a testimonial.
func (s *TestimonialService) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.StatusApproved)
}

// Reject hides a testimonial.
func (s *TestimonialService) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.StatusRejected)
}

func (s *TestimonialService) setStatus(ctx context.Context, id string, status domain.Status) error {
	log.Printf("[TESTIMONIAL] Set status request: id=%s, status=%s", id, status)
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return testimonialStoreError("update", id, err)
	}
	return nil
}

// Delete removes a testimonial permanently.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	log.Printf("[TESTIMONIAL] Delete request: id=%s", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return testimonialStoreError("delete", id, err)
	}
	return nil
}

// ListPublic returns approved testimonials, newest first.
func (s *TestimonialService) ListPublic(ctx context.Context) ([]domain.Testimonial, error) {
	return s.list(ctx, domain.StatusApproved)
}

// ListAll returns every testimonial, newest first.
func (s *TestimonialService) ListAll(ctx context.Context) ([]domain.Testimonial, error) {
	return s.list(ctx, "")
}

func (s *TestimonialService) list(ctx context.Context, status domain.Status) ([]domain.Testimonial, error) {
	out, err := s.repo.List(ctx, status)
	if err != nil {
		log.Printf("[TESTIMONIAL] List failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch testimonials", err)
	}
	if out == nil {
		out = []domain.Testimonial{}
	}
	return out, nil
}

func photo(url string) *string { return &url }

// DefaultTestimonials are published when the table is empty.
var DefaultTestimonials = []domain.Testimonial{
	{
		Name:    "Rohan Sharma",
		Role:    "Regular Customer",
		Message: "Best mushrooms in the city! Just received my weekly box of Oyster and Button mushrooms. They were still cool from the harvest. Truly exceptional quality.",
		Rating:  5,
		Photo:   photo("https://images.unsplash.com/photo-1591254512490-309199920379?auto=format&fit=crop&q=80&w=800"),
	},
	{
		Name:    "Priya Patel",
		Role:    "Restaurant Owner",
		Message: "Just look at these colors! Our kitchen staff loves working with fresh bell peppers from Exotica. The crunch and flavor are unmatched in any local market.",
		Rating:  5,
		Photo:   photo("https://images.unsplash.com/photo-1592924357228-91a4eaadcbea?auto=format&fit=crop&q=80&w=800"),
	},
	{
		Name:    "Dr. A. Kumar",
		Role:    "Agriculture Specialist",
		Message: "A glimpse into the future of Indian farming. Managed to visit their smart polyhouse today. The level of climate control and automation is world-class.",
		Rating:  4,
		Photo:   photo("https://images.unsplash.com/photo-1500651230702-0e2d8a49d4ad?auto=format&fit=crop&q=80&w=800"),
	},
}

// SeedDefaults publishes DefaultTestimonials when no testimonial exists yet.
// It reports how many were inserted.
func (s *TestimonialService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to count testimonials", err)
	}
	if n > 0 {
		return 0, nil
	}

	// Staggered so a newest-first listing keeps the declaration order.
	base := time.Now().UTC().Add(-time.Minute)
	seed := make([]domain.Testimonial, len(DefaultTestimonials))
	for i, t := range DefaultTestimonials {
		t.Status = domain.StatusApproved
		t.CreatedAt = base.Add(-time.Duration(i) * time.Second)
		seed[i] = t
	}
	if err := s.repo.CreateBatch(ctx, seed); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to seed testimonials", err)
	}
	for range seed {
		metrics.RecordTestimonial("seed")
	}
	log.Printf("[TESTIMONIAL] Seeded %d default testimonials", len(seed))
	return len(seed), nil
}

func testimonialStoreError(action, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[TESTIMONIAL] %s failed: id=%s not found", action, id)
		return apperrors.Wrap(apperrors.ErrCodeNotFound, "Testimonial not found", err)
	}
	log.Printf("[TESTIMONIAL] %s failed: id=%s: database error: %v", action, id, err)
	return apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to update testimonial", err)
}
