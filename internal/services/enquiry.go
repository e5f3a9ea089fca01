package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"exoticafarms/internal/domain"
	"exoticafarms/internal/metrics"
	"exoticafarms/internal/repository"
	apperrors "exoticafarms/pkg/errors"
)

// ContactSubmission is the public contact form.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,phone,min=7,max=20"`
	Message string `json:"message" validate:"required,max=5000"`
}

// FarmVisitSubmission is the public booking form. Metadata is the
// string-encoded visit object.
type FarmVisitSubmission struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,phone,min=7,max=20"`
	Message  string `json:"message" validate:"max=5000"`
	Metadata string `json:"metadata" validate:"required"`
}

// ReplyInput is an admin-composed reply. An empty Subject uses the default.
type ReplyInput struct {
	Message string `json:"message" validate:"required,max=10000"`
	Subject string `json:"subject" validate:"max=200"`
}

// EnquiryList is one admin list view with the counts for every filter.
type EnquiryList struct {
	Enquiries []domain.Enquiry     `json:"enquiries"`
	Counts    domain.EnquiryCounts `json:"counts"`
}

// EnquiryService runs the enquiry lifecycle: submission, moderation and
// contact tracking.
type EnquiryService struct {
	repo     repository.EnquiryRepository
	notifier Notifier
	validate *validator.Validate
	strict   bool
}

// NewEnquiryService creates an enquiry service. With strict set, approve and
// reject refuse records that already left pending.
func NewEnquiryService(repo repository.EnquiryRepository, notifier Notifier, strict bool) *EnquiryService {
	return &EnquiryService{
		repo:     repo,
		notifier: notifier,
		validate: newValidator(),
		strict:   strict,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SubmitContact stores a contact enquiry, alerts the admin and acknowledges the sender.
func (s *EnquiryService) SubmitContact(ctx context.Context, in ContactSubmission) (*domain.Enquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	log.Printf("[ENQUIRY] Contact submission: name=%s, email=%s", in.Name, in.Email)

	if err := s.validate.Struct(in); err != nil {
		log.Printf("[ENQUIRY] Contact submission rejected: %v", err)
		return nil, validationError(err)
	}

	e := &domain.Enquiry{
		Type:    domain.EnquiryTypeContact,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   optional(in.Phone),
		Message: in.Message,
		Status:  domain.StatusPending,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.Printf("[ENQUIRY] Contact submission failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to send message", err)
	}
	log.Printf("[ENQUIRY] Contact enquiry stored: id=%s", e.ID)
	metrics.RecordEnquirySubmission(string(e.Type))

	s.notifier.NotifyAdmin(ctx, KindContact, e)
	s.notifier.AcknowledgeEnquiry(ctx, e)
	return e, nil
}

// SubmitFarmVisit validates the visit details, stores a pending booking,
// alerts the admin and confirms receipt to the visitor.
func (s *EnquiryService) SubmitFarmVisit(ctx context.Context, in FarmVisitSubmission) (*domain.Enquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	log.Printf("[ENQUIRY] Farm visit submission: name=%s, email=%s", in.Name, in.Email)

	if err := s.validate.Struct(in); err != nil {
		log.Printf("[ENQUIRY] Farm visit submission rejected: %v", err)
		return nil, validationError(err)
	}
	visit, err := domain.ParseVisitDetails(ctx, in.Metadata)
	if err != nil {
		log.Printf("[ENQUIRY] Farm visit submission rejected: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeValidation, err.Error(), err)
	}
	encoded, err := visit.Encode()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to book visit", err)
	}

	e := &domain.Enquiry{
		Type:     domain.EnquiryTypeFarmVisit,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    optional(in.Phone),
		Message:  in.Message,
		Metadata: datatypes.JSON(encoded),
		Status:   domain.StatusPending,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.Printf("[ENQUIRY] Farm visit submission failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to book visit", err)
	}
	log.Printf("[ENQUIRY] Farm visit stored: id=%s, date=%s, visitors=%d", e.ID, visit.Date, visit.Visitors)
	metrics.RecordEnquirySubmission(string(e.Type))

	s.notifier.NotifyAdmin(ctx, KindFarmVisit, e)
	s.notifier.NotifyVisitStatus(ctx, VisitReceived, e, "")
	return e, nil
}

// List returns enquiries of type t matching f, newest first, with per-filter counts.
// An empty type lists both kinds.
func (s *EnquiryService) List(ctx context.Context, t domain.EnquiryType, f domain.EnquiryFilter) (*EnquiryList, error) {
	if t != "" && !t.Valid() {
		return nil, apperrors.Validation("unknown enquiry type: %s", t)
	}
	items, err := s.repo.List(ctx, t, f)
	if err != nil {
		log.Printf("[ENQUIRY] List failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch enquiries", err)
	}
	counts, err := s.repo.Counts(ctx, t)
	if err != nil {
		log.Printf("[ENQUIRY] Counts failed: database error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch enquiries", err)
	}
	if items == nil {
		items = []domain.Enquiry{}
	}
	return &EnquiryList{Enquiries: items, Counts: counts}, nil
}

// Get returns one enquiry.
func (s *EnquiryService) Get(ctx context.Context, id string) (*domain.Enquiry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get", id, err)
	}
	return e, nil
}

// Approve moves the enquiry to approved and tells the visitor.
func (s *EnquiryService) Approve(ctx context.Context, id string) (*domain.Enquiry, error) {
	log.Printf("[ENQUIRY] Approve request: id=%s", id)
	e, err := s.decide(ctx, id, domain.DecisionApprove, nil)
	metrics.RecordEnquiryTransition("approve", err == nil)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyVisitStatus(ctx, VisitApproved, e, "")
	log.Printf("[ENQUIRY] Approve successful: id=%s", id)
	return e, nil
}

// Reject records the reason, moves the enquiry to rejected and tells the
// visitor. An empty reason is refused before anything is written.
func (s *EnquiryService) Reject(ctx context.Context, id, reason string) (*domain.Enquiry, error) {
	reason = strings.TrimSpace(reason)
	log.Printf("[ENQUIRY] Reject request: id=%s", id)
	if reason == "" {
		metrics.RecordEnquiryTransition("reject", false)
		return nil, apperrors.Validation("a rejection reason is required")
	}
	e, err := s.decide(ctx, id, domain.DecisionReject, &reason)
	metrics.RecordEnquiryTransition("reject", err == nil)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyVisitStatus(ctx, VisitRejected, e, reason)
	log.Printf("[ENQUIRY] Reject successful: id=%s", id)
	return e, nil
}

func (s *EnquiryService) decide(ctx context.Context, id string, d domain.Decision, reason *string) (*domain.Enquiry, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(string(d), id, err)
	}
	next, err := current.Status.Next(d, s.strict)
	if err != nil {
		log.Printf("[ENQUIRY] %s refused: id=%s is already %s", d, id, current.Status)
		if errors.Is(err, domain.ErrAlreadyDecided) {
			return nil, apperrors.Wrap(apperrors.ErrCodeConflict, "Enquiry has already been "+string(current.Status), err)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to update enquiry", err)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, next, reason)
	if err != nil {
		return nil, storeError(string(d), id, err)
	}
	return updated, nil
}

// MarkContacted flags the enquiry as contacted without sending anything.
func (s *EnquiryService) MarkContacted(ctx context.Context, id string) error {
	log.Printf("[ENQUIRY] Mark contacted request: id=%s", id)
	err := s.repo.MarkContacted(ctx, id)
	metrics.RecordEnquiryTransition("contacted", err == nil)
	if err != nil {
		return storeError("mark contacted", id, err)
	}
	return nil
}

// Reply emails the sender and marks the enquiry contacted only once the
// email has been accepted for delivery.
func (s *EnquiryService) Reply(ctx context.Context, id string, in ReplyInput) error {
	in.Message = strings.TrimSpace(in.Message)
	in.Subject = strings.TrimSpace(in.Subject)
	log.Printf("[ENQUIRY] Reply request: id=%s", id)
	if err := s.validate.Struct(in); err != nil {
		metrics.RecordEnquiryTransition("reply", false)
		return validationError(err)
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.RecordEnquiryTransition("reply", false)
		return storeError("reply", id, err)
	}
	if err := s.notifier.SendDirectReply(ctx, e.Email, e.Name, in.Subject, in.Message); err != nil {
		metrics.RecordEnquiryTransition("reply", false)
		log.Printf("[ENQUIRY] Reply failed: id=%s: email not sent: %v", id, err)
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to send email", err)
	}
	if err := s.repo.MarkContacted(ctx, id); err != nil {
		metrics.RecordEnquiryTransition("reply", false)
		return storeError("reply", id, err)
	}
	metrics.RecordEnquiryTransition("reply", true)
	log.Printf("[ENQUIRY] Reply successful: id=%s", id)
	return nil
}

// Delete removes the enquiry permanently.
func (s *EnquiryService) Delete(ctx context.Context, id string) error {
	log.Printf("[ENQUIRY] Delete request: id=%s", id)
	err := s.repo.Delete(ctx, id)
	metrics.RecordEnquiryTransition("delete", err == nil)
	if err != nil {
		return storeError("delete", id, err)
	}
	return nil
}

func storeError(action, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[ENQUIRY] %s failed: id=%s not found", action, id)
		return apperrors.Wrap(apperrors.ErrCodeNotFound, "Enquiry not found", err)
	}
	log.Printf("[ENQUIRY] %s failed: id=%s: database error: %v", action, id, err)
	return apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to update enquiry", err)
}
