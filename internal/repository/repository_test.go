package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"exoticafarms/internal/config"
	"exoticafarms/internal/database"
	"exoticafarms/internal/domain"
	"exoticafarms/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite:///" + filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func seedEnquiries(t *testing.T, repo repository.EnquiryRepository) map[string]*domain.Enquiry {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	specs := []struct {
		key       string
		typ       domain.EnquiryType
		status    domain.Status
		contacted bool
	}{
		{"new-contact", domain.EnquiryTypeContact, domain.StatusPending, false},
		{"talking-contact", domain.EnquiryTypeContact, domain.StatusPending, true},
		{"new-visit", domain.EnquiryTypeFarmVisit, domain.StatusPending, false},
		{"approved-visit", domain.EnquiryTypeFarmVisit, domain.StatusApproved, true},
		{"rejected-visit", domain.EnquiryTypeFarmVisit, domain.StatusRejected, false},
	}
	out := make(map[string]*domain.Enquiry)
	for i, s := range specs {
		e := &domain.Enquiry{
			Type:        s.typ,
			Name:        s.key,
			Email:       s.key + "@example.com",
			Message:     "hello",
			Status:      s.status,
			IsContacted: s.contacted,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if s.typ == domain.EnquiryTypeFarmVisit {
			e.Metadata = datatypes.JSON(`{"date":"2025-06-01","time":"morning","visitors":"4","purpose":"Educational"}`)
		}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create %s: %v", s.key, err)
		}
		out[s.key] = e
	}
	return out
}

func TestEnquiryListFilters(t *testing.T) {
	repo := repository.NewEnquiryRepository(openTestDB(t))
	seedEnquiries(t, repo)
	ctx := context.Background()

	tests := []struct {
		typ    domain.EnquiryType
		filter domain.EnquiryFilter
		want   []string
	}{
		{domain.EnquiryTypeContact, domain.FilterAll, []string{"talking-contact", "new-contact"}},
		{domain.EnquiryTypeContact, domain.FilterPending, []string{"new-contact"}},
		{domain.EnquiryTypeContact, domain.FilterCommunicating, []string{"talking-contact"}},
		{domain.EnquiryTypeFarmVisit, domain.FilterApproved, []string{"approved-visit"}},
		{domain.EnquiryTypeFarmVisit, domain.FilterRejected, []string{"rejected-visit"}},
		{domain.EnquiryTypeFarmVisit, domain.FilterAll, []string{"rejected-visit", "approved-visit", "new-visit"}},
		{"", domain.FilterPending, []string{"new-visit", "new-contact"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+string(tt.filter), func(t *testing.T) {
			got, err := repo.List(ctx, tt.typ, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestEnquiryCounts(t *testing.T) {
	repo := repository.NewEnquiryRepository(openTestDB(t))
	seedEnquiries(t, repo)

	got, err := repo.Counts(context.Background(), domain.EnquiryTypeFarmVisit)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := domain.EnquiryCounts{All: 3, Pending: 1, Communicating: 0, Approved: 1, Rejected: 1}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}

	n, err := repo.CountByType(context.Background(), domain.EnquiryTypeContact)
	if err != nil || n != 2 {
		t.Fatalf("CountByType = %d, %v", n, err)
	}
}

func TestEnquiryUpdateStatusAndReason(t *testing.T) {
	repo := repository.NewEnquiryRepository(openTestDB(t))
	seeded := seedEnquiries(t, repo)
	ctx := context.Background()
	id := seeded["new-visit"].ID

	got, err := repo.UpdateStatus(ctx, id, domain.StatusRejected, strPtr("Fully booked"))
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != domain.StatusRejected || got.RejectionReason == nil || *got.RejectionReason != "Fully booked" {
		t.Fatalf("after reject: %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Fatalf("updatedAt not stamped")
	}

	got, err = repo.UpdateStatus(ctx, id, domain.StatusApproved, nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.RejectionReason != nil {
		t.Fatalf("rejection reason should be cleared, got %q", *got.RejectionReason)
	}
}

func TestEnquiryMissingRecord(t *testing.T) {
	repo := repository.NewEnquiryRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("GetByID err = %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, "nope", domain.StatusApproved, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("UpdateStatus err = %v", err)
	}
	if err := repo.MarkContacted(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("MarkContacted err = %v", err)
	}
	if err := repo.Delete(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Delete err = %v", err)
	}
}

func TestEnquiryDeleteThenLookup(t *testing.T) {
	repo := repository.NewEnquiryRepository(openTestDB(t))
	seeded := seedEnquiries(t, repo)
	ctx := context.Background()
	id := seeded["new-contact"].ID

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("lookup after delete err = %v", err)
	}
}

func TestTestimonialRepository(t *testing.T) {
	repo := repository.NewTestimonialRepository(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	batch := []domain.Testimonial{
		{Name: "old", Message: "m", Rating: 5, Status: domain.StatusApproved, CreatedAt: base},
		{Name: "new", Message: "m", Rating: 4, Status: domain.StatusApproved, CreatedAt: base.Add(time.Hour)},
	}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("batch: %v", err)
	}
	pending := &domain.Testimonial{Name: "waiting", Message: "m", Rating: 3}
	if err := repo.Create(ctx, pending); err != nil {
		t.Fatalf("create: %v", err)
	}
	if pending.Status != domain.StatusPending {
		t.Fatalf("default status = %s", pending.Status)
	}

	approved, err := repo.List(ctx, domain.StatusApproved)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(approved) != 2 || approved[0].Name != "new" {
		t.Fatalf("approved list = %+v", approved)
	}

	if err := repo.UpdateStatus(ctx, pending.ID, domain.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("count = %d, %v", n, err)
	}
	if err := repo.Delete(ctx, pending.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.UpdateStatus(ctx, pending.ID, domain.StatusRejected); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("update deleted err = %v", err)
	}
}

func TestAdminRepository(t *testing.T) {
	repo := repository.NewAdminRepository(openTestDB(t))
	ctx := context.Background()

	a := &domain.Admin{Email: "admin@example.com", PasswordHash: "h1"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdatePasswordHash(ctx, a.ID, "h2"); err != nil {
		t.Fatalf("update hash: %v", err)
	}
	got, err := repo.GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "h2" {
		t.Fatalf("hash = %s", got.PasswordHash)
	}
	if _, err := repo.GetByEmail(ctx, "other@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing admin err = %v", err)
	}
	if err := repo.TouchLastLogin(ctx, a.ID, time.Now()); err != nil {
		t.Fatalf("touch: %v", err)
	}
	byID, err := repo.GetByID(ctx, a.ID)
	if err != nil || byID.LastLogin == nil {
		t.Fatalf("GetByID = %+v, %v", byID, err)
	}
}
