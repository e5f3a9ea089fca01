package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnquiryType distinguishes general contact from farm-visit bookings. It never changes after creation.
type EnquiryType string

const (
	EnquiryTypeContact   EnquiryType = "contact"
	EnquiryTypeFarmVisit EnquiryType = "farm_visit"
)

// Valid reports whether t is a known enquiry type.
func (t EnquiryType) Valid() bool {
	return t == EnquiryTypeContact || t == EnquiryTypeFarmVisit
}

// Enquiry represents a visitor submission: a contact message or a farm-visit booking.
//
// Metadata is present only for farm visits and RejectionReason only while
// Status is rejected.
type Enquiry struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type            EnquiryType    `gorm:"type:varchar(20);not null;index" json:"type"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"not null;index" json:"email"`
	Phone           *string        `json:"phone"`
	Message         string         `gorm:"type:text;not null" json:"message"`
	Metadata        datatypes.JSON `json:"metadata,omitempty"`
	Status          Status         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsContacted     bool           `gorm:"not null;default:false" json:"isContacted"`
	RejectionReason *string        `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`
}

// MarshalJSON emits Metadata as a string-encoded object, the same form the
// booking form submits.
func (e Enquiry) MarshalJSON() ([]byte, error) {
	type plain Enquiry
	out := struct {
		plain
		Metadata *string `json:"metadata,omitempty"`
	}{plain: plain(e)}
	if len(e.Metadata) > 0 {
		s := string(e.Metadata)
		out.Metadata = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts Metadata as a string-encoded object.
func (e *Enquiry) UnmarshalJSON(b []byte) error {
	type plain Enquiry
	aux := struct {
		*plain
		Metadata *string `json:"metadata"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.Metadata = nil
	if aux.Metadata != nil && *aux.Metadata != "" {
		e.Metadata = datatypes.JSON(*aux.Metadata)
	}
	return nil
}

// TableName specifies the table name for Enquiry
func (Enquiry) TableName() string {
	return "enquiries"
}

// BeforeCreate hook
func (e *Enquiry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	return nil
}

// BeforeUpdate hook
func (e *Enquiry) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now().UTC()
	e.UpdatedAt = &now
	return nil
}

// PhoneNumber returns the phone or "" when none was given.
func (e *Enquiry) PhoneNumber() string {
	if e.Phone == nil {
		return ""
	}
	return *e.Phone
}

// Visit decodes the farm-visit metadata. It returns nil for contact enquiries.
func (e *Enquiry) Visit() (*VisitDetails, error) {
	if len(e.Metadata) == 0 {
		return nil, nil
	}
	return DecodeVisitDetails(e.Metadata)
}

// EnquiryFilter selects the admin list view.
type EnquiryFilter string

const (
	FilterAll           EnquiryFilter = "all"
	FilterPending       EnquiryFilter = "pending"       // pending and not yet contacted
	FilterCommunicating EnquiryFilter = "communicating" // pending and contacted
	FilterApproved      EnquiryFilter = "approved"
	FilterRejected      EnquiryFilter = "rejected"
)

// ParseEnquiryFilter maps a query value to a filter; unknown or empty values mean all.
func ParseEnquiryFilter(s string) EnquiryFilter {
	switch f := EnquiryFilter(s); f {
	case FilterPending, FilterCommunicating, FilterApproved, FilterRejected:
		return f
	}
	return FilterAll
}

// EnquiryCounts holds per-filter totals for one enquiry type.
type EnquiryCounts struct {
	All           int64 `json:"all"`
	Pending       int64 `json:"pending"`
	Communicating int64 `json:"communicating"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
}
