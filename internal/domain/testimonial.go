package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial is a customer review awaiting or past moderation.
type Testimonial struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Role      string     `json:"role"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Rating    int        `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Photo     *string    `gorm:"type:text" json:"photo,omitempty"`
	Status    Status     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// TableName specifies the table name for Testimonial
func (Testimonial) TableName() string {
	return "testimonials"
}

// BeforeCreate hook
func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	return nil
}

// BeforeUpdate hook
func (t *Testimonial) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}
