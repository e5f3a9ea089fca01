package services

import (
	"context"

	"gorm.io/gorm"

	"exoticafarms/internal/database"
)

// HealthResult is the health endpoint body.
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// HealthService implements the health service
type HealthService struct {
	db      *gorm.DB
	service string
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, service string) *HealthService {
	return &HealthService{db: db, service: service}
}

// Check reports overall health; ok is false when the database is unreachable.
func (s *HealthService) Check(ctx context.Context) (res *HealthResult, ok bool) {
	res = &HealthResult{Status: "healthy", Service: s.service, Database: "up"}
	if err := database.HealthCheck(ctx, s.db); err != nil {
		res.Status = "degraded"
		res.Database = "down"
		return res, false
	}
	return res, true
}
