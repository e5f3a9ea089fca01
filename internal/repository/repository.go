package repository

import (
	"errors"
	"fmt"
	"time"

	"exoticafarms/internal/metrics"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// observe records the query metric and maps gorm's not-found error.
func observe(operation string, start time.Time, err error) error {
	err = translate(err)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordDBQuery(operation, time.Since(start), nil)
		return err
	}
	metrics.RecordDBQuery(operation, time.Since(start), err)
	return err
}

// affected turns a zero-row write into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
