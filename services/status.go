package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maintenance-api/models"
)

// StatusService moves a submitted request between statuses, derives the
// completion timestamp, and appends to the immutable status log. Transitions
// are unrestricted between the four known values; only the value itself is
// validated.
type StatusService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db, now: time.Now}
}

// ChangeStatus persists the new status, sets completion_date when the target
// is completed, and records an audit entry. An empty note gets a default
// referencing the human-readable status label. The status update itself is
// the fatal step; nothing later runs if it fails.
func (s *StatusService) ChangeStatus(ctx context.Context, requestID, newStatus, note string) error {
	if !models.IsValidStatus(newStatus) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	var request models.MaintenanceRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", requestID, false).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: load request: %v", ErrPersistence, err)
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": now,
	}
	if err := s.db.WithContext(ctx).Model(&models.MaintenanceRequest{}).
		Where("id = ?", requestID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("%w: update status: %v", ErrPersistence, err)
	}

	// Completed is the only status with a derived side-effect field.
	if newStatus == models.StatusCompleted {
		if err := s.db.WithContext(ctx).Model(&models.MaintenanceRequest{}).
			Where("id = ?", requestID).
			Update("completion_date", now).Error; err != nil {
			return fmt.Errorf("%w: set completion date: %v", ErrPersistence, err)
		}
	}

	if note == "" {
		note = fmt.Sprintf("Status changed to %s", models.StatusLabel(newStatus))
	}
	entry := models.RequestStatusLog{
		RequestID: requestID,
		Status:    newStatus,
		Note:      note,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("%w: append status log: %v", ErrPersistence, err)
	}

	return nil
}
