package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"maintenance-api/models"
)

// UnspecifiedBranch is shown when a request carries no resolvable store
// reference.
const UnspecifiedBranch = "unspecified"

// TrackedRequest is the read model the tracking page consumes: the request,
// its branch display name, its live attachments, and the full audit trail.
type TrackedRequest struct {
	Request     models.MaintenanceRequest `json:"request"`
	Branch      string                    `json:"branch"`
	Attachments []models.Attachment       `json:"attachments"`
	StatusLog   []models.RequestStatusLog `json:"status_log"`
}

// TrackingService is the read-only lookup side of the subsystem. No writes,
// no side effects.
type TrackingService struct {
	db *gorm.DB
}

func NewTrackingService(db *gorm.DB) *TrackingService {
	return &TrackingService{db: db}
}

// Lookup resolves a request by identifier. A miss is a normal outcome and
// returns (nil, nil).
func (t *TrackingService) Lookup(ctx context.Context, requestID string) (*TrackedRequest, error) {
	var request models.MaintenanceRequest
	err := t.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", requestID, false).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tracked := &TrackedRequest{Request: request, Branch: UnspecifiedBranch}

	if request.StoreID != nil {
		var store models.Store
		if err := t.db.WithContext(ctx).First(&store, *request.StoreID).Error; err == nil {
			tracked.Branch = store.Name
		}
	}

	if err := t.db.WithContext(ctx).
		Where("request_id = ? AND is_deleted = ?", requestID, false).
		Order("uploaded_at ASC, id ASC").
		Find(&tracked.Attachments).Error; err != nil {
		return nil, err
	}

	if err := t.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&tracked.StatusLog).Error; err != nil {
		return nil, err
	}

	return tracked, nil
}

// List returns requests for the admin listing, newest first, optionally
// filtered by status.
func (t *TrackingService) List(ctx context.Context, status string) ([]models.MaintenanceRequest, error) {
	query := t.db.WithContext(ctx).Where("is_deleted = ?", false)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []models.MaintenanceRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
