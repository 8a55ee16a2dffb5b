package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-api/models"
)

func TestLookupReturnsNilForMissingRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)

	tracked, err := svc.Lookup(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, tracked)
}

func TestLookupResolvesBranchName(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)

	store := models.Store{Name: "Riyadh"}
	require.NoError(t, db.Create(&store).Error)

	request := createRequest(t, db)
	require.NoError(t, db.Model(&request).Update("store_id", store.StoreID).Error)

	tracked, err := svc.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, tracked)
	assert.Equal(t, "Riyadh", tracked.Branch)
}

func TestLookupDefaultsBranchToUnspecified(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)
	request := createRequest(t, db)

	tracked, err := svc.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, tracked)
	assert.Equal(t, UnspecifiedBranch, tracked.Branch)
}

func TestLookupExcludesDeletedAttachments(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)
	request := createRequest(t, db)

	require.NoError(t, db.Create(&models.Attachment{
		RequestID: request.ID, FileURL: "https://files.test/a.jpg", UploadedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.Attachment{
		RequestID: request.ID, FileURL: "https://files.test/b.jpg", UploadedAt: time.Now(), IsDeleted: true,
	}).Error)

	tracked, err := svc.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, tracked)
	require.Len(t, tracked.Attachments, 1)
	assert.Equal(t, "https://files.test/a.jpg", tracked.Attachments[0].FileURL)
}

func TestLookupIncludesStatusHistoryInOrder(t *testing.T) {
	db := newTestDB(t)
	tracking := NewTrackingService(db)
	status := NewStatusService(db)
	request := createRequest(t, db)

	require.NoError(t, status.ChangeStatus(context.Background(), request.ID, models.StatusInProgress, ""))
	require.NoError(t, status.ChangeStatus(context.Background(), request.ID, models.StatusCompleted, ""))

	tracked, err := tracking.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, tracked)
	require.Len(t, tracked.StatusLog, 2)
	assert.Equal(t, models.StatusInProgress, tracked.StatusLog[0].Status)
	assert.Equal(t, models.StatusCompleted, tracked.StatusLog[1].Status)
	assert.Equal(t, models.StatusCompleted, tracked.Request.Status)
}

func TestLookupIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)
	request := createRequest(t, db)
	require.NoError(t, db.Create(&models.Attachment{
		RequestID: request.ID, FileURL: "https://files.test/a.jpg", UploadedAt: time.Now(),
	}).Error)

	first, err := svc.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	second, err := svc.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLookupSkipsSoftDeletedRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)
	request := createRequest(t, db)
	require.NoError(t, db.Model(&request).Update("is_deleted", true).Error)

	tracked, err := svc.Lookup(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Nil(t, tracked)
}

func TestListFiltersByStatusNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewTrackingService(db)

	older := models.MaintenanceRequest{
		Title: "Older", Description: "d", ServiceType: "General", Priority: "low",
		Status: models.StatusPending, CreatedAt: time.Now().Add(-2 * time.Hour), UpdatedAt: time.Now(),
	}
	newer := models.MaintenanceRequest{
		Title: "Newer", Description: "d", ServiceType: "General", Priority: "low",
		Status: models.StatusPending, CreatedAt: time.Now().Add(-1 * time.Hour), UpdatedAt: time.Now(),
	}
	done := models.MaintenanceRequest{
		Title: "Done", Description: "d", ServiceType: "General", Priority: "low",
		Status: models.StatusCompleted, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	for _, r := range []*models.MaintenanceRequest{&older, &newer, &done} {
		require.NoError(t, db.Create(r).Error)
	}

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Done", all[0].Title)

	pending, err := svc.List(context.Background(), models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Newer", pending[0].Title)
	assert.Equal(t, "Older", pending[1].Title)
}
