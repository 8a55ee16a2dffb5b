package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintenance-api/models"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Store{},
		&models.MaintenanceService{},
		&models.MaintenanceRequest{},
		&models.Attachment{},
		&models.RequestStatusLog{},
		&models.Notification{},
		&models.User{},
	))
	return db
}

type fakeBlobStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	failFor map[string]bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		uploads: make(map[string][]byte),
		failFor: make(map[string]bool),
	}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for filename := range f.failFor {
		if filename != "" && containsSuffix(key, filename) {
			return "", fmt.Errorf("upload refused for %s", filename)
		}
	}
	f.uploads[key] = content
	return f.PublicURL(key), nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://files.test/" + key
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func containsSuffix(key, filename string) bool {
	return len(key) >= len(filename) && key[len(key)-len(filename):] == filename
}

type sentMail struct {
	To      []string
	Subject string
	HTML    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) Send(to []string, subject, html string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

type stubSubmitter struct {
	result *SubmissionResult
	err    error
	got    *RequestDraft
}

func (s *stubSubmitter) Submit(ctx context.Context, draft *RequestDraft) (*SubmissionResult, error) {
	s.got = draft
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
