package services

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"maintenance-api/models"
)

// BlobStore is the durable home of attachment binaries.
type BlobStore interface {
	Upload(ctx context.Context, key string, content []byte, contentType string) (string, error)
	PublicURL(key string) string
}

// Notifier delivers the best-effort submission summary. Failures are logged
// and never fail a submission.
type Notifier interface {
	Send(to []string, subject, html string) error
}

// UploadResult records the outcome of one attachment upload. Failed items are
// skipped, not rolled back; the report keeps the information visible.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Err      error  `json:"-"`
}

// SubmissionResult is what a successful submission returns: the assigned
// request identifier plus the per-attachment upload report.
type SubmissionResult struct {
	RequestID string         `json:"request_id"`
	Uploads   []UploadResult `json:"uploads,omitempty"`
}

// SubmissionService owns the only path from draft to submitted request.
type SubmissionService struct {
	db          *gorm.DB
	blobs       BlobStore
	notifier    Notifier
	adminEmails []string
	now         func() time.Time
}

// NewSubmissionService wires the orchestrator with its collaborators. The
// notifier and admin recipient list may be nil/empty; notification is then a
// no-op.
func NewSubmissionService(db *gorm.DB, blobs BlobStore, notifier Notifier, adminEmails []string) *SubmissionService {
	return &SubmissionService{
		db:          db,
		blobs:       blobs,
		notifier:    notifier,
		adminEmails: adminEmails,
		now:         time.Now,
	}
}

// Submit persists a wizard draft. Request numbers fall back to an MR- token
// when the store does not hand one back.
func (s *SubmissionService) Submit(ctx context.Context, draft *RequestDraft) (*SubmissionResult, error) {
	return s.submit(ctx, draft, "MR")
}

// SubmitQuick persists a quick-form draft (QMR- fallback numbers).
func (s *SubmissionService) SubmitQuick(ctx context.Context, draft *RequestDraft) (*SubmissionResult, error) {
	return s.submit(ctx, draft, "QMR")
}

func (s *SubmissionService) submit(ctx context.Context, draft *RequestDraft, prefix string) (*SubmissionResult, error) {
	// Fail fast before any side effect.
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"branch", draft.Branch},
		{"service_type", draft.ServiceType},
		{"title", draft.Title},
		{"description", draft.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: required: %s", ErrValidation, strings.Join(missing, ", "))
	}

	if p := strings.TrimSpace(draft.Priority); p != "" && !models.IsValidPriority(p) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, p)
	}

	// The wizard gates the date at its details step; the quick form posts
	// straight here, so the same rule applies again.
	if v := strings.TrimSpace(draft.RequestedDate); v != "" {
		day, err := ParseRequestedDate(v)
		if err != nil {
			return nil, fmt.Errorf("%w: requested_date: %v", ErrValidation, err)
		}
		if day.Before(dateOnly(s.now())) {
			return nil, fmt.Errorf("%w: requested_date must not be in the past", ErrValidation)
		}
	}

	now := s.now()
	fallbackID := fallbackRequestNumber(prefix, now)

	// A branch that cannot be resolved does not block submission; the
	// request is created without a store reference.
	storeID := s.resolveStoreID(ctx, draft.Branch)

	var estimatedCost *float64
	if v := strings.TrimSpace(draft.EstimatedCost); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			estimatedCost = &parsed
		} else {
			return nil, fmt.Errorf("%w: estimated_cost must be a non-negative number", ErrValidation)
		}
	}

	request := models.MaintenanceRequest{
		Title:         draft.Title,
		Description:   draft.Description,
		ServiceType:   draft.ServiceType,
		Priority:      draft.Priority,
		Status:        models.StatusPending,
		ScheduledDate: draft.RequestedDate,
		EstimatedCost: estimatedCost,
		StoreID:       storeID,
		CreatedBy:     "anonymous",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrPersistence, err)
	}

	requestID := request.ID
	if requestID == "" {
		requestID = fallbackID
	}

	result := &SubmissionResult{RequestID: requestID}
	result.Uploads = s.uploadAttachments(ctx, requestID, draft)

	s.notify(requestID, draft)

	return result, nil
}

// uploadAttachments pushes the staged files to blob storage concurrently,
// waits for all of them, then records an attachment row per successful
// upload. A failed upload degrades only itself.
func (s *SubmissionService) uploadAttachments(ctx context.Context, requestID string, draft *RequestDraft) []UploadResult {
	if len(draft.Attachments) == 0 {
		return nil
	}

	results := make([]UploadResult, len(draft.Attachments))
	var wg sync.WaitGroup
	for i, file := range draft.Attachments {
		wg.Add(1)
		go func(i int, file StagedFile) {
			defer wg.Done()
			key := fmt.Sprintf("%s/%s-%s", requestID, uuid.NewString()[:8], file.Filename)
			url, err := s.blobs.Upload(ctx, key, file.Content, file.MimeType)
			results[i] = UploadResult{Filename: file.Filename, URL: url, Err: err}
		}(i, file)
	}
	wg.Wait()

	uploadedAt := s.now()
	for i, r := range results {
		if r.Err != nil {
			log.Printf("attachment upload failed (request=%s file=%s): %v", requestID, r.Filename, r.Err)
			continue
		}
		attachment := models.Attachment{
			RequestID:   requestID,
			FileURL:     r.URL,
			Description: fmt.Sprintf("Attachment for request %s", draft.Title),
			UploadedAt:  uploadedAt,
		}
		if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
			log.Printf("attachment record save failed (request=%s file=%s): %v", requestID, r.Filename, err)
			results[i].Err = err
			results[i].URL = ""
		}
	}
	return results
}

// notify sends the summary email to the configured recipients and drops an
// in-app notification for every admin user. Both channels are best effort.
func (s *SubmissionService) notify(requestID string, draft *RequestDraft) {
	subject := fmt.Sprintf("New maintenance request %s", requestID)
	estimated := strings.TrimSpace(draft.EstimatedCost)
	if estimated == "" {
		estimated = "unspecified"
	}
	html := buildSubmissionEmailHTML(requestID, draft, estimated)

	if s.notifier != nil && len(s.adminEmails) > 0 {
		if err := s.notifier.Send(s.adminEmails, subject, html); err != nil {
			log.Printf("submission email send failed (request=%s): %v", requestID, err)
		}
	}

	var admins []models.User
	if err := s.db.Where("role = ? AND is_deleted = ?", models.RoleAdmin, false).Find(&admins).Error; err != nil {
		log.Printf("admin lookup for notifications failed (request=%s): %v", requestID, err)
		return
	}
	for _, admin := range admins {
		id := requestID
		notification := models.Notification{
			UserID:           admin.UserID,
			Title:            subject,
			Message:          fmt.Sprintf("%s (%s, %s priority)", draft.Title, draft.ServiceType, models.PriorityLabel(draft.Priority)),
			Type:             "info",
			RelatedRequestID: &id,
			CreatedAt:        s.now(),
		}
		if err := s.db.Create(&notification).Error; err != nil {
			log.Printf("notification save failed (request=%s user=%d): %v", requestID, admin.UserID, err)
		}
	}
}

func (s *SubmissionService) resolveStoreID(ctx context.Context, branch string) *uint {
	var store models.Store
	err := s.db.WithContext(ctx).
		Where("name = ? AND is_deleted = ?", strings.TrimSpace(branch), false).
		First(&store).Error
	if err != nil {
		return nil
	}
	id := store.StoreID
	return &id
}

// fallbackRequestNumber derives a short request number from the submission
// time, e.g. MR-493021. Used only when the store assigns no identifier.
func fallbackRequestNumber(prefix string, now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("%s-%s", prefix, millis)
}

func buildSubmissionEmailHTML(requestID string, draft *RequestDraft, estimated string) string {
	rows := [][2]string{
		{"Request number", requestID},
		{"Branch", draft.Branch},
		{"Service type", draft.ServiceType},
		{"Title", draft.Title},
		{"Description", draft.Description},
		{"Priority", models.PriorityLabel(draft.Priority)},
		{"Requested date", draft.RequestedDate},
		{"Estimated cost", estimated},
		{"Attachments", strconv.Itoa(len(draft.Attachments))},
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:'Segoe UI',Tahoma,Arial,sans-serif;max-width:640px;margin:0 auto;">`)
	b.WriteString(`<h2 style="color:#111827;">New maintenance request</h2><table style="width:100%;border-collapse:collapse;">`)
	for _, row := range rows {
		fmt.Fprintf(&b,
			`<tr><td style="padding:6px 8px;border:1px solid #e5e7eb;font-weight:bold;">%s</td><td style="padding:6px 8px;border:1px solid #e5e7eb;">%s</td></tr>`,
			template.HTMLEscapeString(row[0]), template.HTMLEscapeString(row[1]))
	}
	b.WriteString(`</table></div>`)
	return b.String()
}
