package models

import "time"

// Attachment represents the attachments table. One row per successfully
// uploaded file, owned by exactly one request.
type Attachment struct {
	AttachmentID uint      `gorm:"primaryKey;column:id" json:"id"`
	RequestID    string    `gorm:"column:request_id;size:36" json:"request_id"`
	FileURL      string    `gorm:"column:file_url" json:"file_url"`
	Description  string    `gorm:"column:description" json:"description"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	IsDeleted    bool      `gorm:"column:is_deleted" json:"-"`
}

func (Attachment) TableName() string {
	return "attachments"
}
