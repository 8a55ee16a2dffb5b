package models

import "time"

// RequestStatusLog tracks historical status changes for maintenance requests.
// Rows are append-only: ordered by created_at they reconstruct the full
// transition history, ending with the request's current status.
type RequestStatusLog struct {
	LogID     uint      `gorm:"primaryKey;column:id" json:"id"`
	RequestID string    `gorm:"column:request_id;size:36" json:"request_id"`
	Status    string    `gorm:"column:status" json:"status"`
	Note      string    `gorm:"column:note" json:"note"`
	CreatedAt time.Time `gorm:"column:created_at" json:"changed_at"`
}

// TableName specifies the table for RequestStatusLog.
func (RequestStatusLog) TableName() string {
	return "request_status_log"
}
