package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request status values. Any of these may follow any other; the transition
// engine validates the value itself, not the edge.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priority values accepted on a request.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// MaintenanceRequest represents the maintenance_requests table. Rows are
// created once with status pending and mutated only through the status
// service afterwards.
type MaintenanceRequest struct {
	ID             string     `gorm:"primaryKey;column:id;size:36" json:"id"`
	Title          string     `gorm:"column:title" json:"title"`
	Description    string     `gorm:"column:description" json:"description"`
	ServiceType    string     `gorm:"column:service_type" json:"service_type"`
	Priority       string     `gorm:"column:priority" json:"priority"`
	Status         string     `gorm:"column:status" json:"status"`
	ScheduledDate  string     `gorm:"column:scheduled_date" json:"scheduled_date"`
	EstimatedCost  *float64   `gorm:"column:estimated_cost" json:"estimated_cost"`
	ActualCost     *float64   `gorm:"column:actual_cost" json:"actual_cost"`
	StoreID        *uint      `gorm:"column:store_id" json:"store_id"`
	CreatedBy      string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
	CompletionDate *time.Time `gorm:"column:completion_date" json:"completion_date"`
	IsDeleted      bool       `gorm:"column:is_deleted" json:"-"`

	// Relations
	Store       *Store             `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Attachments []Attachment       `gorm:"foreignKey:RequestID" json:"attachments,omitempty"`
	StatusLog   []RequestStatusLog `gorm:"foreignKey:RequestID" json:"status_log,omitempty"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// BeforeCreate assigns the request identifier on insert. The value assigned
// here is the authoritative one; callers fall back to a locally generated
// token only when no identifier comes back from the store.
func (r *MaintenanceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsValidStatus reports whether the value is one of the four known statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsValidPriority reports whether the value is one of the known priorities.
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// StatusLabel returns the human-readable label for a status value. Unknown
// values are returned as-is so old log rows still render.
func StatusLabel(status string) string {
	switch status {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	if status == "" {
		return "Unknown"
	}
	return status
}

// PriorityLabel returns the human-readable label for a priority value.
func PriorityLabel(priority string) string {
	switch priority {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	}
	return priority
}
