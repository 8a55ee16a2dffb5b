package models

import "time"

// Store represents the stores table (the company branches a request can be
// serviced from).
type Store struct {
	StoreID   uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Address   string    `gorm:"column:address" json:"address"`
	IsDeleted bool      `gorm:"column:is_deleted" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Store) TableName() string {
	return "stores"
}

// MaintenanceService represents the maintenance_services table (the catalogue
// of service types offered on the request forms).
type MaintenanceService struct {
	ServiceID   uint      `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	IsActive    bool      `gorm:"column:is_active" json:"is_active"`
	IsDeleted   bool      `gorm:"column:is_deleted" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MaintenanceService) TableName() string {
	return "maintenance_services"
}
