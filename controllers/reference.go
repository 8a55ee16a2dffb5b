package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"maintenance-api/models"
)

// ReferenceController serves the reference data the request forms consume.
type ReferenceController struct {
	db *gorm.DB
}

func NewReferenceController(db *gorm.DB) *ReferenceController {
	return &ReferenceController{db: db}
}

// GetBranches returns the servicing branches.
func (rc *ReferenceController) GetBranches(c *gin.Context) {
	var stores []models.Store
	if err := rc.db.Where("is_deleted = ?", false).Order("name ASC").Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load branches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": stores})
}

// GetServiceTypes returns the active maintenance service catalogue.
func (rc *ReferenceController) GetServiceTypes(c *gin.Context) {
	var serviceTypes []models.MaintenanceService
	if err := rc.db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("name ASC").Find(&serviceTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load service types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": serviceTypes})
}
