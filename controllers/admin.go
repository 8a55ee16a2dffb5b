package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"maintenance-api/models"
	"maintenance-api/services"
)

// AdminController handles the authenticated request administration surface:
// listings, status changes and the dashboard summary.
type AdminController struct {
	db       *gorm.DB
	tracking *services.TrackingService
	status   *services.StatusService
}

func NewAdminController(db *gorm.DB, tracking *services.TrackingService, status *services.StatusService) *AdminController {
	return &AdminController{db: db, tracking: tracking, status: status}
}

// ListRequests returns requests newest first, optionally filtered by status.
func (ac *AdminController) ListRequests(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
		return
	}

	requests, err := ac.tracking.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

type changeStatusReq struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ChangeStatus drives the transition engine for one request.
func (ac *AdminController) ChangeStatus(c *gin.Context) {
	var req changeStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	requestID := c.Param("id")
	if err := ac.status.ChangeStatus(c.Request.Context(), requestID, req.Status, req.Note); err != nil {
		respondServiceError(c, err)
		return
	}

	tracked, err := ac.tracking.Lookup(c.Request.Context(), requestID)
	if err != nil || tracked == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"request": tracked.Request,
	})
}

// DashboardStats returns request totals by status plus the number completed
// this month.
func (ac *AdminController) DashboardStats(c *gin.Context) {
	stats := make(map[string]interface{})

	var total int64
	if err := ac.db.Model(&models.MaintenanceRequest{}).
		Where("is_deleted = ?", false).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	stats["total"] = total

	byStatus := make(map[string]int64)
	for _, status := range []string{
		models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled,
	} {
		var count int64
		if err := ac.db.Model(&models.MaintenanceRequest{}).
			Where("status = ? AND is_deleted = ?", status, false).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
			return
		}
		byStatus[status] = count
	}
	stats["by_status"] = byStatus

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	var completedThisMonth int64
	if err := ac.db.Model(&models.MaintenanceRequest{}).
		Where("status = ? AND is_deleted = ? AND completion_date >= ?", models.StatusCompleted, false, monthStart).
		Count(&completedThisMonth).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	stats["completed_this_month"] = completedThisMonth
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
