package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"maintenance-api/models"
	"maintenance-api/services"
	"maintenance-api/utils"
)

// MaintenanceController handles the public request surface: the one-shot
// quick form and tracking lookups.
type MaintenanceController struct {
	submissions *services.SubmissionService
	tracking    *services.TrackingService
}

func NewMaintenanceController(submissions *services.SubmissionService, tracking *services.TrackingService) *MaintenanceController {
	return &MaintenanceController{submissions: submissions, tracking: tracking}
}

// SubmitQuick accepts the quick request form: all fields plus optional files
// in one multipart call. The quick form uses the broader attachment
// allow-list (images, PDF, Word).
func (mc *MaintenanceController) SubmitQuick(c *gin.Context) {
	draft := services.NewRequestDraft()
	draft.Branch = utils.SanitizeInput(c.PostForm("branch"))
	draft.ServiceType = utils.SanitizeInput(c.PostForm("service_type"))
	draft.Title = utils.SanitizeInput(c.PostForm("title"))
	draft.Description = utils.SanitizeInput(c.PostForm("description"))
	draft.Priority = utils.SanitizeInput(c.PostForm("priority"))
	draft.RequestedDate = utils.SanitizeInput(c.PostForm("requested_date"))
	draft.EstimatedCost = utils.SanitizeInput(c.PostForm("estimated_cost"))

	// The quick form seeds these when the user leaves them alone.
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if draft.RequestedDate == "" {
		draft.RequestedDate = time.Now().Format("2006-01-02")
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		candidates, err := readStagedFiles(form.File["files"])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded files"})
			return
		}
		accepted, rejections := services.ValidateAttachments(candidates, nil, services.QuickFormAllowedTypes)
		if len(rejections) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "Some attachments were rejected",
				"rejected": rejectionList(rejections),
			})
			return
		}
		draft.SetAttachments(accepted)
	}

	result, err := mc.submissions.SubmitQuick(c.Request.Context(), draft)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request_id": result.RequestID,
		"uploads":    uploadReport(result.Uploads),
	})
}

// Track returns a request with its branch name, attachments and status
// history. A miss is 404, not an error payload.
func (mc *MaintenanceController) Track(c *gin.Context) {
	tracked, err := mc.tracking.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up request"})
		return
	}
	if tracked == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, tracked)
}

func uploadReport(uploads []services.UploadResult) []gin.H {
	out := make([]gin.H, 0, len(uploads))
	for _, u := range uploads {
		entry := gin.H{"filename": u.Filename}
		if u.Err != nil {
			entry["uploaded"] = false
		} else {
			entry["uploaded"] = true
			entry["url"] = u.URL
		}
		out = append(out, entry)
	}
	return out
}
