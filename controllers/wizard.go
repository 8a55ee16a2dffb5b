package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maintenance-api/services"
)

// WizardController exposes the multi-step request wizard over HTTP. Draft
// state lives server-side in the session manager; clients hold only the
// session token.
type WizardController struct {
	sessions  *services.SessionManager
	submitter services.Submitter
}

func NewWizardController(sessions *services.SessionManager, submitter services.Submitter) *WizardController {
	return &WizardController{sessions: sessions, submitter: submitter}
}

// Start opens a new wizard session.
func (wc *WizardController) Start(c *gin.Context) {
	session := wc.sessions.Start()
	c.JSON(http.StatusCreated, gin.H{
		"token": session.Token,
		"step":  session.Wizard.Step().String(),
	})
}

// Show returns the current step and draft of a session.
func (wc *WizardController) Show(c *gin.Context) {
	session, ok := wc.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return
	}
	session.Lock()
	defer session.Unlock()
	c.JSON(http.StatusOK, wizardState(session))
}

// UpdateDraft applies free-form field updates to the draft. Values are not
// validated here; step validity is checked on next().
func (wc *WizardController) UpdateDraft(c *gin.Context) {
	session, ok := wc.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session.Lock()
	defer session.Unlock()
	for field, value := range fields {
		if err := session.Wizard.Draft().Update(field, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, wizardState(session))
}

// AddAttachments validates and stages an uploaded batch.
func (wc *WizardController) AddAttachments(c *gin.Context) {
	session, ok := wc.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}
	candidates, err := readStagedFiles(form.File["files"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded files"})
		return
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	session.Lock()
	defer session.Unlock()
	accepted, rejections := session.Wizard.AddAttachments(candidates)

	c.JSON(http.StatusOK, gin.H{
		"accepted":    attachmentList(accepted),
		"rejected":    rejectionList(rejections),
		"attachments": attachmentList(session.Wizard.Draft().Attachments),
	})
}

// RemoveAttachment drops one staged file by position.
func (wc *WizardController) RemoveAttachment(c *gin.Context) {
	session, ok := wc.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment index"})
		return
	}

	session.Lock()
	defer session.Unlock()
	if err := session.Wizard.RemoveAttachment(index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attachments": attachmentList(session.Wizard.Draft().Attachments),
	})
}

// Next advances the wizard. From the review step this submits the draft; the
// step only moves forward when submission succeeds.
func (wc *WizardController) Next(c *gin.Context) {
	session, ok := wc.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return
	}

	session.Lock()
	defer session.Unlock()
	if err := session.Wizard.Next(c.Request.Context(), wc.submitter); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizardState(session))
}

// Prev steps back without losing entered values.
func (wc *WizardController) Prev(c *gin.Context) {
	session, ok := wc.sessions.Get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return
	}

	session.Lock()
	defer session.Unlock()
	if err := session.Wizard.Prev(); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizardState(session))
}

// Abandon discards the session and its draft.
func (wc *WizardController) Abandon(c *gin.Context) {
	wc.sessions.Abandon(c.Param("token"))
	c.JSON(http.StatusOK, gin.H{"message": "Wizard session discarded"})
}

func wizardState(session *services.WizardSession) gin.H {
	w := session.Wizard
	state := gin.H{
		"token":       session.Token,
		"step":        w.Step().String(),
		"draft":       w.Draft(),
		"attachments": attachmentList(w.Draft().Attachments),
	}
	if w.RequestID() != "" {
		state["request_id"] = w.RequestID()
	}
	return state
}

func attachmentList(files []services.StagedFile) []gin.H {
	out := make([]gin.H, 0, len(files))
	for _, f := range files {
		out = append(out, gin.H{
			"filename":  f.Filename,
			"mime_type": f.MimeType,
			"size":      f.Size,
		})
	}
	return out
}

func rejectionList(rejections []services.Rejection) []gin.H {
	out := make([]gin.H, 0, len(rejections))
	for _, r := range rejections {
		out = append(out, gin.H{
			"filename": r.File.Filename,
			"reason":   r.Reason,
			"message":  r.Message,
		})
	}
	return out
}

// readStagedFiles loads multipart uploads into memory for validation and
// staging. Content is only read for files within the size cap; oversized
// files keep their metadata so the validator can name them in rejections.
func readStagedFiles(headers []*multipart.FileHeader) ([]services.StagedFile, error) {
	files := make([]services.StagedFile, 0, len(headers))
	for _, header := range headers {
		staged := services.StagedFile{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
		}
		if header.Size <= services.MaxAttachmentSize {
			f, err := header.Open()
			if err != nil {
				return nil, err
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			staged.Content = content
		}
		files = append(files, staged)
	}
	return files, nil
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
