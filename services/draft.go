package services

import "fmt"

// RequestDraft is the in-memory staging area for a not-yet-submitted request.
// It lives only inside a wizard session (or for the duration of a quick-form
// call) and is discarded on successful submission or abandonment; it is never
// persisted as-is.
type RequestDraft struct {
	Branch        string       `json:"branch"`
	ServiceType   string       `json:"service_type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Priority      string       `json:"priority"`
	RequestedDate string       `json:"requested_date"`
	EstimatedCost string       `json:"estimated_cost"`
	Attachments   []StagedFile `json:"-"`
}

// NewRequestDraft returns an empty draft. The quick form seeds priority and
// requested date with defaults; the wizard starts fully blank.
func NewRequestDraft() *RequestDraft {
	return &RequestDraft{}
}

// Update sets a single field by its wire name. No value validation happens
// here; validity is computed per wizard step. Unknown field names are
// reported so the API layer can refuse them.
func (d *RequestDraft) Update(field, value string) error {
	switch field {
	case "branch":
		d.Branch = value
	case "service_type":
		d.ServiceType = value
	case "title":
		d.Title = value
	case "description":
		d.Description = value
	case "priority":
		d.Priority = value
	case "requested_date":
		d.RequestedDate = value
	case "estimated_cost":
		d.EstimatedCost = value
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	return nil
}

// SetAttachments replaces the accepted attachment list.
func (d *RequestDraft) SetAttachments(files []StagedFile) {
	d.Attachments = files
}
