package services

import "fmt"

const (
	// MaxAttachments is the cap per draft and per request.
	MaxAttachments = 5
	// MaxAttachmentSize is 5 MiB exactly.
	MaxAttachmentSize = 5 * 1024 * 1024
)

// StagedFile is a candidate attachment held in a draft before submission.
type StagedFile struct {
	Filename string
	MimeType string
	Size     int64
	Content  []byte
}

// AllowList is the set of MIME types a calling context accepts.
type AllowList map[string]bool

// WizardAllowedTypes is the allow-list for the multi-step wizard.
var WizardAllowedTypes = AllowList{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// QuickFormAllowedTypes is the broader allow-list for the quick request form:
// images, PDF and Word documents.
var QuickFormAllowedTypes = AllowList{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Rejection reasons.
const (
	RejectTooManyFiles   = "too_many_files"
	RejectDisallowedType = "disallowed_type"
	RejectFileTooLarge   = "file_too_large"
)

// Rejection pairs a refused file with the reason it was refused.
type Rejection struct {
	File    StagedFile
	Reason  string
	Message string
}

// ValidateAttachments checks a batch of candidate files against the files a
// draft has already accepted. The count limit is evaluated once for the whole
// batch: if accepted plus candidates would exceed MaxAttachments the entire
// batch is rejected, nothing is partially admitted. Remaining candidates are
// then checked individually for MIME type and size. Pure function, no side
// effects; the caller persists the accepted set into the draft.
func ValidateAttachments(candidates, accepted []StagedFile, allowed AllowList) ([]StagedFile, []Rejection) {
	if len(candidates) == 0 {
		return nil, nil
	}

	if len(accepted)+len(candidates) > MaxAttachments {
		rejections := make([]Rejection, 0, len(candidates))
		for _, f := range candidates {
			rejections = append(rejections, Rejection{
				File:    f,
				Reason:  RejectTooManyFiles,
				Message: fmt.Sprintf("at most %d files can be attached", MaxAttachments),
			})
		}
		return nil, rejections
	}

	var ok []StagedFile
	var rejections []Rejection
	for _, f := range candidates {
		if !allowed[f.MimeType] {
			rejections = append(rejections, Rejection{
				File:    f,
				Reason:  RejectDisallowedType,
				Message: fmt.Sprintf("file %s has an unsupported type %s", f.Filename, f.MimeType),
			})
			continue
		}
		if f.Size > MaxAttachmentSize {
			rejections = append(rejections, Rejection{
				File:    f,
				Reason:  RejectFileTooLarge,
				Message: fmt.Sprintf("file %s is larger than 5 MiB", f.Filename),
			})
			continue
		}
		ok = append(ok, f)
	}
	return ok, rejections
}
