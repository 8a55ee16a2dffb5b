package services

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// WizardStep identifies a step of the standard request wizard. Steps are
// linear; Submission is terminal and reached only after a successful
// submission from Review.
type WizardStep int

const (
	StepBasicInfo WizardStep = iota + 1
	StepDetails
	StepAttachments
	StepReview
	StepSubmission
)

func (s WizardStep) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepDetails:
		return "details"
	case StepAttachments:
		return "attachments"
	case StepReview:
		return "review"
	case StepSubmission:
		return "submission"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Submitter is the one path from draft to submitted request. Implemented by
// SubmissionService; injected so the wizard stays free of I/O.
type Submitter interface {
	Submit(ctx context.Context, draft *RequestDraft) (*SubmissionResult, error)
}

// Wizard sequences the intake steps of a single draft. It is synchronous and
// does no I/O of its own; each transition is a pure function of the current
// step and the draft.
type Wizard struct {
	step      WizardStep
	draft     *RequestDraft
	requestID string
	now       func() time.Time
}

// NewWizard starts a wizard at the basic-info step with an empty draft.
func NewWizard() *Wizard {
	return &Wizard{
		step:  StepBasicInfo,
		draft: NewRequestDraft(),
		now:   time.Now,
	}
}

func (w *Wizard) Step() WizardStep { return w.step }

func (w *Wizard) Draft() *RequestDraft { return w.draft }

// RequestID returns the identifier assigned at submission, empty before the
// wizard reaches the submission step.
func (w *Wizard) RequestID() string { return w.requestID }

// CheckStep reports whether the current step's required fields permit
// advancing. The returned error wraps ErrValidation and names what is
// missing.
func (w *Wizard) CheckStep() error {
	switch w.step {
	case StepBasicInfo:
		var missing []string
		if strings.TrimSpace(w.draft.Branch) == "" {
			missing = append(missing, "branch")
		}
		if strings.TrimSpace(w.draft.ServiceType) == "" {
			missing = append(missing, "service_type")
		}
		if strings.TrimSpace(w.draft.Title) == "" {
			missing = append(missing, "title")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: required: %s", ErrValidation, strings.Join(missing, ", "))
		}
	case StepDetails:
		var missing []string
		if strings.TrimSpace(w.draft.Description) == "" {
			missing = append(missing, "description")
		}
		if strings.TrimSpace(w.draft.Priority) == "" {
			missing = append(missing, "priority")
		}
		if strings.TrimSpace(w.draft.RequestedDate) == "" {
			missing = append(missing, "requested_date")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: required: %s", ErrValidation, strings.Join(missing, ", "))
		}
		day, err := ParseRequestedDate(w.draft.RequestedDate)
		if err != nil {
			return fmt.Errorf("%w: requested_date: %v", ErrValidation, err)
		}
		today := dateOnly(w.now())
		if day.Before(today) {
			return fmt.Errorf("%w: requested_date must not be in the past", ErrValidation)
		}
	case StepAttachments, StepReview:
		// Attachments are optional; Review is gated by the submission itself.
	case StepSubmission:
		return fmt.Errorf("%w: wizard already completed", ErrValidation)
	}
	return nil
}

// Next advances to the following step when the current step is valid. From
// Review it hands the draft to the submitter instead; the step only advances
// when the submission succeeds, and the draft is dropped once it does.
func (w *Wizard) Next(ctx context.Context, submitter Submitter) error {
	if w.step == StepSubmission {
		return fmt.Errorf("%w: wizard already completed", ErrValidation)
	}
	if err := w.CheckStep(); err != nil {
		return err
	}
	if w.step == StepReview {
		if submitter == nil {
			return fmt.Errorf("%w: no submitter configured", ErrValidation)
		}
		result, err := submitter.Submit(ctx, w.draft)
		if err != nil {
			return err
		}
		w.requestID = result.RequestID
		w.step = StepSubmission
		w.draft = NewRequestDraft()
		return nil
	}
	w.step++
	return nil
}

// Prev steps back without clearing any entered values.
func (w *Wizard) Prev() error {
	if w.step == StepBasicInfo {
		return fmt.Errorf("%w: already at the first step", ErrValidation)
	}
	if w.step == StepSubmission {
		return fmt.Errorf("%w: wizard already completed", ErrValidation)
	}
	w.step--
	return nil
}

// AddAttachments validates a candidate batch against the wizard allow-list
// and appends whatever was accepted to the draft.
func (w *Wizard) AddAttachments(candidates []StagedFile) ([]StagedFile, []Rejection) {
	accepted, rejections := ValidateAttachments(candidates, w.draft.Attachments, WizardAllowedTypes)
	if len(accepted) > 0 {
		w.draft.SetAttachments(append(w.draft.Attachments, accepted...))
	}
	return accepted, rejections
}

// RemoveAttachment drops the staged file at the given position.
func (w *Wizard) RemoveAttachment(index int) error {
	if index < 0 || index >= len(w.draft.Attachments) {
		return fmt.Errorf("%w: no attachment at position %d", ErrValidation, index)
	}
	w.draft.SetAttachments(append(w.draft.Attachments[:index], w.draft.Attachments[index+1:]...))
	return nil
}

// ParseRequestedDate accepts the wire formats the forms produce: a plain
// calendar date or a full RFC 3339 timestamp.
func ParseRequestedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return dateOnly(t.Local()), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
