// Package domain holds the shared identity types and closed enums of the
// license issuance domain. Values are constructed through Parse functions at
// trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "licentia/pkg/domain-errors"
)

// PersonID identifies an applicant in the external person registry.
type PersonID struct{ uuid.UUID }

// ApplicationID identifies a persisted license application.
type ApplicationID struct{ uuid.UUID }

// WorkflowID identifies one in-progress application session.
type WorkflowID struct{ uuid.UUID }

// NewWorkflowID returns a fresh random workflow id.
func NewWorkflowID() WorkflowID { return WorkflowID{uuid.New()} }

// NewApplicationID returns a fresh random application id.
func NewApplicationID() ApplicationID { return ApplicationID{uuid.New()} }

// ParsePersonID validates external input as a person id.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseID(s, "person id")
	return PersonID{u}, err
}

// ParseApplicationID validates external input as an application id.
func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseID(s, "application id")
	return ApplicationID{u}, err
}

// ParseWorkflowID validates external input as a workflow id.
func ParseWorkflowID(s string) (WorkflowID, error) {
	u, err := parseID(s, "workflow id")
	return WorkflowID{u}, err
}

func parseID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be the nil UUID")
	}
	return u, nil
}

// IsZero reports whether the id is unset.
func (p PersonID) IsZero() bool { return p.UUID == uuid.Nil }

// IsZero reports whether the id is unset.
func (a ApplicationID) IsZero() bool { return a.UUID == uuid.Nil }

// IsZero reports whether the id is unset.
func (w WorkflowID) IsZero() bool { return w.UUID == uuid.Nil }
