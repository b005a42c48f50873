package domain

import dErrors "licentia/pkg/domain-errors"

// ApplicationType classifies why an applicant is in front of a clerk.
type ApplicationType string

const (
	TypeNewLicense             ApplicationType = "new_license"
	TypeLearnerPermit          ApplicationType = "learner_permit"
	TypeLearnerPermitDuplicate ApplicationType = "learner_permit_duplicate"
	TypeRenewal                ApplicationType = "renewal"
	TypeReplacement            ApplicationType = "replacement"
	TypeConversion             ApplicationType = "conversion"
	TypeProfessionalPermit     ApplicationType = "professional_permit"
	TypeTemporaryLicense       ApplicationType = "temporary_license"
	TypeInternationalPermit    ApplicationType = "international_permit"
	TypeForeignConversion      ApplicationType = "foreign_conversion"
)

var validApplicationTypes = map[ApplicationType]bool{
	TypeNewLicense:             true,
	TypeLearnerPermit:          true,
	TypeLearnerPermitDuplicate: true,
	TypeRenewal:                true,
	TypeReplacement:            true,
	TypeConversion:             true,
	TypeProfessionalPermit:     true,
	TypeTemporaryLicense:       true,
	TypeInternationalPermit:    true,
	TypeForeignConversion:      true,
}

// ParseApplicationType constructs an ApplicationType from external input.
func ParseApplicationType(s string) (ApplicationType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "application type cannot be empty")
	}
	t := ApplicationType(s)
	if !validApplicationTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported application type: "+s)
	}
	return t, nil
}

// IsValid reports whether the type belongs to the closed enum.
func (t ApplicationType) IsValid() bool { return validApplicationTypes[t] }

func (t ApplicationType) String() string { return string(t) }

// ApplicationStatus is the lifecycle state of a persisted application.
type ApplicationStatus string

const (
	StatusDraft     ApplicationStatus = "DRAFT"
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusCompleted ApplicationStatus = "COMPLETED"
	StatusOnHold    ApplicationStatus = "ON_HOLD"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusCancelled ApplicationStatus = "CANCELLED"
)

var validApplicationStatuses = map[ApplicationStatus]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
	StatusCompleted: true,
	StatusOnHold:    true,
	StatusRejected:  true,
	StatusCancelled: true,
}

// ParseApplicationStatus constructs an ApplicationStatus from stored input.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !validApplicationStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported application status: "+s)
	}
	return st, nil
}

func (s ApplicationStatus) String() string { return string(s) }
