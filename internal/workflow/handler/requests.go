package handler

import (
	"time"

	"licentia/internal/eligibility"
	"licentia/internal/workflow"
	"licentia/pkg/domain"
)

// StartRequest opens a new workflow session.
type StartRequest struct {
	PersonID        string `json:"person_id"`
	ApplicationType string `json:"application_type"`
	LocationID      string `json:"location_id"`
}

// ParsedPersonID validates the person id field.
func (r StartRequest) ParsedPersonID() (domain.PersonID, error) {
	return domain.ParsePersonID(r.PersonID)
}

// ParsedApplicationType validates the application type field.
func (r StartRequest) ParsedApplicationType() (domain.ApplicationType, error) {
	return domain.ParseApplicationType(r.ApplicationType)
}

// ApplicationTypeRequest switches the application type.
type ApplicationTypeRequest struct {
	ApplicationType string `json:"application_type"`
}

// CategoryRequest records the category selection.
type CategoryRequest struct {
	Category               string   `json:"category"`
	ProfessionalCategories []string `json:"professional_categories"`
}

// ParsedCategory validates the optional category field.
func (r CategoryRequest) ParsedCategory() (domain.LicenseCategory, error) {
	if r.Category == "" {
		return "", nil
	}
	return domain.ParseLicenseCategory(r.Category)
}

// ParsedProfessionalCategories validates the endorsement list.
func (r CategoryRequest) ParsedProfessionalCategories() ([]domain.LicenseCategory, error) {
	out := make([]domain.LicenseCategory, 0, len(r.ProfessionalCategories))
	for _, raw := range r.ProfessionalCategories {
		c, err := domain.ParseLicenseCategory(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// DeclarationsRequest records applicant declarations and the consent
// document reference.
type DeclarationsRequest struct {
	PriorRefusal       bool   `json:"prior_refusal"`
	RefusalDetails     string `json:"refusal_details"`
	ConsentDocumentRef string `json:"consent_document_ref"`
}

// Declarations converts to the domain shape.
func (r DeclarationsRequest) Declarations() eligibility.Declarations {
	return eligibility.Declarations{PriorRefusal: r.PriorRefusal, Details: r.RefusalDetails}
}

// MedicalRequest records a medical assessment.
type MedicalRequest struct {
	BinocularAcuity string     `json:"binocular_acuity"`
	Cleared         *bool      `json:"cleared"`
	ExaminerName    string     `json:"examiner_name"`
	ExamDate        *time.Time `json:"exam_date"`
}

// Record converts to the domain shape.
func (r MedicalRequest) Record() eligibility.MedicalRecord {
	return eligibility.MedicalRecord{
		BinocularAcuity: r.BinocularAcuity,
		Cleared:         r.Cleared,
		ExaminerName:    r.ExaminerName,
		ExamDate:        r.ExamDate,
	}
}

// BiometricsRequest records capture artifact references.
type BiometricsRequest struct {
	PhotoRef       string `json:"photo_ref"`
	SignatureRef   string `json:"signature_ref"`
	FingerprintRef string `json:"fingerprint_ref"`
}

// Biometrics converts to the domain shape.
func (r BiometricsRequest) Biometrics() workflow.Biometrics {
	return workflow.Biometrics{
		PhotoRef:       r.PhotoRef,
		SignatureRef:   r.SignatureRef,
		FingerprintRef: r.FingerprintRef,
	}
}

// NoticeOfChangeRequest records renewal/duplicate details.
type NoticeOfChangeRequest struct {
	PreviousLicenseNumber string `json:"previous_license_number"`
	Details               string `json:"details"`
}

// Notice converts to the domain shape.
func (r NoticeOfChangeRequest) Notice() workflow.NoticeOfChange {
	return workflow.NoticeOfChange{
		PreviousLicenseNumber: r.PreviousLicenseNumber,
		Details:               r.Details,
	}
}

// FeesRequest records the clerk's fee selection.
type FeesRequest struct {
	FeeIDs []string `json:"fee_ids"`
}
