// Package rules holds the per-category license rule table and its pure
// derivations. The table is loaded and validated once at startup; after
// that every operation is a read-only lookup, so the registry needs no
// synchronization.
package rules

import "licentia/pkg/domain"

// Family groups categories for display and reporting.
type Family string

const (
	FamilyMotorcycle   Family = "motorcycle"
	FamilyLightVehicle Family = "light_vehicle"
	FamilyHeavyVehicle Family = "heavy_vehicle"
	FamilyLearner      Family = "learner"
	FamilyProfessional Family = "professional"
)

// CategoryRule is the canonical per-category rule record. Every field is
// mandatory; a zero MinimumAge or empty Family is rejected at load time
// rather than defaulted at evaluation time.
type CategoryRule struct {
	Category domain.LicenseCategory

	// MinimumAge in whole years.
	MinimumAge int

	// PrerequisiteCategories must already be held before applying.
	PrerequisiteCategories []domain.LicenseCategory

	// RequiresLearnerPermit gates the category behind LearnerClass for
	// application types that demand a learner stage.
	RequiresLearnerPermit bool
	LearnerClass          domain.LicenseCategory

	// AllowsLearnerPermit marks categories obtainable as a learner permit.
	AllowsLearnerPermit bool

	// SupersededCategories are automatically authorized once this category
	// is granted.
	SupersededCategories []domain.LicenseCategory

	// RequiresCategory is a co-selection edge: this category can only be
	// selected together with the referenced one (dangerous goods implies
	// goods). Zero when absent.
	RequiresCategory domain.LicenseCategory

	Family       Family
	IsCommercial bool

	// MedicalAlways mandates a medical assessment for every applicant;
	// MedicalOver60 only from age 60 up.
	MedicalAlways bool
	MedicalOver60 bool
}
