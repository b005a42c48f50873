package domain

import dErrors "licentia/pkg/domain-errors"

// LicenseCategory is a class of vehicle a license authorizes. The set is
// closed; the rule registry rejects references to anything outside it.
type LicenseCategory string

// Supported license categories, including learner classes and professional
// endorsements. Professional endorsements ride on a base license but carry
// their own rules.
const (
	CategoryA1 LicenseCategory = "A1" // light motorcycle
	CategoryA  LicenseCategory = "A"  // motorcycle
	CategoryB  LicenseCategory = "B"  // light vehicle
	CategoryBE LicenseCategory = "BE" // light vehicle with trailer
	CategoryC  LicenseCategory = "C"  // heavy goods vehicle
	CategoryD  LicenseCategory = "D"  // passenger transport vehicle

	// Learner classes.
	CategoryLearnerA LicenseCategory = "LA"
	CategoryLearnerB LicenseCategory = "LB"

	// Professional endorsements.
	CategoryPassengerTransport LicenseCategory = "PPV"
	CategoryGoodsTransport     LicenseCategory = "GDS"
	CategoryDangerousGoods     LicenseCategory = "DGR"
)

// validLicenseCategories is the single source of truth for the closed set.
var validLicenseCategories = map[LicenseCategory]bool{
	CategoryA1:                 true,
	CategoryA:                  true,
	CategoryB:                  true,
	CategoryBE:                 true,
	CategoryC:                  true,
	CategoryD:                  true,
	CategoryLearnerA:           true,
	CategoryLearnerB:           true,
	CategoryPassengerTransport: true,
	CategoryGoodsTransport:     true,
	CategoryDangerousGoods:     true,
}

// ParseLicenseCategory constructs a LicenseCategory from external input.
func ParseLicenseCategory(s string) (LicenseCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "license category cannot be empty")
	}
	c := LicenseCategory(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported license category: "+s)
	}
	return c, nil
}

// IsValid reports whether the category belongs to the closed set.
func (c LicenseCategory) IsValid() bool { return validLicenseCategories[c] }

func (c LicenseCategory) String() string { return string(c) }

// AllLicenseCategories returns the closed set in stable order.
func AllLicenseCategories() []LicenseCategory {
	return []LicenseCategory{
		CategoryA1, CategoryA, CategoryB, CategoryBE, CategoryC, CategoryD,
		CategoryLearnerA, CategoryLearnerB,
		CategoryPassengerTransport, CategoryGoodsTransport, CategoryDangerousGoods,
	}
}
