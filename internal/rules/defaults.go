package rules

import "licentia/pkg/domain"

// Default returns the issuing authority's current rule table. Treated as
// fixed configuration: editing happens out of band, never at runtime.
func Default() []CategoryRule {
	return []CategoryRule{
		{
			Category:            domain.CategoryLearnerA,
			MinimumAge:          16,
			AllowsLearnerPermit: true,
			Family:              FamilyLearner,
		},
		{
			Category:            domain.CategoryLearnerB,
			MinimumAge:          17,
			AllowsLearnerPermit: true,
			Family:              FamilyLearner,
			MedicalOver60:       true,
		},
		{
			Category:              domain.CategoryA1,
			MinimumAge:            16,
			RequiresLearnerPermit: true,
			LearnerClass:          domain.CategoryLearnerA,
			Family:                FamilyMotorcycle,
		},
		{
			Category:               domain.CategoryA,
			MinimumAge:             18,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryA1},
			RequiresLearnerPermit:  true,
			LearnerClass:           domain.CategoryLearnerA,
			SupersededCategories:   []domain.LicenseCategory{domain.CategoryA1},
			Family:                 FamilyMotorcycle,
		},
		{
			Category:              domain.CategoryB,
			MinimumAge:            18,
			RequiresLearnerPermit: true,
			LearnerClass:          domain.CategoryLearnerB,
			Family:                FamilyLightVehicle,
			MedicalOver60:         true,
		},
		{
			Category:               domain.CategoryBE,
			MinimumAge:             18,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryB},
			Family:                 FamilyLightVehicle,
			MedicalOver60:          true,
		},
		{
			Category:               domain.CategoryC,
			MinimumAge:             21,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryB},
			SupersededCategories:   []domain.LicenseCategory{domain.CategoryB},
			Family:                 FamilyHeavyVehicle,
			IsCommercial:           true,
			MedicalAlways:          true,
		},
		{
			Category:               domain.CategoryD,
			MinimumAge:             24,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryB},
			SupersededCategories:   []domain.LicenseCategory{domain.CategoryB},
			Family:                 FamilyHeavyVehicle,
			IsCommercial:           true,
			MedicalAlways:          true,
		},
		{
			Category:               domain.CategoryPassengerTransport,
			MinimumAge:             21,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryB},
			Family:                 FamilyProfessional,
			IsCommercial:           true,
			MedicalAlways:          true,
		},
		{
			Category:               domain.CategoryGoodsTransport,
			MinimumAge:             18,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryB},
			Family:                 FamilyProfessional,
			IsCommercial:           true,
			MedicalAlways:          true,
		},
		{
			Category:               domain.CategoryDangerousGoods,
			MinimumAge:             25,
			PrerequisiteCategories: []domain.LicenseCategory{domain.CategoryB},
			RequiresCategory:       domain.CategoryGoodsTransport,
			Family:                 FamilyProfessional,
			IsCommercial:           true,
			MedicalAlways:          true,
		},
	}
}
