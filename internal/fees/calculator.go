package fees

import (
	"github.com/shopspring/decimal"

	"licentia/pkg/domain"
)

// Calculate quotes the fees applicable to an application type and its
// categories. An empty schedule yields an empty quote, not an error; the
// review step treats a quote with no selected fees as a validation
// failure, never as a calculator fault.
func Calculate(appType domain.ApplicationType, categories []domain.LicenseCategory, schedule []FeeStructure) Quote {
	quote := Quote{Total: decimal.Zero}
	for _, fee := range schedule {
		if !matchesType(fee, appType) || !matchesCategory(fee, categories) {
			continue
		}
		quote.Items = append(quote.Items, LineItem{
			FeeID:  fee.ID,
			Label:  fee.Label,
			Amount: fee.Amount,
		})
		quote.Total = quote.Total.Add(fee.Amount)
	}
	return quote
}

func matchesType(fee FeeStructure, appType domain.ApplicationType) bool {
	if len(fee.ApplicationTypes) == 0 {
		return true
	}
	for _, t := range fee.ApplicationTypes {
		if t == appType {
			return true
		}
	}
	return false
}

func matchesCategory(fee FeeStructure, categories []domain.LicenseCategory) bool {
	if len(fee.Categories) == 0 {
		return true
	}
	for _, want := range fee.Categories {
		for _, have := range categories {
			if want == have {
				return true
			}
		}
	}
	return false
}
