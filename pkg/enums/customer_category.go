package enums

import "fmt"

// CustomerCategory classifies the buyer types the store sells to.
type CustomerCategory string

const (
	CustomerCategorySchool         CustomerCategory = "school"
	CustomerCategoryStationeryShop CustomerCategory = "stationery_shop"
	CustomerCategoryDealer         CustomerCategory = "dealer"
)

var validCustomerCategories = []CustomerCategory{
	CustomerCategorySchool,
	CustomerCategoryStationeryShop,
	CustomerCategoryDealer,
}

// String implements fmt.Stringer.
func (c CustomerCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerCategory.
func (c CustomerCategory) IsValid() bool {
	for _, candidate := range validCustomerCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerCategory converts raw input into a CustomerCategory.
func ParseCustomerCategory(value string) (CustomerCategory, error) {
	for _, candidate := range validCustomerCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer category %q", value)
}
