package enums

import "fmt"

// ItemCategory represents the canonical inventory categories.
type ItemCategory string

const (
	ItemCategoryParts  ItemCategory = "parts"
	ItemCategoryTools  ItemCategory = "tools"
	ItemCategoryFluids ItemCategory = "fluids"
)

var validItemCategories = []ItemCategory{
	ItemCategoryParts,
	ItemCategoryTools,
	ItemCategoryFluids,
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

// PartSubcategory refines the parts category.
type PartSubcategory string

const (
	PartSubcategoryPanel      PartSubcategory = "panel"
	PartSubcategorySuspension PartSubcategory = "suspension"
	PartSubcategoryDriveline  PartSubcategory = "driveline"
	PartSubcategoryPowertrain PartSubcategory = "powertrain"
	PartSubcategoryOther      PartSubcategory = "other"
)

var validPartSubcategories = []PartSubcategory{
	PartSubcategoryPanel,
	PartSubcategorySuspension,
	PartSubcategoryDriveline,
	PartSubcategoryPowertrain,
	PartSubcategoryOther,
}

// String implements fmt.Stringer.
func (s PartSubcategory) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PartSubcategory.
func (s PartSubcategory) IsValid() bool {
	for _, candidate := range validPartSubcategories {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePartSubcategory converts raw input into a PartSubcategory.
func ParsePartSubcategory(value string) (PartSubcategory, error) {
	for _, candidate := range validPartSubcategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid part subcategory %q", value)
}

// PartCondition grades the physical state of a part.
type PartCondition string

const (
	PartConditionNew         PartCondition = "new"
	PartConditionUsedGood    PartCondition = "used-good"
	PartConditionUsedFair    PartCondition = "used-fair"
	PartConditionPoorDamaged PartCondition = "poor-damaged"
)

var validPartConditions = []PartCondition{
	PartConditionNew,
	PartConditionUsedGood,
	PartConditionUsedFair,
	PartConditionPoorDamaged,
}

// String implements fmt.Stringer.
func (c PartCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known PartCondition.
func (c PartCondition) IsValid() bool {
	for _, candidate := range validPartConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePartCondition converts raw input into a PartCondition.
func ParsePartCondition(value string) (PartCondition, error) {
	for _, candidate := range validPartConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid part condition %q", value)
}
