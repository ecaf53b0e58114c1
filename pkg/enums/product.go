package enums

import "fmt"

// ProductStatus captures whether a product is visible for exchange.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusInactive,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductCategory represents the canonical listing categories in the catalog.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryClothing    ProductCategory = "clothing"
	ProductCategoryBooks       ProductCategory = "books"
	ProductCategoryFurniture   ProductCategory = "furniture"
	ProductCategoryToys        ProductCategory = "toys"
	ProductCategorySports      ProductCategory = "sports"
	ProductCategoryGarden      ProductCategory = "garden"
	ProductCategoryMusic       ProductCategory = "music"
	ProductCategoryTools       ProductCategory = "tools"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryClothing,
	ProductCategoryBooks,
	ProductCategoryFurniture,
	ProductCategoryToys,
	ProductCategorySports,
	ProductCategoryGarden,
	ProductCategoryMusic,
	ProductCategoryTools,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCondition describes the wear state declared by the owner.
type ProductCondition string

const (
	ProductConditionNew     ProductCondition = "new"
	ProductConditionLikeNew ProductCondition = "like_new"
	ProductConditionGood    ProductCondition = "good"
	ProductConditionFair    ProductCondition = "fair"
	ProductConditionWorn    ProductCondition = "worn"
)

var validProductConditions = []ProductCondition{
	ProductConditionNew,
	ProductConditionLikeNew,
	ProductConditionGood,
	ProductConditionFair,
	ProductConditionWorn,
}

// String implements fmt.Stringer.
func (c ProductCondition) String() string {
	return string(c)
}

// IsValid reports whether the value matches a known ProductCondition.
func (c ProductCondition) IsValid() bool {
	for _, candidate := range validProductConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCondition converts raw input into a ProductCondition.
func ParseProductCondition(value string) (ProductCondition, error) {
	for _, candidate := range validProductConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product condition %q", value)
}
