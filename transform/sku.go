package transform

import "strings"

const (
	acnePathway = "health_condition_acne"
	acneSKU     = "acne"
	visitSuffix = "_visit"
)

// CostItemType returns the visit SKU billed for a pathway. Acne predates the
// health_condition_ naming and keeps its short SKU.
func CostItemType(pathway string) string {
	if pathway == acnePathway {
		return acneSKU + visitSuffix
	}
	return pathway + visitSuffix
}

// PathwayFromSKU is the inverse of CostItemType.
func PathwayFromSKU(sku string) string {
	base := strings.TrimSuffix(sku, visitSuffix)
	if base == acneSKU {
		return acnePathway
	}
	return base
}
