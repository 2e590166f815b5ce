package views

import (
	"github.com/shopspring/decimal"

	"retaildash/models"
)

// StockStatus is the label and colour of a stock level.
type StockStatus struct {
	Label   string
	Variant string
}

// StockStatusOf classifies a stock level. Negative stock is treated as zero.
func StockStatusOf(currentStock int) StockStatus {
	switch {
	case currentStock <= 0:
		return StockStatus{Label: "Out of Stock", Variant: "danger"}
	case currentStock < 10:
		return StockStatus{Label: "Low Stock", Variant: "warning"}
	case currentStock < 50:
		return StockStatus{Label: "Normal", Variant: "info"}
	default:
		return StockStatus{Label: "Well Stocked", Variant: "success"}
	}
}

// Priority is the urgency of a reorder recommendation.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var (
	urgentThreshold = decimal.NewFromInt(3)
	highThreshold   = decimal.NewFromInt(2)
	mediumThreshold = decimal.NewFromFloat(1.5)
)

// PriorityOf derives the priority from recommendedQuantity / max(currentStock, 1).
func PriorityOf(rec models.ReorderRecommendation) Priority {
	stock := rec.CurrentStock
	if stock < 1 {
		stock = 1
	}
	urgency := decimal.NewFromInt(int64(rec.RecommendedQuantity)).Div(decimal.NewFromInt(int64(stock)))
	switch {
	case urgency.GreaterThanOrEqual(urgentThreshold):
		return PriorityUrgent
	case urgency.GreaterThanOrEqual(highThreshold):
		return PriorityHigh
	case urgency.GreaterThanOrEqual(mediumThreshold):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Variant is the badge colour of p.
func (p Priority) Variant() string {
	switch p {
	case PriorityUrgent:
		return "danger"
	case PriorityHigh:
		return "warning"
	case PriorityMedium:
		return "info"
	default:
		return "success"
	}
}

// Urgent reports whether p counts towards the urgent items summary.
func (p Priority) Urgent() bool {
	return p == PriorityUrgent || p == PriorityHigh
}

// Placeholder prices used when the catalog has no price for a product.
var (
	placeholderPrices = map[string]decimal.Decimal{
		"Electronics": decimal.RequireFromString("299.99"),
		"Accessories": decimal.RequireFromString("49.99"),
		"Clothing":    decimal.RequireFromString("79.99"),
		"Books":       decimal.RequireFromString("19.99"),
	}
	defaultPlaceholderPrice = decimal.RequireFromString("99.99")
)

// PlaceholderPrice returns the fallback unit price for a product category.
func PlaceholderPrice(category string) decimal.Decimal {
	if p, ok := placeholderPrices[category]; ok {
		return p
	}
	return defaultPlaceholderPrice
}

// EstimatedValue sums recommendedQuantity × unit price. prices maps product id to the
// catalog unit price; products missing from it fall back to the category placeholder.
func EstimatedValue(recs []models.ReorderRecommendation, prices map[int64]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range recs {
		price, ok := prices[rec.ProductID]
		if !ok {
			price = PlaceholderPrice(rec.ProductCategory)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(rec.RecommendedQuantity))))
	}
	return total
}

// AbcCategory describes an ABC class for display.
type AbcCategory struct {
	Label          string
	Variant        string
	Recommendation string
}

// AbcCategoryOf returns the badge and advice for an ABC class. Unknown classes are
// shown as returned, without advice.
func AbcCategoryOf(category string) AbcCategory {
	switch category {
	case "A":
		return AbcCategory{Label: "A - High Value", Variant: "success", Recommendation: "High Priority - Never run out!"}
	case "B":
		return AbcCategory{Label: "B - Medium Value", Variant: "warning", Recommendation: "Balanced approach"}
	case "C":
		return AbcCategory{Label: "C - Low Value", Variant: "secondary", Recommendation: "Minimize inventory"}
	default:
		return AbcCategory{Label: category, Variant: "light"}
	}
}
