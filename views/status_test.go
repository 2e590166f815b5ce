package views

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"retaildash/models"
)

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		stock   int
		label   string
		variant string
	}{
		{-5, "Out of Stock", "danger"},
		{0, "Out of Stock", "danger"},
		{1, "Low Stock", "warning"},
		{9, "Low Stock", "warning"},
		{10, "Normal", "info"},
		{49, "Normal", "info"},
		{50, "Well Stocked", "success"},
		{1000, "Well Stocked", "success"},
	}
	for _, tt := range tests {
		got := StockStatusOf(tt.stock)
		assert.Equal(t, tt.label, got.Label, "stock %d", tt.stock)
		assert.Equal(t, tt.variant, got.Variant, "stock %d", tt.stock)
	}
}

func TestPriorityOf(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		stock    int
		expected Priority
	}{
		{"exactly 3", 30, 10, PriorityUrgent},
		{"exactly 2", 20, 10, PriorityHigh},
		{"exactly 1.5", 3, 2, PriorityMedium},
		{"just below 1.5", 14, 10, PriorityLow},
		{"zero stock counts as one", 3, 0, PriorityUrgent},
		{"zero stock small order", 1, 0, PriorityLow},
		{"negative stock counts as one", 2, -4, PriorityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.ReorderRecommendation{RecommendedQuantity: tt.qty, CurrentStock: tt.stock}
			assert.Equal(t, tt.expected, PriorityOf(rec))
		})
	}
	assert.True(t, PriorityUrgent.Urgent())
	assert.True(t, PriorityHigh.Urgent())
	assert.False(t, PriorityMedium.Urgent())
	assert.Equal(t, "danger", PriorityUrgent.Variant())
	assert.Equal(t, "success", PriorityLow.Variant())
}

func TestEstimatedValue(t *testing.T) {
	recs := []models.ReorderRecommendation{
		{ProductID: 1, ProductCategory: "Electronics", RecommendedQuantity: 2},
		{ProductID: 2, ProductCategory: "Books", RecommendedQuantity: 10},
		{ProductID: 3, ProductCategory: "Garden", RecommendedQuantity: 1},
	}

	t.Run("placeholder table", func(t *testing.T) {
		// 2*299.99 + 10*19.99 + 1*99.99
		assert.Equal(t, "899.87", EstimatedValue(recs, nil).StringFixed(2))
	})

	t.Run("catalog price wins", func(t *testing.T) {
		prices := map[int64]decimal.Decimal{1: decimal.RequireFromString("250.00")}
		// 2*250 + 10*19.99 + 1*99.99
		assert.Equal(t, "799.89", EstimatedValue(recs, prices).StringFixed(2))
	})

	assert.True(t, EstimatedValue(nil, nil).IsZero())
}

func TestAbcCategoryOf(t *testing.T) {
	assert.Equal(t, "A - High Value", AbcCategoryOf("A").Label)
	assert.Equal(t, "warning", AbcCategoryOf("B").Variant)
	assert.Equal(t, "Minimize inventory", AbcCategoryOf("C").Recommendation)

	unknown := AbcCategoryOf("D")
	assert.Equal(t, "D", unknown.Label)
	assert.Empty(t, unknown.Recommendation)
}
