package models

import "github.com/shopspring/decimal"

// AbcProduct is the subset of the product embedded in an ABC analysis row.
type AbcProduct struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Sku      string `json:"sku"`
	Category string `json:"category,omitempty"`
}

// AbcAnalysisRow is one line of the revenue classification report.
// Category is assigned by the backend (A, B or C).
type AbcAnalysisRow struct {
	Product              AbcProduct      `json:"product"`
	Category             string          `json:"category"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	PercentageOfTotal    decimal.Decimal `json:"percentageOfTotal"`
	CumulativePercentage decimal.Decimal `json:"cumulativePercentage"`
}

// ReorderRecommendation is one line of the restocking report.
type ReorderRecommendation struct {
	ID                  int64           `json:"id"`
	ProductID           int64           `json:"productId"`
	ProductName         string          `json:"productName"`
	ProductCategory     string          `json:"productCategory"`
	ProductSku          string          `json:"productSku,omitempty"`
	StoreName           string          `json:"storeName,omitempty"`
	CurrentStock        int             `json:"currentStock"`
	ReorderPoint        int             `json:"reorderPoint"`
	RecommendedQuantity int             `json:"recommendedQuantity"`
	SafetyStock         int             `json:"safetyStock"`
	AverageDailySales   decimal.Decimal `json:"averageDailySales"`
	LeadTime            int             `json:"leadTime"`
}
