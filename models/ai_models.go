package models

import "time"

// ReorderInsight is the narrative the AI assistant writes about a set of recommendations.
type ReorderInsight struct {
	Summary     string    `json:"summary"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}
