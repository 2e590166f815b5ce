// Package insights turns reorder recommendations into a short narrative with Gemini.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"retaildash/models"
)

// ErrNoRecommendations is returned when there is nothing to explain.
var ErrNoRecommendations = errors.New("no reorder recommendations to explain")

// Summarizer explains a set of reorder recommendations.
type Summarizer interface {
	Explain(ctx context.Context, storeName string, recs []models.ReorderRecommendation) (*models.ReorderInsight, error)
}

// Gemini is a Summarizer backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewGemini creates the Gemini client once for the lifetime of the server.
func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return &Gemini{client: client, model: model, log: log}, nil
}

// Close releases the client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Explain(ctx context.Context, storeName string, recs []models.ReorderRecommendation) (*models.ReorderInsight, error) {
	if len(recs) == 0 {
		return nil, ErrNoRecommendations
	}
	prompt, err := BuildPrompt(storeName, recs)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.Warn("Gemini request failed", zap.Error(err))
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	summary := responseText(resp)
	if summary == "" {
		return nil, errors.New("failed to generate analysis: empty response")
	}
	return &models.ReorderInsight{
		Summary:     summary,
		Model:       g.model,
		GeneratedAt: time.Now(),
	}, nil
}

// BuildPrompt renders the instruction and the recommendation data sent to the model.
func BuildPrompt(storeName string, recs []models.ReorderRecommendation) (string, error) {
	data, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("failed to serialize data: %w", err)
	}
	if storeName == "" {
		storeName = "the selected store"
	}
	return fmt.Sprintf(
		`You are a helpful AI assistant for a retail business. Below are the reorder recommendations for %s, computed by the inventory system. Do not change any quantity. In at most five sentences, tell the store manager which products to order first and why, referring to current stock, reorder point and lead time.

Data: %s`,
		storeName,
		string(data),
	), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}
