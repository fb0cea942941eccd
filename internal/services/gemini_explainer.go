package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

var errEmptyGeminiResponse = errors.New("gemini returned no candidates")

// GeminiExplainer asks the Gemini generateContent API for a short match
// explanation. Callers treat any failure as "no explanation"; the request
// carries its own timeout so a slow model never stalls match results.
type GeminiExplainer struct {
	apiKey string
	model  string
	client *http.Client
}

func NewGeminiExplainer(apiKey, model string) *GeminiExplainer {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiExplainer{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiExplainer) Explain(ctx context.Context, match models.MentorMatch, desiredLevel, desiredMode string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini api key not configured")
	}

	prompt := fmt.Sprintf(
		"In one short sentence, explain why mentor %s (proficiency %s, confidence %d/10, prefers %s sessions) "+
			"is a good match for a learner who wants to learn %s at %s level via %s sessions.",
		match.MentorName, match.ProficiencyLevel, match.ConfidenceScore, match.PreferredMode,
		match.SkillName, desiredLevel, desiredMode,
	)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(geminiEndpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyGeminiResponse
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
