// Package insight asks Gemini for a short narrative over a computed forecast.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"retailforecast/forecast"
	"retailforecast/models"
)

// ErrNotConfigured is returned when no Gemini API key is set.
var ErrNotConfigured = errors.New("AI insight service is not configured")

type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// Client generates forecast insights with a Gemini model.
type Client struct {
	apiKey   string
	model    string
	generate generateFunc
}

// NewClient creates a Client. An empty apiKey yields a disabled client.
func NewClient(apiKey, model string) *Client {
	c := &Client{apiKey: apiKey, model: model}
	c.generate = c.callGemini
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Generate builds the prompt for outcome and parses the model's answer.
func (c *Client) Generate(ctx context.Context, outcome *forecast.ForecastOutcome, category, region string) (*models.ForecastInsight, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	prompt := constructInsightPrompt(outcome, category, region)
	resp, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("❌ [INSIGHT] Error from Gemini API: %v", err)
		return nil, fmt.Errorf("failed to generate insight from AI: %w", err)
	}

	analysis, err := parseGeminiResponse(resp)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ [INSIGHT] Generated %s insight for %s/%s", outcome.Model, category, region)
	return &models.ForecastInsight{
		ReportName:  fmt.Sprintf("%d-Period Sales Forecast Insight", len(outcome.Forecast)),
		GeneratedAt: time.Now(),
		Model:       outcome.Model.String(),
		Category:    category,
		Region:      region,
		Frequency:   outcome.Frequency.Code(),
		AiAnalysis:  *analysis,
	}, nil
}

func (c *Client) callGemini(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AI service: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	}
	return model.GenerateContent(ctx, genai.Text(prompt))
}

// constructInsightPrompt describes the history and the forecast to the model.
func constructInsightPrompt(outcome *forecast.ForecastOutcome, category, region string) string {
	var history strings.Builder
	for _, p := range outcome.History {
		fmt.Fprintf(&history, "%s: %.2f\n", p.Period.Format("2006-01-02"), p.Sales)
	}
	if history.Len() == 0 {
		history.WriteString("No historical sales data available.\n")
	}

	var predicted strings.Builder
	for _, p := range outcome.Forecast {
		fmt.Fprintf(&predicted, "%s: %.2f", p.Period.Format("2006-01-02"), p.Forecast)
		if p.Lower != nil && p.Upper != nil {
			fmt.Fprintf(&predicted, " (95%% interval %.2f to %.2f)", *p.Lower, *p.Upper)
		}
		predicted.WriteString("\n")
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert retail data analyst. Explain the sales forecast below to a business audience.

        **Analysis Context:**
        - Category: %s
        - Region: %s
        - Frequency: %s
        - Model: %s
        - Today's Date: %s

        **Historical Sales:**
        %s
        **Forecast:**
        %s
        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, category, region, outcome.Frequency.Label(), outcome.Model, time.Now().Format("2006-01-02"),
		history.String(), predicted.String(), jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseGeminiResponse pulls the analysis JSON out of the model's text parts.
func parseGeminiResponse(resp *genai.GenerateContentResponse) (*models.AiAnalysis, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var geminiText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			geminiText += string(txt)
		}
	}
	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Printf("⚠️  [INSIGHT] Could not extract JSON from Gemini response: %s", geminiText)
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var analysis models.AiAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		log.Printf("⚠️  [INSIGHT] Error parsing Gemini JSON: %v\nRaw JSON: %s", err, jsonStr)
		return nil, fmt.Errorf("failed to parse AI insight data")
	}
	if analysis.PositiveFactors == nil {
		analysis.PositiveFactors = []string{}
	}
	if analysis.NegativeFactors == nil {
		analysis.NegativeFactors = []string{}
	}
	return &analysis, nil
}
