package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAnalysis implements AnalysisProvider using Google Gemini.
type GeminiAnalysis struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalysis creates a live Gemini-backed analysis provider.
func NewGeminiAnalysis(ctx context.Context, apiKey, model string) (*GeminiAnalysis, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalysis{client: client, model: model}, nil
}

// Name returns the provider name
func (g *GeminiAnalysis) Name() string { return "gemini" }

// HealthCheck verifies the client is usable
func (g *GeminiAnalysis) HealthCheck(ctx context.Context) error {
	if g.client == nil {
		return ErrUnavailable
	}
	return nil
}

// Analyze runs the qualitative analysis prompt and parses the structured
// JSON result.
func (g *GeminiAnalysis) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildAnalysisPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed analysis result: %v", ErrUnavailable, err)
	}

	return &result, nil
}

// Close releases the underlying client
func (g *GeminiAnalysis) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// buildAnalysisPrompt constructs the structured evaluation prompt from
// the question, its competency tags and the candidate response.
func buildAnalysisPrompt(req AnalysisRequest) string {
	var sb strings.Builder

	sb.WriteString("Analyze this behavioral interview response for a ")
	sb.WriteString(req.Question.Category)
	sb.WriteString(" question.\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(req.Question.Prompt)
	sb.WriteString("\nResponse: ")
	sb.WriteString(req.Response)
	sb.WriteString("\n\nEvaluate on:\n")
	sb.WriteString("1. STAR method completeness (Situation, Task, Action, Result) - score 0-1\n")
	sb.WriteString("2. Competency demonstration for: ")
	sb.WriteString(strings.Join(req.Question.Competencies, ", "))
	sb.WriteString("\n3. Specific insights and strengths\n")
	sb.WriteString("4. Areas for improvement\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(`{
  "star_completeness": 0.8,
  "competency_demonstration": "strong|moderate|weak",
  "insights": ["insight1", "insight2"],
  "improvement_areas": ["area1", "area2"]
}` + "\n")

	return sb.String()
}

// extractText extracts text from a Gemini API response
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers. LLMs often wrap
// JSON in ```json ... ``` blocks even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
