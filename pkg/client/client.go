package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a Go SDK for the interview-engine API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new interview-engine client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// InterviewConfig configures a new interview session
type InterviewConfig struct {
	Role             string   `json:"role"`
	Difficulty       string   `json:"difficulty"`
	LanguagesAllowed []string `json:"languages_allowed,omitempty"`
	DurationMinutes  int      `json:"duration_minutes"`
	RubricID         string   `json:"rubric_id,omitempty"`
}

// AgentMessage is one entry from the session message log
type AgentMessage struct {
	Sender    string         `json:"sender"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// StartedInterview is returned after creating a session
type StartedInterview struct {
	SessionID string       `json:"session_id"`
	Status    string       `json:"status"`
	Message   AgentMessage `json:"message"`
}

// InterviewStatus is a read-only session snapshot
type InterviewStatus struct {
	SessionID    string             `json:"session_id"`
	Status       string             `json:"status"`
	CurrentPhase string             `json:"current_phase"`
	MessageCount int                `json:"message_count"`
	Scores       map[string]float64 `json:"scores,omitempty"`
}

// AgentResponse is the structured result of one routed action
type AgentResponse struct {
	Action  string         `json:"action"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Summary aggregates the recorded responses
type Summary struct {
	ResponsesCount     int      `json:"responses_count"`
	AverageSentiment   float64  `json:"average_sentiment"`
	SentimentCategory  string   `json:"sentiment_category"`
	TotalKeywords      int      `json:"total_keywords"`
	UniqueCompetencies []string `json:"unique_competencies"`
	StarCompleteness   float64  `json:"star_completeness"`
	OverallScore       int      `json:"overall_score"`
	Strengths          []string `json:"strengths"`
	ImprovementAreas   []string `json:"improvement_areas"`
}

// Report is the terminal interview artifact
type Report struct {
	SessionID        string             `json:"session_id"`
	Role             string             `json:"role"`
	Difficulty       string             `json:"difficulty"`
	Summary          Summary            `json:"summary"`
	CompetencyScores map[string]float64 `json:"competency_scores,omitempty"`
	WeightedScore    float64            `json:"weighted_score,omitempty"`
	Benchmarks       map[string]float64 `json:"benchmarks,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// StartInterview creates a new interview session
func (c *Client) StartInterview(ctx context.Context, cfg InterviewConfig) (*StartedInterview, error) {
	body, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, "POST", "/api/v1/interviews", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var started StartedInterview
	if err := decodeEnvelope(resp, &started); err != nil {
		return nil, err
	}
	return &started, nil
}

// GetStatus retrieves an interview session snapshot
func (c *Client) GetStatus(ctx context.Context, sessionID string) (*InterviewStatus, error) {
	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/interviews/%s", sessionID), nil)
	if err != nil {
		return nil, err
	}

	var status InterviewStatus
	if err := decodeEnvelope(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Advance moves the interview to its next phase
func (c *Client) Advance(ctx context.Context, sessionID string) (*AgentResponse, error) {
	resp, err := c.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/interviews/%s/advance", sessionID), nil)
	if err != nil {
		return nil, err
	}

	var agentResp AgentResponse
	if err := decodeEnvelope(resp, &agentResp); err != nil {
		return nil, err
	}
	return &agentResp, nil
}

// SubmitResponse submits one behavioral answer
func (c *Client) SubmitResponse(ctx context.Context, sessionID string, questionID int, text string) (*AgentResponse, error) {
	body, err := json.Marshal(map[string]any{
		"question_id": questionID,
		"text":        text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/interviews/%s/responses", sessionID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var agentResp AgentResponse
	if err := decodeEnvelope(resp, &agentResp); err != nil {
		return nil, err
	}
	return &agentResp, nil
}

// GetSummary retrieves the running assessment summary
func (c *Client) GetSummary(ctx context.Context, sessionID string) (*Summary, error) {
	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/interviews/%s/summary", sessionID), nil)
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := decodeEnvelope(resp, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// EndInterview closes the session and returns the terminal report
func (c *Client) EndInterview(ctx context.Context, sessionID string) (*Report, error) {
	resp, err := c.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/interviews/%s/end", sessionID), nil)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := decodeEnvelope(resp, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReport retrieves an archived report
func (c *Client) GetReport(ctx context.Context, sessionID string) (*Report, error) {
	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/reports/%s", sessionID), nil)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := decodeEnvelope(resp, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, "GET", "/health", nil)
	return err
}

// decodeEnvelope unwraps the API response envelope into out.
func decodeEnvelope(resp []byte, out any) error {
	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		if result.Error == nil {
			return fmt.Errorf("API error: request failed without detail")
		}
		return fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
