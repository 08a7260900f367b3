package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// languageIDs maps language names to judge language identifiers
var languageIDs = map[string]int{
	"python":     71,
	"java":       62,
	"cpp":        54,
	"javascript": 63,
	"c":          50,
}

// HTTPJudge implements CodeJudge against a Judge0-compatible API.
type HTTPJudge struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPJudge creates a live code judge
func NewHTTPJudge(baseURL, apiKey string, timeout time.Duration) *HTTPJudge {
	return &HTTPJudge{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name
func (j *HTTPJudge) Name() string { return "judge" }

// HealthCheck probes the judge system info endpoint
func (j *HTTPJudge) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/system_info", nil)
	if err != nil {
		return err
	}
	j.setHeaders(req)

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

type judgeSubmissionBody struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	CPUTimeLimit   int    `json:"cpu_time_limit"`
	MemoryLimit    int    `json:"memory_limit"`
}

type judgeSubmissionResult struct {
	Token  string `json:"token"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Time   string `json:"time"`
	Memory int    `json:"memory"`
	Status struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute submits each test case and polls for its result.
func (j *HTTPJudge) Execute(ctx context.Context, sub JudgeSubmission) (*JudgeResult, error) {
	languageID, ok := languageIDs[sub.Language]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", sub.Language)
	}

	timeLimit := sub.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = 5
	}

	results := make([]CaseResult, 0, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		result := CaseResult{TestCase: i + 1}

		token, err := j.submit(ctx, judgeSubmissionBody{
			SourceCode:     base64.StdEncoding.EncodeToString([]byte(sub.SourceCode)),
			LanguageID:     languageID,
			Stdin:          base64.StdEncoding.EncodeToString([]byte(tc.Input)),
			ExpectedOutput: base64.StdEncoding.EncodeToString([]byte(tc.Expected)),
			CPUTimeLimit:   timeLimit,
			MemoryLimit:    256000,
		})
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		sr, err := j.poll(ctx, token)
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Status = sr.Status.Description
		result.Passed = sr.Status.ID == 3 // Accepted
		result.Output = sr.Stdout
		result.Error = sr.Stderr
		result.MemoryKB = sr.Memory
		fmt.Sscanf(sr.Time, "%f", &result.TimeSec)
		results = append(results, result)
	}

	return &JudgeResult{Results: results, Summary: summarize(results)}, nil
}

// submit posts one submission and returns its token
func (j *HTTPJudge) submit(ctx context.Context, body judgeSubmissionBody) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		j.baseURL+"/submissions?base64_encoded=true", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	j.setHeaders(req)

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: submission failed with status %d", ErrUnavailable, resp.StatusCode)
	}

	var sr judgeSubmissionResult
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return sr.Token, nil
}

// poll waits for a submission to leave the queue, bounded by ctx.
func (j *HTTPJudge) poll(ctx context.Context, token string) (*judgeSubmissionResult, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			j.baseURL+"/submissions/"+token+"?base64_encoded=false", nil)
		if err != nil {
			return nil, err
		}
		j.setHeaders(req)

		resp, err := j.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		var sr judgeSubmissionResult
		err = json.NewDecoder(resp.Body).Decode(&sr)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		// 1 = In Queue, 2 = Processing
		if sr.Status.ID != 1 && sr.Status.ID != 2 {
			return &sr, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (j *HTTPJudge) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if j.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", j.apiKey)
		req.Header.Set("X-RapidAPI-Host", "judge0-ce.p.rapidapi.com")
	}
}
