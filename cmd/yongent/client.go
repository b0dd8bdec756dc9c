package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/modelcycles/yongent/internal/jobs"
)

// apiClient talks to a running daemon's HTTP API.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type downloadPayload struct {
	Query     string `json:"query,omitempty"`
	URL       string `json:"url,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

type downloadReply struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type jobReply struct {
	JobID     string       `json:"job_id"`
	Status    string       `json:"status"`
	Step      string       `json:"step"`
	Query     string       `json:"query"`
	URL       string       `json:"url"`
	Error     string       `json:"error"`
	Result    *jobs.Result `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type jobListReply struct {
	Jobs []jobReply `json:"jobs"`
}

type apiError struct {
	Error string `json:"error"`
}

func (c *apiClient) download(ctx context.Context, payload downloadPayload) (*downloadReply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/download", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var reply downloadReply
	if err := c.do(req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *apiClient) status(ctx context.Context, jobID string) (*jobReply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	var reply jobReply
	if err := c.do(req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *apiClient) jobs(ctx context.Context, statuses []string) ([]jobReply, error) {
	endpoint := c.baseURL + "/api/jobs"
	if len(statuses) > 0 {
		values := url.Values{}
		for _, status := range statuses {
			values.Add("status", status)
		}
		endpoint += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var reply jobListReply
	if err := c.do(req, &reply); err != nil {
		return nil, err
	}
	return reply.Jobs, nil
}

func (c *apiClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
