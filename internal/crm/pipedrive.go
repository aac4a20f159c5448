package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL     = "https://api.pipedrive.com/v1"
	defaultHTTPTimeout = 10 * time.Second
)

// PipedriveClient talks to the Pipedrive REST API.
type PipedriveClient struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

// NewPipedriveClient creates a Pipedrive API client.
func NewPipedriveClient(apiToken string) *PipedriveClient {
	return &PipedriveClient{
		apiToken:   apiToken,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *PipedriveClient) SetBaseURL(base string) {
	c.baseURL = base
}

// Person is the contact payload for Pipedrive.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Deal is the deal payload for Pipedrive.
type Deal struct {
	Title      string `json:"title"`
	PipelineID int    `json:"pipeline_id,omitempty"`
	PersonID   int    `json:"person_id,omitempty"`
}

type apiResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID int `json:"id"`
	} `json:"data"`
	Error string `json:"error"`
}

// CreatePerson creates a person and returns its Pipedrive id.
func (c *PipedriveClient) CreatePerson(ctx context.Context, person Person) (int, error) {
	return c.post(ctx, "/persons", person)
}

// CreateDeal creates a deal and returns its Pipedrive id.
func (c *PipedriveClient) CreateDeal(ctx context.Context, deal Deal) (int, error) {
	return c.post(ctx, "/deals", deal)
}

// UpdateDeal updates an existing deal.
func (c *PipedriveClient) UpdateDeal(ctx context.Context, dealID int, deal Deal) error {
	path := fmt.Sprintf("/deals/%d", dealID)
	_, err := c.do(ctx, http.MethodPut, path, deal)
	return err
}

func (c *PipedriveClient) post(ctx context.Context, path string, payload any) (int, error) {
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return 0, err
	}
	return resp.Data.ID, nil
}

func (c *PipedriveClient) do(ctx context.Context, method, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("crm: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s%s?api_token=%s", c.baseURL, path, c.apiToken)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crm: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("crm: read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("crm: unmarshal response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &parsed, fmt.Errorf("crm: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	if !parsed.Success {
		return &parsed, fmt.Errorf("crm: API rejected request: %s", parsed.Error)
	}

	return &parsed, nil
}
