package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TwitterClient publishes posts through the X API v2 tweet endpoint
// (POST /2/tweets) using an OAuth2 user-context bearer token.
type TwitterClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewTwitter creates a publisher for the X API. baseURL is overridable
// for tests; empty means the production endpoint.
func NewTwitter(token, baseURL string) *TwitterClient {
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &TwitterClient{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish sends the text as a tweet and returns the created tweet's ID.
// Any non-2xx response or a response without an ID is an error; the caller
// must not mark anything published in that case.
func (c *TwitterClient) Publish(ctx context.Context, text string) (*Result, error) {
	payload, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("twitter marshal: %w", err)
	}

	url := c.baseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("twitter request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitter read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result tweetResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("twitter unmarshal: %w", err)
	}

	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("twitter post error: %s", result.Errors[0].Message)
	}
	if result.Data.ID == "" {
		return nil, fmt.Errorf("twitter: no tweet ID in response")
	}

	return &Result{ExternalID: result.Data.ID}, nil
}

// --- X API v2 types ---

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetData struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type tweetError struct {
	Message string `json:"message"`
}

type tweetResponse struct {
	Data   tweetData    `json:"data"`
	Errors []tweetError `json:"errors"`
}
