package appscript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client posts JSON payloads to a Google Apps Script web app.
type Client interface {
	Post(ctx context.Context, payload any) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a client for the deployed script URL.
func NewClient(scriptURL string, timeout time.Duration) (*APIClient, error) {
	if scriptURL == "" {
		return nil, errors.New("apps script url must not be empty")
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{
		httpClient: restyClient,
		url:        scriptURL,
	}, nil
}

// Post sends payload and discards the response. Apps Script answers with a
// redirect to an HTML page whose content carries nothing we act on, so only
// transport failures are reported.
func (c *APIClient) Post(ctx context.Context, payload any) error {
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post to apps script: %w", err)
	}
	return nil
}
