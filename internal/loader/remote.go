package loader

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"SkinIndex/internal/model"
)

// RemoteSource fetches histories from an HTTP mirror of the data directory layout.
type RemoteSource struct {
	BaseURL string
	Client  *resty.Client
}

// NewRemoteSource creates a RemoteSource with retries on transient failures.
func NewRemoteSource(baseURL string, timeout time.Duration) *RemoteSource {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json")
	return &RemoteSource{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (r *RemoteSource) Name() string { return "remote" }

// URL returns the history location for item.
func (r *RemoteSource) URL(item model.Item) string {
	return fmt.Sprintf("%s/raw/%s/%s/%s/data.json", r.BaseURL,
		url.PathEscape(item.Collection), url.PathEscape(item.Tier), url.PathEscape(item.Name))
}

func (r *RemoteSource) Fetch(ctx context.Context, item model.Item) ([]byte, error) {
	resp, err := r.Client.R().SetContext(ctx).Get(r.URL(item))
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch history: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	return resp.Body(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
