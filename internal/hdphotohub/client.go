package hdphotohub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

const apiKeyHeader = "api_key"

// Client fetches site records from the HDPhotoHub API
//
//go:generate mockgen -source=client.go -destination=../mocks/hdphotohub_client.go -package=mocks -mock_names=Client=MockSourceClient
type Client interface {
	// GetSite fetches one site. includeAll also requests inactive, archived
	// and not-yet-generated media, which the default response omits.
	// Failures are returned as *domain.FetchError and never retried here.
	GetSite(ctx context.Context, siteID string, includeAll bool) (*domain.SourceRecord, error)
}

type client struct {
	httpClient adapter.HTTPClient
	io         adapter.IO
	baseURL    string
	apiKey     string
}

// NewClient creates a new HDPhotoHub API client
func NewClient(httpClient adapter.HTTPClient, io adapter.IO, baseURL, apiKey string) Client {
	return &client{
		httpClient: httpClient,
		io:         io,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// SiteURL builds the site-detail endpoint URL
func SiteURL(baseURL, siteID string, includeAll bool) string {
	q := url.Values{}
	q.Set("sid", siteID)
	if includeAll {
		q.Set("include_inactive", "true")
		q.Set("include_archived", "true")
		q.Set("show_all", "true")
	}
	return fmt.Sprintf("%s/site?%s", strings.TrimSuffix(baseURL, "/"), q.Encode())
}

func (c *client) GetSite(ctx context.Context, siteID string, includeAll bool) (*domain.SourceRecord, error) {
	endpoint := SiteURL(c.baseURL, siteID, includeAll)

	resp, err := c.httpClient.GetResponseNoRetry(ctx, endpoint, map[string]string{
		apiKeyHeader: c.apiKey,
		"Accept":     "application/json",
	})
	if err != nil {
		return nil, &domain.FetchError{SiteID: siteID, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("siteId", siteID))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.FetchError{
			SiteID:     siteID,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("upstream responded %s", resp.Status),
		}
	}

	body, err := c.io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{SiteID: siteID, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	var record domain.SourceRecord
	if err := json.Unmarshal(StripControlChars(body), &record); err != nil {
		return nil, &domain.FetchError{SiteID: siteID, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode site: %w", err)}
	}

	logger.Debug("Fetched site",
		zap.String("siteId", siteID),
		zap.Int("media", len(record.Media)),
	)

	return &record, nil
}

// StripControlChars drops ASCII control bytes the upstream sometimes leaves
// inside JSON strings. Tab, newline and carriage return are kept.
func StripControlChars(data []byte) []byte {
	out := data[:0:0]
	for _, b := range data {
		if (b < 0x20 && b != '\t' && b != '\n' && b != '\r') || b == 0x7f {
			continue
		}
		out = append(out, b)
	}
	return out
}
