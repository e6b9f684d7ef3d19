package hdphotohub_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/hdphotohub"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/mocks"
	"github.com/loganpetree/homesellphotography/internal/ratelimit"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	os.Exit(m.Run())
}

const baseURL = "https://homesellphotography.hd.pics/api/v1/"

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestSiteURL(t *testing.T) {
	assert.Equal(t,
		"https://homesellphotography.hd.pics/api/v1/site?sid=42",
		hdphotohub.SiteURL(baseURL, "42", false))
	assert.Equal(t,
		"https://homesellphotography.hd.pics/api/v1/site?include_archived=true&include_inactive=true&show_all=true&sid=42",
		hdphotohub.SiteURL(baseURL, "42", true))
}

func TestGetSite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := hdphotohub.NewClient(httpClient, adapter.NewIO(), baseURL, "secret")

	body := `{"sid":42,"status":"active","address":"12 Elm St\u0001","city":"Austin",` +
		"\"media\":[{\"mid\":7,\"type\":\"image\",\"name\":\"front\x02.jpg\",\"extension\":\"jpg\",\"order\":1}]}"

	httpClient.EXPECT().
		GetResponseNoRetry(gomock.Any(), hdphotohub.SiteURL(baseURL, "42", true), map[string]string{
			"api_key": "secret",
			"Accept":  "application/json",
		}).
		Return(response(http.StatusOK, body), nil)

	record, err := client.GetSite(context.Background(), "42", true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), record.SID)
	require.NotNil(t, record.City)
	assert.Equal(t, "Austin", *record.City)
	require.Len(t, record.Media, 1)
	assert.Equal(t, int64(7), record.Media[0].MID)
	assert.Equal(t, "front.jpg", record.Media[0].Name)
}

func TestGetSite_Errors(t *testing.T) {
	tests := []struct {
		name       string
		resp       *http.Response
		err        error
		statusCode int
	}{
		{name: "transport error", err: errors.New("connection reset")},
		{name: "not found", resp: response(http.StatusNotFound, "missing"), statusCode: http.StatusNotFound},
		{name: "server error", resp: response(http.StatusBadGateway, ""), statusCode: http.StatusBadGateway},
		{name: "invalid json", resp: response(http.StatusOK, "<html>"), statusCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			httpClient := mocks.NewMockHTTPClient(ctrl)
			httpClient.EXPECT().GetResponseNoRetry(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.resp, tt.err)

			client := hdphotohub.NewClient(httpClient, adapter.NewIO(), baseURL, "secret")
			record, err := client.GetSite(context.Background(), "9", false)
			assert.Nil(t, record)

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "9", fetchErr.SiteID)
			assert.Equal(t, tt.statusCode, fetchErr.StatusCode)
		})
	}
}

func TestStripControlChars(t *testing.T) {
	in := []byte("a\x00b\tc\nd\re\x1ff\x7fg")
	assert.Equal(t, "ab\tc\nd\refg", string(hdphotohub.StripControlChars(in)))
}

func TestWithRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockSourceClient(ctrl)
	inner.EXPECT().GetSite(gomock.Any(), "1", true).Return(&domain.SourceRecord{SID: 1}, nil).Times(1)

	client := hdphotohub.WithRateLimit(inner, ratelimit.NewLimiter(map[string]config.RateLimitConfig{
		ratelimit.ProviderAPI: {RequestsPerSecond: 0.001, Burst: 1},
	}))

	record, err := client.GetSite(context.Background(), "1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.SID)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetSite(ctx, "1", true)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "1", fetchErr.SiteID)
}
