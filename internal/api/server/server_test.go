package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/api/middleware"
	"github.com/loganpetree/homesellphotography/internal/api/rest"
	"github.com/loganpetree/homesellphotography/internal/api/rest/dto"
	"github.com/loganpetree/homesellphotography/internal/api/server"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/migration"
	"github.com/loganpetree/homesellphotography/internal/mocks"
	"github.com/loganpetree/homesellphotography/internal/store"
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const apiKey = "admin-key"

type testServer struct {
	ctrl     *gomock.Controller
	migrator *mocks.MockDriver
	store    store.Store
	handler  http.Handler
}

func setupTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()

	ts := &testServer{
		ctrl:     ctrl,
		migrator: mocks.NewMockDriver(ctrl),
		store:    store.NewMemoryStore(),
	}

	h := rest.NewHandler(
		migration.NewCheckpointStore(ts.store, clock),
		wakeup.NewService(ts.store, ts.migrator, clock),
	)
	ts.handler = server.NewRouter(server.Config{
		Auth: middleware.AuthConfig{APIKeys: []string{apiKey}},
	}, h)
	return ts
}

func (ts *testServer) seed(t *testing.T, siteID string, status domain.WakeUpStatus) {
	t.Helper()
	require.NoError(t, ts.store.Set(context.Background(), domain.CollectionWakeUpSites, siteID, domain.WakeUpSite{
		SiteID:          siteID,
		WakeUpURL:       wakeup.WakeURL("", siteID),
		MigrationStatus: status,
		CSVData:         domain.CSVRow{SiteID: siteID},
	}))
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+apiKey)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRoutesRequireAuth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	for _, path := range []string{"/api/v1/migration/progress", "/api/v1/wake-up"} {
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestGetMigrationProgress(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	progress := domain.NewMigrationProgress(testNow)
	progress.MarkCompleted("100", 0)
	require.NoError(t, ts.store.Set(context.Background(), domain.CollectionSystem, domain.MigrationProgressDocID, progress))

	w := ts.do(t, http.MethodGet, "/api/v1/migration/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.MigrationProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"100"}, got.CompletedSites)
	assert.Equal(t, 0, got.LastProcessedIndex)
}

func TestListWakeUpSites(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	ts.seed(t, "2", domain.WakeUpStatusPending)
	ts.seed(t, "1", domain.WakeUpStatusCompleted)

	w := ts.do(t, http.MethodGet, "/api/v1/wake-up", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all dto.WakeUpListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, "1", all.Sites[0].SiteID)

	w = ts.do(t, http.MethodGet, "/api/v1/wake-up?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending dto.WakeUpListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Equal(t, 1, pending.Total)
	assert.Equal(t, "2", pending.Sites[0].SiteID)

	w = ts.do(t, http.MethodGet, "/api/v1/wake-up?status=sleeping", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateWakeUpSite(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	ts.seed(t, "5", domain.WakeUpStatusPending)

	w := ts.do(t, http.MethodPost, "/api/v1/wake-up", map[string]interface{}{"siteId": "5", "isAwake": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"siteId":"5","isAwake":true}`, w.Body.String())

	var site domain.WakeUpSite
	require.NoError(t, ts.store.Get(context.Background(), domain.CollectionWakeUpSites, "5", &site))
	assert.True(t, site.IsAwake)
	assert.True(t, site.UpdatedAt.Equal(testNow))

	w = ts.do(t, http.MethodPost, "/api/v1/wake-up", map[string]interface{}{"siteId": "5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/wake-up", map[string]interface{}{"siteId": "404", "isAwake": false})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMigrateWakeUpSite(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.ctrl.Finish()

	ts.seed(t, "7", domain.WakeUpStatusWaking)
	ts.seed(t, "8", domain.WakeUpStatusWaking)

	ts.migrator.EXPECT().MigrateSite(gomock.Any(), "7", gomock.Any()).
		Return(&migration.SiteStats{SiteID: "7", Total: 4, Stored: 3, Failed: 1}, nil)
	ts.migrator.EXPECT().MigrateSite(gomock.Any(), "8", gomock.Any()).
		Return(nil, errors.New("failed to fetch site 8: status 500"))

	w := ts.do(t, http.MethodPost, "/api/v1/wake-up/migrate", map[string]string{"siteId": "7"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.MigrateWakeUpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Media.Stored)
	assert.Equal(t, 0.75, resp.Media.SuccessRate)

	var site domain.WakeUpSite
	require.NoError(t, ts.store.Get(context.Background(), domain.CollectionWakeUpSites, "7", &site))
	assert.Equal(t, domain.WakeUpStatusCompleted, site.MigrationStatus)

	w = ts.do(t, http.MethodPost, "/api/v1/wake-up/migrate", map[string]string{"siteId": "8"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "status 500")
	require.NoError(t, ts.store.Get(context.Background(), domain.CollectionWakeUpSites, "8", &site))
	assert.Equal(t, domain.WakeUpStatusFailed, site.MigrationStatus)

	w = ts.do(t, http.MethodPost, "/api/v1/wake-up/migrate", map[string]string{"siteId": "404"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/wake-up/migrate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
