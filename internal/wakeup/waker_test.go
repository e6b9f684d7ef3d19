package wakeup_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/mocks"
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func wakeConfig() config.WakeUpConfig {
	return config.WakeUpConfig{
		LoginWait:           10 * time.Second,
		InitialDelay:        15 * time.Second,
		PollInterval:        10 * time.Second,
		MaxAttempts:         4,
		RequiredClearChecks: 2,
		FinalBuffer:         10 * time.Second,
		SiteDelay:           5 * time.Second,
	}
}

// pageState scripts the answers of a media manager page
type pageState struct {
	mu      sync.Mutex
	login   []bool
	counts  []int
	clicked bool
	asleep  bool
	clicks  int
}

func (s *pageState) evaluate(_ context.Context, script string, result interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.Contains(script, "sEmail"):
		v := s.login[0]
		if len(s.login) > 1 {
			s.login = s.login[1:]
		}
		*result.(*bool) = v
	case strings.Contains(script, "scrollTo"):
		*result.(*bool) = true
	case strings.Contains(script, "wakeupStart"):
		s.clicks++
		*result.(*bool) = s.clicked
	case strings.Contains(script, "asleep"):
		*result.(*bool) = s.asleep
	case strings.Contains(script, wakeup.PLACEHOLDER_IMAGE_SRC):
		v := s.counts[0]
		if len(s.counts) > 1 {
			s.counts = s.counts[1:]
		}
		*result.(*int) = v
	default:
		return fmt.Errorf("unexpected script %q", script)
	}
	return nil
}

type testWakerMocks struct {
	ctrl    *gomock.Controller
	browser *mocks.MockBrowser
	page    *mocks.MockBrowserPage
	clock   *mocks.MockClock
	waits   []time.Duration
	waker   wakeup.Waker
}

func setupTestWaker(t *testing.T, state *pageState) *testWakerMocks {
	ctrl := gomock.NewController(t)

	tm := &testWakerMocks{
		ctrl:    ctrl,
		browser: mocks.NewMockBrowser(ctrl),
		page:    mocks.NewMockBrowserPage(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(d time.Duration) <-chan time.Time {
		tm.waits = append(tm.waits, d)
		ch := make(chan time.Time, 1)
		ch <- testNow
		return ch
	}).AnyTimes()

	tm.browser.EXPECT().NewPage(gomock.Any()).Return(tm.page, nil)
	tm.page.EXPECT().Navigate(gomock.Any(), "https://hd.example.com/media?nSiteID=7").Return(nil)
	tm.page.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(state.evaluate).AnyTimes()
	tm.page.EXPECT().Close()

	tm.waker = wakeup.NewChromeWaker(wakeConfig(), tm.browser, tm.clock)
	return tm
}

var testSite = domain.WakeUpSite{SiteID: "7", WakeUpURL: "https://hd.example.com/media?nSiteID=7"}

func TestWake_AlreadyAwake(t *testing.T) {
	state := &pageState{login: []bool{false}, counts: []int{0}}
	tm := setupTestWaker(t, state)
	defer tm.ctrl.Finish()

	res, err := tm.waker.Wake(context.Background(), testSite)
	require.NoError(t, err)
	assert.True(t, res.Awake)
	assert.Zero(t, state.clicks)
}

func TestWake_WakesAfterPolling(t *testing.T) {
	// initial count, then polls: asleep, clear, asleep again, clear, clear
	state := &pageState{login: []bool{false}, counts: []int{5, 3, 0, 1, 0, 0}, clicked: true}
	tm := setupTestWaker(t, state)
	defer tm.ctrl.Finish()

	cfg := wakeConfig()
	cfg.MaxAttempts = 10
	tm.waker = wakeup.NewChromeWaker(cfg, tm.browser, tm.clock)

	res, err := tm.waker.Wake(context.Background(), testSite)
	require.NoError(t, err)
	assert.True(t, res.Awake)
	assert.Equal(t, 5, res.Checks)
	assert.Equal(t, 1, state.clicks)
	assert.Contains(t, tm.waits, 15*time.Second)
	assert.Equal(t, 10*time.Second, tm.waits[len(tm.waits)-1])
}

func TestWake_PlaceholdersRemain(t *testing.T) {
	state := &pageState{login: []bool{false}, counts: []int{2}, clicked: true}
	tm := setupTestWaker(t, state)
	defer tm.ctrl.Finish()

	res, err := tm.waker.Wake(context.Background(), testSite)
	require.NoError(t, err)
	assert.False(t, res.Awake)
	assert.Equal(t, 4, res.Checks)
	assert.Equal(t, "placeholders remain after 4 checks", res.Reason)
}

func TestWake_LoginRequired(t *testing.T) {
	state := &pageState{login: []bool{true, true}}
	tm := setupTestWaker(t, state)
	defer tm.ctrl.Finish()

	res, err := tm.waker.Wake(context.Background(), testSite)
	require.NoError(t, err)
	assert.False(t, res.Awake)
	assert.Equal(t, domain.ErrLoginRequired.Error(), res.Reason)
	assert.Equal(t, []time.Duration{10 * time.Second}, tm.waits)
}

func TestWake_ManualLoginInTime(t *testing.T) {
	state := &pageState{login: []bool{true, false}, counts: []int{0}}
	tm := setupTestWaker(t, state)
	defer tm.ctrl.Finish()

	res, err := tm.waker.Wake(context.Background(), testSite)
	require.NoError(t, err)
	assert.True(t, res.Awake)
}

func TestWake_NoButton(t *testing.T) {
	tests := []struct {
		name   string
		asleep bool
		awake  bool
	}{
		{"asleep text", true, false},
		{"no asleep text", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &pageState{login: []bool{false}, counts: []int{4}, asleep: tt.asleep}
			tm := setupTestWaker(t, state)
			defer tm.ctrl.Finish()

			res, err := tm.waker.Wake(context.Background(), testSite)
			require.NoError(t, err)
			assert.Equal(t, tt.awake, res.Awake)
		})
	}
}

func TestWake_NavigateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	browser := mocks.NewMockBrowser(ctrl)
	page := mocks.NewMockBrowserPage(ctrl)
	browser.EXPECT().NewPage(gomock.Any()).Return(page, nil)
	page.EXPECT().Navigate(gomock.Any(), testSite.WakeUpURL).Return(errors.New("net::ERR_NAME_NOT_RESOLVED"))
	page.EXPECT().Close()

	w := wakeup.NewChromeWaker(wakeConfig(), browser, mocks.NewMockClock(ctrl))
	res, err := w.Wake(context.Background(), testSite)
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestWake_MissingURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := wakeup.NewChromeWaker(wakeConfig(), mocks.NewMockBrowser(ctrl), mocks.NewMockClock(ctrl))
	_, err := w.Wake(context.Background(), domain.WakeUpSite{SiteID: "1"})
	assert.Error(t, err)
}

func TestWakeURL(t *testing.T) {
	assert.Equal(t, "https://homesellphotography.hd.pics/Sites/media.asp?nSiteID=42", wakeup.WakeURL("", "42"))
	assert.Equal(t, "https://x.test/42/42", wakeup.WakeURL("https://x.test/{siteId}/{siteId}", "42"))
}
