package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge/internal/app/game"
	"github.com/questforge/questforge/internal/app/notify"
	"github.com/questforge/questforge/internal/domain"
	"github.com/questforge/questforge/internal/health"
	"github.com/questforge/questforge/internal/infra/sqlite"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	n := 0
	gcfg := game.DefaultConfig()
	gcfg.Location = time.UTC
	gcfg.ApplyBonuses = false
	svc := game.NewService(db, gcfg,
		game.WithClock(func() time.Time { return t0 }),
		game.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		game.WithNotifier(notify.NewService(db)),
	)
	srv := httptest.NewServer(NewServer(svc, cfg, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, db
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func errorType(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e apiError
	decodeBody(t, resp, &e)
	return e.Error.Type
}

// ─── Routing & errors ───────────────────────────────────────────────────────

func TestHealth_WithoutChecker(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_ReportsChecks(t *testing.T) {
	db := newTestDB(t)
	svc := game.NewService(db, game.DefaultConfig())
	checker := health.NewChecker(health.Options{DB: db, DataDir: t.TempDir(), Interval: time.Hour})
	s := NewServer(svc, Config{}, nil)
	s.SetHealth(checker)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	// Before the first run there are no failing checks.
	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTaskLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	base := srv.URL + "/api/v1"

	resp := do(t, http.MethodPost, base+"/tasks", `{"title":"Write report"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var task domain.Task
	decodeBody(t, resp, &task)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, domain.RarityCommon, task.Rarity)

	resp = do(t, http.MethodPost, base+"/tasks/"+task.ID+"/complete", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res game.TaskResult
	decodeBody(t, resp, &res)
	assert.Equal(t, int64(10), res.Reward.XP)
	assert.Equal(t, int64(5), res.Reward.Coins)
	assert.Equal(t, domain.TaskCompleted, res.Task.Status)

	resp = do(t, http.MethodPost, base+"/tasks/"+task.ID+"/complete", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", errorType(t, resp))

	resp = do(t, http.MethodGet, base+"/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Tasks []domain.Task `json:"tasks"`
	}
	decodeBody(t, resp, &list)
	assert.Len(t, list.Tasks, 1)
}

func TestUnknownTask_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/tasks/nope/complete", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorType(t, resp))
}

func TestInvalidBody_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"title":`},
		{"unknown field", `{"title":"x","colour":"red"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "invalid_request", errorType(t, resp))
		})
	}
}

func TestLevel(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/level?xp=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info domain.LevelInfo
	decodeBody(t, resp, &info)
	assert.Equal(t, 2, info.Level)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/level?xp=lots", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRewardPreview(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/reward/preview?difficulty=hard&rarity=rare", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var r domain.Reward
	decodeBody(t, resp, &r)
	assert.Equal(t, domain.Reward{XP: 38, Coins: 19}, r)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/reward/preview?difficulty=brutal&rarity=rare", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUndo_NothingToUndo(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/undo", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestShop_InsufficientCoins(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/shop/companion-treat/purchase", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/shop/unicorn/purchase", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHabitCompleteAndDelete(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	base := srv.URL + "/api/v1/habits"

	resp := do(t, http.MethodPost, base, `{"title":"Read"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var h domain.Habit
	decodeBody(t, resp, &h)

	resp = do(t, http.MethodPost, base+"/"+h.ID+"/complete", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res game.HabitResult
	decodeBody(t, resp, &res)
	assert.True(t, res.Counted)

	resp = do(t, http.MethodDelete, base+"/"+h.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/"+h.ID+"/stats", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotificationShown_BadID(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/notifications/abc/shown", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/notifications/999/shown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatus(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, srv.URL+"/api/v1/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st domain.Status
	decodeBody(t, resp, &st)
	assert.Equal(t, 1, st.LevelInfo.Level)
	assert.Equal(t, int64(0), st.Coins)
}

// ─── Middleware ─────────────────────────────────────────────────────────────

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/version", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/version", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "rate_limited", errorType(t, resp))
}

func TestRateLimiter_PrunesIdleVisitors(t *testing.T) {
	l := newRateLimiter(1, 1)
	now := t0
	l.now = func() time.Time { return now }

	l.limiter("10.0.0.1")
	now = now.Add(5 * time.Minute)
	l.limiter("10.0.0.2")

	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "10.0.0.2")
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, Config{CORSOrigins: []string{"http://localhost:3000"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	srv, _ = newTestServer(t, Config{Metrics: true})
	resp = do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", domain.ErrHabitNotFound), http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrSelfDependency, http.StatusBadRequest},
		{domain.ErrTaskBlocked, http.StatusConflict},
		{domain.ErrInsufficientCoins, http.StatusConflict},
		{domain.ErrIrreversible, http.StatusConflict},
		{domain.ErrLevelOverflow, http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, _ := classify(tt.err)
		assert.Equal(t, tt.want, got, "classify(%v)", tt.err)
	}
}
