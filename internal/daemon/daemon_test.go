package daemon

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge/internal/domain"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	t.Setenv("QUESTFORGE_HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Engine.Timezone = "UTC"
	cfg.Engine.SweepInterval = Duration{time.Hour}
	cfg.API.RateLimitRPS = 0

	d, err := NewWithConfig(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestNewWithConfig_Wires(t *testing.T) {
	d := newTestDaemon(t)

	assert.NotNil(t, d.DB)
	assert.NotNil(t, d.Game)
	assert.NotNil(t, d.Hub)
	assert.NotNil(t, d.Health)
	assert.NotNil(t, d.Server)
	assert.Equal(t, time.UTC, d.Game.Config().Location)
	assert.True(t, d.LastSweep().IsZero())
}

func TestNewWithConfig_BadTimezone(t *testing.T) {
	t.Setenv("QUESTFORGE_HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Engine.Timezone = "Nowhere/Special"

	_, err := NewWithConfig(cfg, nil)
	assert.Error(t, err)
}

func TestServe_StartsAndStops(t *testing.T) {
	d := newTestDaemon(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	// The sweeper runs once on start.
	require.Eventually(t, func() bool { return !d.LastSweep().IsZero() }, 5*time.Second, 20*time.Millisecond)

	_, err = d.Game.CreateTask(context.Background(), domain.TaskInput{Title: "Ship it"})
	require.NoError(t, err)
	resp, err := http.Get(url + "/api/v1/tasks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
