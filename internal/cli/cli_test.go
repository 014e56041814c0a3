package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/questforge/internal/app/game"
	"github.com/questforge/questforge/internal/domain"
)

// run executes the root command with --json and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--json"))
	t.Cleanup(func() { jsonOutput = false })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "[..........]   0%"},
		{50, "[====>.....]  50%"},
		{100, "[==========] 100%"},
		{250, "[==========] 100%"},
		{-5, "[..........]   0%"},
	}
	for _, tt := range tests {
		if got := renderBar(tt.pct, 10); got != tt.want {
			t.Errorf("renderBar(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 50.0, ratio(1, 2))
	assert.Equal(t, 100.0, ratio(0, 0))
}

func TestParseDeadline(t *testing.T) {
	got, err := parseDeadline("2024-03-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), *got)

	got, err = parseDeadline("2024-03-01T10:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	got, err = parseDeadline("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDeadline("next tuesday", time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseMilestone(t *testing.T) {
	m, err := parseMilestone("Draft:40")
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneInput{Title: "Draft", XPReward: 40}, m)

	m, err = parseMilestone("Publish")
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.XPReward)

	for _, bad := range []string{"", ":10", "Draft:lots", "Draft:-3"} {
		_, err := parseMilestone(bad)
		assert.Error(t, err, "parseMilestone(%q)", bad)
	}
}

func TestCommands_QuestFlow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("QUESTFORGE_HOME", home)

	out, err := run(t, "task", "add", "Write report")
	require.NoError(t, err)
	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "Write report", task.Title)

	out, err = run(t, "task", "done", task.ID)
	require.NoError(t, err)
	var res game.TaskResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.TaskCompleted, res.Task.Status)
	assert.Positive(t, res.Reward.XP)

	_, err = run(t, "task", "done", task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskAlreadyCompleted)

	out, err = run(t, "status")
	require.NoError(t, err)
	var st domain.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Positive(t, st.Player.TotalXP)
	assert.Positive(t, st.Coins)

	out, err = run(t, "undo")
	require.NoError(t, err)
	var action domain.UndoAction
	require.NoError(t, json.Unmarshal([]byte(out), &action))
	assert.Equal(t, domain.UndoTaskComplete, action.Type)
}

func TestCommands_Config(t *testing.T) {
	home := t.TempDir()
	t.Setenv("QUESTFORGE_HOME", home)

	_, err := run(t, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "config.toml"))
	require.NoError(t, err)

	_, err = run(t, "config", "init")
	assert.Error(t, err, "init must not overwrite without --force")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"Port": 7414`), out)
}
