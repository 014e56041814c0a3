package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/questforge/questforge/internal/daemon"
	"github.com/questforge/questforge/internal/domain"
	"github.com/questforge/questforge/internal/infra/logging"
)

// openDaemon loads the config and wires the services over the local store.
// Outside --verbose only warnings are logged.
func openDaemon() (*daemon.Daemon, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := "warn"
	if verbose {
		level = cfg.Logging.Level
	}
	log, err := logging.New(logging.Options{Level: level, File: cfg.Logging.File})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return daemon.NewWithConfig(cfg, log)
}

// render prints v as JSON under --json, otherwise calls human.
func render(cmd *cobra.Command, v any, human func(w io.Writer) error) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return human(w)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// parseDeadline accepts YYYY-MM-DD (end of that day) or RFC 3339.
func parseDeadline(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline %q must be YYYY-MM-DD or RFC 3339", domain.ErrInvalidInput, s)
	}
	end := d.Add(24*time.Hour - time.Second)
	return &end, nil
}

// parseMilestone reads "title" or "title:xp".
func parseMilestone(s string) (domain.MilestoneInput, error) {
	title, xp, found := strings.Cut(s, ":")
	m := domain.MilestoneInput{Title: strings.TrimSpace(title)}
	if m.Title == "" {
		return m, fmt.Errorf("%w: milestone title is required", domain.ErrInvalidInput)
	}
	if found {
		var n int64
		if _, err := fmt.Sscanf(strings.TrimSpace(xp), "%d", &n); err != nil || n < 0 {
			return m, fmt.Errorf("%w: milestone xp %q", domain.ErrInvalidInput, xp)
		}
		m.XPReward = n
	}
	return m, nil
}

func deadlineText(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
