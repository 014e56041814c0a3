package cli

import (
	"fmt"
	"strings"
)

// ─── Progress Bar ───────────────────────────────────────────────────────────
// Renders level and challenge progress: [=========>..........]  45%

const barWidth = 30 // Characters for the progress bar

// renderBar draws pct (0-100) as a fixed-width bar.
func renderBar(pct float64, width int) string {
	if width <= 0 {
		width = barWidth
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	var bar string
	if filled == width {
		bar = strings.Repeat("=", filled)
	} else if filled > 0 {
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", empty)
	} else {
		bar = strings.Repeat(".", width)
	}
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct)
}

// ratio returns done/total as a percentage.
func ratio(done, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}
