package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/questforge/questforge/internal/domain"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cRare    = lipgloss.Color("39")  // cyan
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Muted = lipgloss.NewStyle().Foreground(cMuted)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

// panel renders a titled box of lines.
func panel(title string, lines ...string) string {
	body := append([]string{Title.Render(title)}, lines...)
	return Panel.Render(strings.Join(body, "\n"))
}

func labelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func rarityText(r domain.Rarity) string {
	switch r {
	case domain.RarityLegendary:
		return Gold.Render(string(r))
	case domain.RarityRare:
		return lipgloss.NewStyle().Bold(true).Foreground(cRare).Render(string(r))
	default:
		return Muted.Render(string(r))
	}
}

func taskStatusText(s domain.TaskStatus) string {
	switch s {
	case domain.TaskCompleted:
		return Good.Render(string(s))
	case domain.TaskBlocked, domain.TaskPostponed:
		return Warn.Render(string(s))
	case domain.TaskMissed, domain.TaskAbandoned:
		return Bad.Render(string(s))
	default:
		return Key.Render(string(s))
	}
}

func severityText(s domain.BurnoutSeverity) string {
	switch s {
	case domain.SeverityCritical, domain.SeverityHigh:
		return Bad.Render(string(s))
	case domain.SeverityModerate:
		return Warn.Render(string(s))
	default:
		return Good.Render(string(s))
	}
}

func rewardText(r domain.Reward) string {
	return Gold.Render(fmt.Sprintf("+%d XP", r.XP)) + " " + Good.Render(fmt.Sprintf("+%d coins", r.Coins))
}
