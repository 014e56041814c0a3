package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questforge/questforge/internal/domain"
)

func init() {
	rewardPreviewCmd.Flags().StringVar(&previewDifficulty, "difficulty", string(domain.DifficultyNormal), "trivial, easy, normal, hard, epic or boss")
	rewardPreviewCmd.Flags().StringVar(&previewRarity, "rarity", string(domain.RarityCommon), "common, rare or legendary")
	rewardPreviewCmd.Flags().IntVar(&previewEstimate, "estimate", 0, "Estimated minutes")
	rewardPreviewCmd.Flags().IntVar(&previewActual, "actual", 0, "Actual minutes")
	rewardCmd.AddCommand(rewardPreviewCmd)

	reportCmd.Flags().IntVar(&reportTrendDays, "trend", 0, "Also show the productivity score for the last N days")

	rootCmd.AddCommand(statusCmd, rewardCmd, undoCmd, achievementsCmd, reportCmd)
}

var (
	previewDifficulty string
	previewRarity     string
	previewEstimate   int
	previewActual     int
	reportTrendDays   int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, coins, companion and today's progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		st, err := d.Game.Status(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, st, func(w io.Writer) error {
			lines := []string{
				labelValue("Player", st.Player.Name),
				labelValue("Level", fmt.Sprintf("%d %s", st.LevelInfo.Level, Muted.Render(string(st.LevelInfo.Role)))),
				renderBar(st.LevelInfo.ProgressPct(), barWidth),
				labelValue("XP", fmt.Sprintf("%d (%d/%d this level)", st.Player.TotalXP, st.LevelInfo.CurrentLevelXP, st.LevelInfo.XPForNextLevel)),
				labelValue("Coins", Gold.Render(fmt.Sprint(st.Coins))),
				labelValue("Skill points", st.SkillPoints),
				labelValue("Companion", fmt.Sprintf("%s (stage %d, %s)", st.Companion.Name, st.Companion.EvolutionStage, st.Companion.Mood)),
				labelValue("Burnout", fmt.Sprintf("%d %s", st.Burnout.Level, severityText(st.Burnout.Severity))),
				labelValue("Today", fmt.Sprintf("%d quests, %d habits, %d focus min, %d XP",
					st.Today.TasksCompleted, st.Today.HabitsCompleted, st.Today.FocusMinutes, st.Today.XPEarned)),
				labelValue("Active quests", st.ActiveTasks),
				labelValue("Challenges", fmt.Sprintf("%d/%d", st.Challenges.CompletedCount, len(st.Challenges.Challenges))),
			}
			if st.XPBoost > 1 {
				lines = append(lines, labelValue("XP boost", fmt.Sprintf("x%.2f", st.XPBoost)))
			}
			if st.Focus != nil {
				lines = append(lines, labelValue("Focus", fmt.Sprintf("%s session since %s", st.Focus.Type, st.Focus.StartedAt.Local().Format("15:04"))))
			}
			if st.Undo != nil {
				lines = append(lines, Muted.Render("undo available: "+st.Undo.Description))
			}
			fmt.Fprintln(w, panel("QuestForge", lines...))
			return nil
		})
	},
}

var rewardCmd = &cobra.Command{
	Use:   "reward",
	Short: "Reward calculations",
}

var rewardPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what a quest would pay",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		diff, err := domain.ParseDifficulty(previewDifficulty)
		if err != nil {
			return err
		}
		rar, err := domain.ParseRarity(previewRarity)
		if err != nil {
			return err
		}
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		r, err := d.Game.PreviewReward(cmd.Context(), diff, rar, previewEstimate, previewActual)
		if err != nil {
			return err
		}
		return render(cmd, r, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s quest: %s\n", diff, rarityText(rar), rewardText(r))
			return nil
		})
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the most recent action within the undo window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := d.Game.Undo(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, a, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s\n", Good.Render("undone:"), a.Description)
			return nil
		})
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		list, err := d.Game.Achievements(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, list, func(w io.Writer) error {
			tw := newTable(w)
			fmt.Fprintln(tw, "\tNAME\tPROGRESS\tREWARD")
			for _, a := range list {
				mark := Muted.Render("·")
				if a.Unlocked {
					mark = Gold.Render("★")
				}
				fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d XP\n", mark, a.Name, min(a.Progress, a.Requirement), a.Requirement, a.RewardXP)
			}
			return tw.Flush()
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the weekly report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		rep, err := d.Game.WeeklyReport(cmd.Context())
		if err != nil {
			return err
		}
		if reportTrendDays <= 0 {
			return render(cmd, rep, func(w io.Writer) error { return printReport(w, rep) })
		}
		trend, err := d.Game.Trend(cmd.Context(), reportTrendDays)
		if err != nil {
			return err
		}
		out := map[string]any{"report": rep, "trend": trend}
		return render(cmd, out, func(w io.Writer) error {
			if err := printReport(w, rep); err != nil {
				return err
			}
			for _, p := range trend {
				fmt.Fprintf(w, "%s %s\n", p.Date, renderBar(float64(p.Score), 20))
			}
			return nil
		})
	},
}

func printReport(w io.Writer, rep domain.WeeklyReport) error {
	lines := []string{
		labelValue("Quests", fmt.Sprintf("%d/%d completed, %d missed", rep.CompletedTasks, rep.TotalTasks, rep.MissedTasks)),
		labelValue("Earned", rewardText(domain.Reward{XP: rep.TotalXP, Coins: rep.TotalCoins})),
		labelValue("Focus", fmt.Sprintf("%d min, quality %.0f%%", rep.TotalFocusMinutes, rep.AverageFocusQuality)),
		labelValue("Habit success", fmt.Sprintf("%.0f%%", rep.HabitSuccessRate)),
	}
	if len(rep.Insights) > 0 {
		lines = append(lines, Key.Render("Insights:"), "  "+strings.Join(rep.Insights, "\n  "))
	}
	if len(rep.Recommendations) > 0 {
		lines = append(lines, Key.Render("Try:"), "  "+strings.Join(rep.Recommendations, "\n  "))
	}
	fmt.Fprintln(w, panel(fmt.Sprintf("Week %s to %s", rep.WeekStart, rep.WeekEnd), lines...))
	return nil
}
