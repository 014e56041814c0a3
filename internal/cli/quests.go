package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/questforge/questforge/internal/domain"
)

func init() {
	f := taskAddCmd.Flags()
	f.StringVar(&taskIn.Description, "desc", "", "Description")
	f.StringVar(&taskIn.Category, "category", "", "Category")
	f.StringVar(&taskIn.ProjectID, "project", "", "Project id")
	f.StringVar((*string)(&taskIn.Rarity), "rarity", "", "common, rare or legendary")
	f.StringVar((*string)(&taskIn.Difficulty), "difficulty", "", "trivial, easy, normal, hard, epic or boss")
	f.StringVar((*string)(&taskIn.EnergyType), "energy", "", "mental, physical or creative")
	f.StringVar((*string)(&taskIn.Priority), "priority", "", "urgent-important, urgent, important or neither")
	f.IntVar(&taskIn.EstimatedMinutes, "estimate", 0, "Estimated minutes")
	f.StringVar(&taskSoft, "soft-deadline", "", "Soft deadline (YYYY-MM-DD)")
	f.StringVar(&taskHard, "deadline", "", "Hard deadline (YYYY-MM-DD)")
	f.StringSliceVar(&taskIn.Subtasks, "subtask", nil, "Subtask title (repeatable)")
	f.StringSliceVar(&taskIn.DependsOn, "depends-on", nil, "Id of a task that must finish first (repeatable)")

	taskSuggestCmd.Flags().StringVar(&suggestEnergy, "energy", "", "Prefer tasks of this energy type")
	taskListCmd.Flags().BoolVar(&taskListAll, "all", false, "Include finished tasks")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskStartCmd, taskDoneCmd, taskRmCmd, taskBlockCmd, taskSuggestCmd, taskExtendCmd)

	habitAddCmd.Flags().StringVar((*string)(&habitIn.Type), "type", "", "binary or scaled")
	habitAddCmd.Flags().StringVar((*string)(&habitIn.Polarity), "polarity", "", "positive or negative")
	habitAddCmd.Flags().Float64Var(&habitIn.TargetValue, "target", 0, "Daily target for scaled habits")
	habitAddCmd.Flags().StringVar(&habitIn.Unit, "unit", "", "Unit of the target")
	habitDoneCmd.Flags().Float64Var(&habitValue, "value", 0, "Value logged for scaled habits")
	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitDoneCmd, habitMissCmd, habitRmCmd)

	focusStartCmd.Flags().StringVar(&focusType, "type", string(domain.FocusDeepWork), "deep-work, shallow, creative or learning")
	focusStartCmd.Flags().IntVar(&focusMinutes, "minutes", 25, "Planned minutes")
	focusStartCmd.Flags().StringVar(&focusTask, "task", "", "Task id to focus on")
	focusDistractCmd.Flags().Float64Var(&distractMinutes, "minutes", 1, "Minutes lost")
	focusCmd.AddCommand(focusStartCmd, focusBreakCmd, focusResumeCmd, focusDistractCmd, focusEndCmd, focusCancelCmd)

	projectAddCmd.Flags().StringVar(&projectIn.Description, "desc", "", "Description")
	projectAddCmd.Flags().StringSliceVar(&projectMilestones, "milestone", nil, `Milestone as "title" or "title:xp" (repeatable, in order)`)
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectMilestoneCmd)

	rootCmd.AddCommand(taskCmd, habitCmd, focusCmd, projectCmd)
}

var (
	taskIn        domain.TaskInput
	taskSoft      string
	taskHard      string
	taskListAll   bool
	suggestEnergy string

	habitIn    domain.HabitInput
	habitValue float64

	focusType       string
	focusMinutes    int
	focusTask       string
	distractMinutes float64

	projectIn         domain.ProjectInput
	projectMilestones []string
)

// ─── Tasks ──────────────────────────────────────────────────────────────────

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"quest"},
	Short:   "Manage quests",
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a quest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		in := taskIn
		in.Title = args[0]
		loc := d.Game.Config().Location
		if in.SoftDeadline, err = parseDeadline(taskSoft, loc); err != nil {
			return err
		}
		if in.HardDeadline, err = parseDeadline(taskHard, loc); err != nil {
			return err
		}
		t, err := d.Game.CreateTask(cmd.Context(), in)
		if err != nil {
			return err
		}
		return render(cmd, t, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s %s [%s] worth %s\n", Good.Render("created"), t.ID, t.Title, rarityText(t.Rarity),
				rewardText(domain.Reward{XP: t.XPReward, Coins: t.CoinReward}))
			return nil
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List quests",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		all, err := d.Game.Tasks(cmd.Context())
		if err != nil {
			return err
		}
		tasks := make([]domain.Task, 0, len(all))
		for _, t := range all {
			if taskListAll || t.Status == domain.TaskActive || t.Status == domain.TaskBlocked || t.Status == domain.TaskPostponed {
				tasks = append(tasks, t)
			}
		}
		return render(cmd, tasks, func(w io.Writer) error {
			if len(tasks) == 0 {
				fmt.Fprintln(w, "No quests. Run 'questforge task add <title>' to get started.")
				return nil
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tTITLE\tRARITY\tDIFFICULTY\tSTATUS\tDEADLINE\tREWARD")
			for _, t := range tasks {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d XP\n",
					t.ID, t.Title, rarityText(t.Rarity), t.Difficulty, taskStatusText(t.Status),
					deadlineText(t.HardDeadline), t.XPReward)
			}
			return tw.Flush()
		})
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start ID",
	Short: "Mark a quest as started",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		t, err := d.Game.StartTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, t, func(w io.Writer) error {
			fmt.Fprintf(w, "started %s\n", t.Title)
			return nil
		})
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done ID [SUBTASK_ID]",
	Short: "Complete a quest, or one of its subtasks",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if len(args) == 2 {
			t, err := d.Game.CompleteSubtask(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return render(cmd, t, func(w io.Writer) error {
				fmt.Fprintf(w, "subtask done on %s\n", t.Title)
				return nil
			})
		}

		res, err := d.Game.CompleteTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, res, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s %s\n", Good.Render("quest complete:"), res.Task.Title, rewardText(res.Reward))
			return nil
		})
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a quest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		t, err := d.Game.DeleteTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, t, func(w io.Writer) error {
			fmt.Fprintf(w, "deleted %s %s\n", t.Title, Muted.Render("(undo available)"))
			return nil
		})
	},
}

var taskBlockCmd = &cobra.Command{
	Use:   "block ID DEPENDS_ON_ID",
	Short: "Make a quest wait for another quest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		t, err := d.Game.AddDependency(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd, t, func(w io.Writer) error {
			fmt.Fprintf(w, "%s now %s\n", t.Title, taskStatusText(t.Status))
			return nil
		})
	},
}

var taskExtendCmd = &cobra.Command{
	Use:   "extend ID",
	Short: "Spend a Time Crystal to push a hard deadline back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		t, err := d.Game.ExtendDeadline(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, t, func(w io.Writer) error {
			fmt.Fprintf(w, "%s deadline now %s\n", t.Title, deadlineText(t.HardDeadline))
			return nil
		})
	},
}

var taskSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest what to work on next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		out, err := d.Game.SuggestTasks(cmd.Context(), domain.EnergyType(suggestEnergy))
		if err != nil {
			return err
		}
		tasks, err := d.Game.Tasks(cmd.Context())
		if err != nil {
			return err
		}
		titles := make(map[string]string, len(tasks))
		for _, t := range tasks {
			titles[t.ID] = t.Title
		}
		return render(cmd, out, func(w io.Writer) error {
			if len(out) == 0 {
				fmt.Fprintln(w, "Nothing to suggest.")
				return nil
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tTITLE\tKIND\tWHY")
			for _, s := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.TaskID, titles[s.TaskID], s.Category, s.Reason)
			}
			return tw.Flush()
		})
	},
}

// ─── Habits ─────────────────────────────────────────────────────────────────

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		in := habitIn
		in.Title = args[0]
		h, err := d.Game.CreateHabit(cmd.Context(), in)
		if err != nil {
			return err
		}
		return render(cmd, h, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s %s\n", Good.Render("created"), h.ID, h.Title)
			return nil
		})
	},
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		habits, err := d.Game.Habits(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, habits, func(w io.Writer) error {
			if len(habits) == 0 {
				fmt.Fprintln(w, "No habits. Run 'questforge habit add <title>' to start one.")
				return nil
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tTITLE\tSTREAK\tBEST\tMOMENTUM")
			for _, h := range habits {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\tx%.2f\n", h.ID, h.Title, h.CurrentStreak, h.BestStreak, h.MomentumMultiplier)
			}
			return tw.Flush()
		})
	},
}

var habitDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Log today's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		var value *float64
		if cmd.Flags().Changed("value") {
			value = &habitValue
		}
		res, err := d.Game.CompleteHabit(cmd.Context(), args[0], value)
		if err != nil {
			return err
		}
		return render(cmd, res, func(w io.Writer) error {
			if !res.Counted {
				fmt.Fprintf(w, "%s already counted today\n", res.Habit.Title)
				return nil
			}
			fmt.Fprintf(w, "%s %s streak %d %s\n", Good.Render("done:"), res.Habit.Title, res.Habit.CurrentStreak, rewardText(res.Reward))
			return nil
		})
	},
}

var habitMissCmd = &cobra.Command{
	Use:   "miss ID",
	Short: "Record a missed day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		h, err := d.Game.MissHabit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, h, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s streak %d\n", Warn.Render("missed:"), h.Title, h.CurrentStreak)
			return nil
		})
	},
}

var habitRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Game.DeleteHabit(cmd.Context(), args[0]); err != nil {
			return err
		}
		return render(cmd, map[string]string{"deleted": args[0]}, func(w io.Writer) error {
			fmt.Fprintf(w, "deleted %s\n", args[0])
			return nil
		})
	},
}

// ─── Focus ──────────────────────────────────────────────────────────────────

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run focus sessions",
}

func printSession(cmd *cobra.Command, verb string, fs domain.FocusSession) error {
	return render(cmd, fs, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s session (%d/%d min, %d breaks, %d distractions)\n",
			verb, fs.Type, fs.ActualMinutes, fs.PlannedMinutes, len(fs.Breaks), len(fs.Distractions))
		return nil
	})
}

var focusStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		fs, err := d.Game.StartFocus(cmd.Context(), domain.FocusType(focusType), focusMinutes, focusTask)
		if err != nil {
			return err
		}
		return printSession(cmd, Good.Render("started"), fs)
	},
}

var focusBreakCmd = &cobra.Command{
	Use:   "break",
	Short: "Pause the session for a break",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		fs, err := d.Game.StartBreak(cmd.Context())
		if err != nil {
			return err
		}
		return printSession(cmd, "on break in", fs)
	},
}

var focusResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "End the current break",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		fs, err := d.Game.EndBreak(cmd.Context())
		if err != nil {
			return err
		}
		return printSession(cmd, "resumed", fs)
	},
}

var focusDistractCmd = &cobra.Command{
	Use:   "distract DESCRIPTION",
	Short: "Log a distraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		fs, err := d.Game.LogDistraction(cmd.Context(), args[0], distractMinutes)
		if err != nil {
			return err
		}
		return printSession(cmd, Warn.Render("distracted in"), fs)
	},
}

var focusEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Finish the session and collect the reward",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		fs, err := d.Game.EndFocus(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, fs, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %d min, quality %.0f%% %s\n", Good.Render("session complete:"),
				fs.ActualMinutes, fs.Quality, rewardText(domain.Reward{XP: fs.XPEarned, Coins: fs.CoinsEarned}))
			return nil
		})
	},
}

var focusCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Abandon the session without a reward",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Game.CancelFocus(cmd.Context()); err != nil {
			return err
		}
		return render(cmd, map[string]bool{"cancelled": true}, func(w io.Writer) error {
			fmt.Fprintln(w, "session cancelled")
			return nil
		})
	},
}

// ─── Projects ───────────────────────────────────────────────────────────────

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects and milestones",
}

var projectAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := projectIn
		in.Title = args[0]
		in.Milestones = nil
		for _, s := range projectMilestones {
			m, err := parseMilestone(s)
			if err != nil {
				return err
			}
			in.Milestones = append(in.Milestones, m)
		}

		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.Game.CreateProject(cmd.Context(), in)
		if err != nil {
			return err
		}
		return render(cmd, p, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s %s (%d milestones)\n", Good.Render("created"), p.ID, p.Title, len(p.Milestones))
			return nil
		})
	},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		projects, err := d.Game.Projects(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, projects, func(w io.Writer) error {
			if len(projects) == 0 {
				fmt.Fprintln(w, "No projects.")
				return nil
			}
			for _, p := range projects {
				done := 0
				lines := make([]string, 0, len(p.Milestones)+2)
				for _, m := range p.Milestones {
					mark := Muted.Render("○")
					if m.CompletedAt != nil {
						mark = Good.Render("●")
						done++
					}
					lines = append(lines, fmt.Sprintf("%s %s %s %s", mark, m.Title, Muted.Render(m.ID), Gold.Render(fmt.Sprintf("%d XP", m.XPReward))))
				}
				lines = append([]string{
					labelValue("Status", p.Status),
					renderBar(ratio(int64(done), int64(len(p.Milestones))), 20),
				}, lines...)
				fmt.Fprintln(w, panel(p.Title+" "+Muted.Render(p.ID), lines...))
			}
			return nil
		})
	},
}

var projectMilestoneCmd = &cobra.Command{
	Use:   "milestone PROJECT_ID MILESTONE_ID",
	Short: "Complete the next milestone of a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.Game.CompleteMilestone(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd, res, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s %s\n", Good.Render("milestone reached on"), res.Project.Title, rewardText(res.Reward))
			return nil
		})
	},
}
