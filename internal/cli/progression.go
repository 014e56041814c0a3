package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/questforge/questforge/internal/daemon"
	"github.com/questforge/questforge/internal/domain"
)

func init() {
	skillCmd.AddCommand(skillListCmd, skillUnlockCmd)
	shopCmd.AddCommand(shopListCmd, shopBuyCmd, shopUseCmd)
	challengeCmd.AddCommand(challengeListCmd, challengeRerollCmd)
	companionCmd.AddCommand(companionShowCmd, companionFeedCmd, companionRenameCmd)

	f := burnoutSetCmd.Flags()
	f.Float64Var(&burnoutOverwork, "overwork", 0, "Overwork factor (0-100)")
	f.Float64Var(&burnoutMissedBreaks, "missed-breaks", 0, "Missed breaks factor (0-100)")
	f.Float64Var(&burnoutStreakPressure, "streak-pressure", 0, "Streak pressure factor (0-100)")
	burnoutCmd.AddCommand(burnoutShowCmd, burnoutSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(skillCmd, shopCmd, challengeCmd, companionCmd, burnoutCmd, configCmd)
}

var (
	burnoutOverwork       float64
	burnoutMissedBreaks   float64
	burnoutStreakPressure float64
	configForce           bool
)

// ─── Skills ─────────────────────────────────────────────────────────────────

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse and unlock the skill tree",
}

var skillListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List skills",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		skills, points, err := d.Game.Skills(cmd.Context())
		if err != nil {
			return err
		}
		out := map[string]any{"skills": skills, "skill_points": points}
		return render(cmd, out, func(w io.Writer) error {
			fmt.Fprintln(w, labelValue("Skill points", points))
			tw := newTable(w)
			fmt.Fprintln(tw, "\tID\tNAME\tCATEGORY\tTIER\tCOST\tREQUIRES")
			for _, s := range skills {
				mark := Muted.Render("·")
				switch {
				case s.Unlocked:
					mark = Good.Render("●")
				case s.CanUnlock:
					mark = Gold.Render("○")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n", mark, s.ID, s.Name, s.Category, s.Tier, s.Cost, strings.Join(s.Prerequisites, ","))
			}
			return tw.Flush()
		})
	},
}

var skillUnlockCmd = &cobra.Command{
	Use:   "unlock ID",
	Short: "Spend skill points on a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		node, err := d.Game.UnlockSkill(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, node, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s: %s\n", Good.Render("unlocked"), node.Name, node.Description)
			return nil
		})
	},
}

// ─── Shop ───────────────────────────────────────────────────────────────────

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Spend coins on items",
}

var shopListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List shop items",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		items, err := d.Game.Shop(cmd.Context())
		if err != nil {
			return err
		}
		wallet, err := d.Game.Wallet(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, items, func(w io.Writer) error {
			fmt.Fprintln(w, labelValue("Coins", Gold.Render(fmt.Sprint(wallet.Balance))))
			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tOWNED\tSTOCK")
			for _, it := range items {
				stock := "∞"
				if it.DailyStock != domain.UnlimitedStock {
					stock = fmt.Sprint(it.Remaining)
				}
				price := fmt.Sprint(it.Price)
				if !it.CanBuy {
					price = Muted.Render(price)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.ID, it.Name, price, it.Owned, stock)
			}
			return tw.Flush()
		})
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy ITEM_ID",
	Short: "Buy an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		it, err := d.Game.Purchase(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, it, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s for %s coins\n", Good.Render("bought"), it.Name, Gold.Render(fmt.Sprint(it.Price)))
			return nil
		})
	},
}

var shopUseCmd = &cobra.Command{
	Use:   "use ITEM_ID [TARGET_ID]",
	Short: "Use an owned item; Time Crystals target a task, Destiny Dice a challenge",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		res, err := d.Game.UseItem(cmd.Context(), args[0], target)
		if err != nil {
			return err
		}
		return render(cmd, res, func(w io.Writer) error {
			fmt.Fprintf(w, "%s %s (%s)\n", Good.Render("used"), res.ItemID, res.Effect.Type)
			return nil
		})
	},
}

// ─── Challenges ─────────────────────────────────────────────────────────────

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Today's daily challenges",
}

var challengeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show today's challenges",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		board, err := d.Game.Challenges(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, board, func(w io.Writer) error {
			lines := make([]string, 0, len(board.Challenges)*2)
			for _, c := range board.Challenges {
				head := fmt.Sprintf("%s %s %s", c.Title, Muted.Render(c.ID), Gold.Render(fmt.Sprintf("%d XP", c.XPReward)))
				if c.Completed {
					head = Good.Render("✓ ") + head
				}
				lines = append(lines, head, "  "+renderBar(ratio(c.Progress, c.Requirement), 20))
			}
			fmt.Fprintln(w, panel("Daily challenges "+string(board.Date), lines...))
			return nil
		})
	},
}

var challengeRerollCmd = &cobra.Command{
	Use:   "reroll ID",
	Short: "Spend Destiny Dice to replace a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Game.RerollChallenge(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, c, func(w io.Writer) error {
			fmt.Fprintf(w, "new challenge: %s (%s)\n", c.Title, c.Description)
			return nil
		})
	},
}

// ─── Companion ──────────────────────────────────────────────────────────────

var companionCmd = &cobra.Command{
	Use:     "companion",
	Aliases: []string{"pet"},
	Short:   "Your evolving companion",
}

func printCompanion(w io.Writer, c domain.CompanionView) {
	lines := []string{
		labelValue("Archetype", c.Archetype),
		labelValue("Stage", c.EvolutionStage),
		labelValue("Mood", c.Mood),
		labelValue("Energy", renderBar(float64(c.Energy), 20)),
		labelValue("Happiness", renderBar(float64(c.Happiness), 20)),
	}
	if c.ActiveBonus != nil {
		lines = append(lines, labelValue("Bonus", c.ActiveBonus.Description))
	}
	fmt.Fprintln(w, panel(c.Name, lines...))
}

var companionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the companion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Game.Companion(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, c, func(w io.Writer) error {
			printCompanion(w, c)
			return nil
		})
	},
}

var companionFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Give the companion a treat from the inventory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Game.FeedCompanion(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, c, func(w io.Writer) error {
			printCompanion(w, c)
			return nil
		})
	},
}

var companionRenameCmd = &cobra.Command{
	Use:   "rename NAME",
	Short: "Rename the companion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.Game.RenameCompanion(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, c, func(w io.Writer) error {
			fmt.Fprintf(w, "companion is now called %s\n", Title.Render(c.Name))
			return nil
		})
	},
}

// ─── Burnout ────────────────────────────────────────────────────────────────

var burnoutCmd = &cobra.Command{
	Use:   "burnout",
	Short: "Inspect or adjust the burnout estimate",
}

func printBurnout(w io.Writer, b domain.Burnout) {
	lines := []string{
		labelValue("Level", fmt.Sprintf("%d %s", b.Level, severityText(b.Severity))),
		labelValue("Overwork", fmt.Sprintf("%.0f", b.Factors.Overwork)),
		labelValue("Missed breaks", fmt.Sprintf("%.0f", b.Factors.MissedBreaks)),
		labelValue("Streak pressure", fmt.Sprintf("%.0f", b.Factors.StreakPressure)),
		labelValue("Deadline density", fmt.Sprintf("%.0f", b.Factors.DeadlineDensity)),
	}
	for _, warn := range b.Warnings {
		lines = append(lines, Warn.Render("! ")+warn)
	}
	fmt.Fprintln(w, panel("Burnout", lines...))
}

var burnoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the burnout estimate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		b, err := d.Game.Burnout(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, b, func(w io.Writer) error {
			printBurnout(w, b)
			return nil
		})
	},
}

var burnoutSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set burnout factors; unset flags keep their value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch domain.BurnoutPatch
		flags := cmd.Flags()
		if flags.Changed("overwork") {
			patch.Overwork = &burnoutOverwork
		}
		if flags.Changed("missed-breaks") {
			patch.MissedBreaks = &burnoutMissedBreaks
		}
		if flags.Changed("streak-pressure") {
			patch.StreakPressure = &burnoutStreakPressure
		}

		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		b, err := d.Game.UpdateBurnout(cmd.Context(), patch)
		if err != nil {
			return err
		}
		return render(cmd, b, func(w io.Writer) error {
			printBurnout(w, b)
			return nil
		})
	},
}

// ─── Config ─────────────────────────────────────────────────────────────────

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to $QUESTFORGE_HOME/config.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := daemon.ConfigPath()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := daemon.SaveConfig(daemon.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := daemon.LoadConfig()
		if err != nil {
			return err
		}
		return render(cmd, cfg, func(w io.Writer) error {
			fmt.Fprintln(w, Muted.Render("# "+daemon.ConfigPath()))
			return toml.NewEncoder(w).Encode(cfg)
		})
	},
}
