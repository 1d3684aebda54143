package cmd

import (
	"fmt"
	"strconv"

	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/spf13/cobra"
)

var (
	goalCategory string
	goalTarget   float64
	goalUnit     string
	goalDeadline string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage measurable goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		created, err := c.CreateGoal(cmd.Context(), tracker.Goal{
			Name:        args[0],
			Category:    tracker.Category(goalCategory),
			TargetValue: goalTarget,
			Unit:        goalUnit,
			Deadline:    goalDeadline,
		})
		if err != nil {
			return err
		}
		cmd.Printf("Created goal %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		resp, err := c.ListGoals(cmd.Context())
		if err != nil {
			return err
		}
		for _, g := range resp.Goals {
			cmd.Printf("%s  %s: %.1f/%.1f %s (%d%%)\n",
				g.Goal.ID, g.Goal.Name, g.Goal.CurrentValue, g.Goal.TargetValue, g.Goal.Unit, g.Percentage)
		}
		cmd.Printf("Overall: %d%%\n", resp.Overall)
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <goal-id> <value>",
	Short: "Set a goal's current value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad value %q: %w", args[1], err)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		resp, err := c.UpdateGoalProgress(cmd.Context(), args[0], value)
		if err != nil {
			return err
		}
		cmd.Printf("%s: %.1f/%.1f %s (%d%%)\n",
			resp.Goal.Name, resp.Goal.CurrentValue, resp.Goal.TargetValue, resp.Goal.Unit, resp.Percentage)
		return nil
	},
}

func init() {
	goalAddCmd.Flags().StringVar(&goalCategory, "category", "health", "goal category (health, finance, work, learning)")
	goalAddCmd.Flags().Float64Var(&goalTarget, "target", 0, "target value")
	goalAddCmd.Flags().StringVar(&goalUnit, "unit", "", "unit of measurement")
	goalAddCmd.Flags().StringVar(&goalDeadline, "deadline", "", "deadline (YYYY-MM-DD)")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalProgressCmd)
	rootCmd.AddCommand(goalCmd)
}
