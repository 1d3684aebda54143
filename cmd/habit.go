package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmaguire/streaks/internal/server"
	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/spf13/cobra"
)

var (
	habitIcon     string
	habitCategory string
	habitDays     string
	doneDate      string
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits and completions",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := parseDays(habitDays)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		created, err := c.CreateHabit(cmd.Context(), tracker.Habit{
			Name:       args[0],
			Icon:       habitIcon,
			Category:   tracker.Category(habitCategory),
			TargetDays: days,
		})
		if err != nil {
			return err
		}
		cmd.Printf("Created habit %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		habits, err := c.ListHabits(cmd.Context())
		if err != nil {
			return err
		}
		for _, h := range habits {
			cmd.Println(formatHabitLine(h))
		}
		return nil
	},
}

var habitDoneCmd = &cobra.Command{
	Use:   "done <habit-id>",
	Short: "Toggle a habit's completion for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		resp, err := c.Toggle(cmd.Context(), args[0], doneDate)
		if err != nil {
			return err
		}
		state := "undone"
		if resp.Completed {
			state = "done"
		}
		cmd.Printf("%s marked %s for %s (streak: %d, best: %d)\n",
			resp.HabitID, state, resp.Date, resp.CurrentStreak, resp.BestStreak)
		return nil
	},
}

var habitRmCmd = &cobra.Command{
	Use:   "rm <habit-id>",
	Short: "Delete a habit and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.DeleteHabit(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted habit %s\n", args[0])
		return nil
	},
}

var habitSummaryCmd = &cobra.Command{
	Use:   "summary <habit-id>",
	Short: "Show streak numbers for a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		s, err := c.GetHabitSummary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Print(formatHabitSummary(s))
		return nil
	},
}

func init() {
	habitAddCmd.Flags().StringVar(&habitIcon, "icon", "", "habit icon")
	habitAddCmd.Flags().StringVar(&habitCategory, "category", "health", "habit category (health, finance, work, learning)")
	habitAddCmd.Flags().StringVar(&habitDays, "days", "0,1,2,3,4,5,6", "target weekdays, 0=Sunday")
	habitDoneCmd.Flags().StringVar(&doneDate, "date", "", "day to toggle (YYYY-MM-DD, default today)")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitDoneCmd, habitRmCmd, habitSummaryCmd)
	rootCmd.AddCommand(habitCmd)
}

// parseDays parses a comma-separated weekday list like "1,3,5".
func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("bad weekday %q: must be 0-6", part)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return days, nil
}

func formatHabitLine(h tracker.Habit) string {
	icon := h.Icon
	if icon == "" {
		icon = "-"
	}
	return fmt.Sprintf("%s  %s %s [%s] best streak: %d", h.ID, icon, h.Name, h.Category, h.BestStreak)
}

func formatHabitSummary(s *server.HabitSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Name)
	fmt.Fprintf(&b, "  current streak: %d\n", s.CurrentStreak)
	fmt.Fprintf(&b, "  best streak:    %d\n", s.BestStreak)
	fmt.Fprintf(&b, "  longest streak: %d\n", s.LongestStreak)
	fmt.Fprintf(&b, "  total days:     %d\n", s.TotalDaysDone)
	fmt.Fprintf(&b, "  done today:     %t\n", s.DoneToday)
	return b.String()
}
