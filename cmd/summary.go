package cmd

import (
	"github.com/spf13/cobra"
)

var summaryWeek bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show today's completion summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if summaryWeek {
			resp, err := c.GetWeekSummary(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range resp.Days {
				cmd.Printf("%s %s: %d/%d (%d%%)\n", d.Label, d.Date, d.Completed, d.Total, d.Percentage)
			}
			cmd.Printf("Total streak: %d\n", resp.TotalStreak)
			return nil
		}

		resp, err := c.GetTodaySummary(cmd.Context())
		if err != nil {
			return err
		}
		d := resp.Days[0]
		cmd.Printf("%s: %d/%d done (%d%%)\n", d.Date, d.Completed, d.Total, d.Percentage)
		cmd.Printf("Total streak: %d\n", resp.TotalStreak)
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryWeek, "week", false, "show the current week instead of today")
	rootCmd.AddCommand(summaryCmd)
}
