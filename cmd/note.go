package cmd

import (
	"time"

	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/spf13/cobra"
)

var (
	noteDate string
	noteMood string
)

var noteCmd = &cobra.Command{
	Use:   "note <content>",
	Short: "Save the daily note",
	Long:  `The "note" command saves a journal entry for a day, replacing any existing one.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := noteDate
		if date == "" {
			date = time.Now().Format(tracker.DayFormat)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		saved, err := c.PutNote(cmd.Context(), tracker.DailyNote{
			Date:    date,
			Content: args[0],
			Mood:    tracker.Mood(noteMood),
		})
		if err != nil {
			return err
		}
		cmd.Printf("Saved note for %s\n", saved.Date)
		return nil
	},
}

func init() {
	noteCmd.Flags().StringVar(&noteDate, "date", "", "day of the note (YYYY-MM-DD, default today)")
	noteCmd.Flags().StringVar(&noteMood, "mood", "", "mood (great, good, okay, bad)")
	rootCmd.AddCommand(noteCmd)
}
