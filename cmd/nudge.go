package cmd

import (
	"fmt"
	"time"

	"github.com/dmaguire/streaks/internal/config"
	"github.com/dmaguire/streaks/internal/nudge"

	"github.com/spf13/cobra"
)

var (
	nudgeCfg    *config.Config
	nudgeWindow int
)

var nudgeCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Send a reminder for habit streaks expiring within a certain window",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		nudgeCfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("error loading config file: %w", err)
		}
		if nudgeCfg.Notify.ResendAPIKey == "" {
			return fmt.Errorf("notify.resend_api_key is not configured")
		}
		if nudgeCfg.Notify.ToAddress == "" {
			return fmt.Errorf("notify.to_address is not configured")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		n := &nudge.ResendNotifier{
			ApiKey: nudgeCfg.Notify.ResendAPIKey,
			From:   nudgeCfg.Notify.FromAddress,
			Email:  nudgeCfg.Notify.ToAddress,
		}
		window := time.Duration(nudgeWindow) * time.Hour
		return nudge.Run(cmd.Context(), c, n, window, time.Now())
	},
}

func init() {
	nudgeCmd.Flags().IntVar(&nudgeWindow, "hours", 4, "warn when streaks expire within this many hours")
	rootCmd.AddCommand(nudgeCmd)
}
