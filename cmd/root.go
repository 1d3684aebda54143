package cmd

import (
	"os"

	"github.com/dmaguire/streaks/internal/apiclient"
	"github.com/dmaguire/streaks/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	apiToken string
)

var rootCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Track habits, streaks and goals",
	Long: `
	Streaks is a habit tracker with streak analytics. It records daily habit
	completions, computes current and best streaks, rolls them up into daily,
	weekly and monthly summaries, and tracks progress towards measurable goals.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "API token for authenticated servers")
}

// newClient builds an API client from the loaded config and flags.
func newClient() (*apiclient.Client, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	c := apiclient.New(cfg.APIBaseURL)
	if apiToken != "" {
		c.Token = apiToken
	} else if t := os.Getenv("STREAKS_API_TOKEN"); t != "" {
		c.Token = t
	}
	return c, nil
}
