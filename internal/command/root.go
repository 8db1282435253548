// Package command contains the veillectl CLI commands. Every command is one
// screen of the curation tool: fetch, render, optionally mutate, and leave
// any failure to a single notification line.
package command

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentit/Prompty-Veille/internal/client"
)

var (
	serverURL string
	jsonOut   bool

	api *client.Client
)

const requestTimeout = 10 * time.Minute // article compilation is slow

var rootCmd = &cobra.Command{
	Use:   "veillectl",
	Short: "Prompty-Veille curation client",
	Long: `veillectl drives the Prompty-Veille API: manage watched sources, browse
and filter AI watch summaries, summarize single URLs on demand and compile
selected summaries into long form articles.

Example usage:
  veillectl sources list
  veillectl summaries list --category LLM --sort category
  veillectl process https://example.com/post --save
  veillectl articles compile --title "Veille IA" --theme "LLM" <id> <id>`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient()
	},
}

// Execute runs the CLI and returns the failure of the invoked command, if any.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "veille API base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output raw JSON")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

func initClient() error {
	viper.SetDefault("server", "http://localhost:8000")
	viper.SetEnvPrefix("VEILLECTL")
	viper.AutomaticEnv()

	viper.SetConfigName(".veillectl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	// a missing config file is fine, flags and env cover everything
	_ = viper.ReadInConfig()

	api = client.New(viper.GetString("server"), requestTimeout)
	return nil
}
