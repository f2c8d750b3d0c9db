// Package cli defines the studyquest command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyquest/studyquest/internal/daemon"
)

var rootCmd = &cobra.Command{
	Use:   "studyquest",
	Short: "Gamified study-time tracker",
	Long: `StudyQuest turns study time into character progression.
Run a timer while you study; stopping it converts the elapsed minutes into
experience, coins, and level-ups for your character, scaled by whatever
equipment it has on.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.studyquest/config.toml)")
}

// loadConfig resolves the --config flag and loads the server configuration.
func loadConfig(cmd *cobra.Command) (*daemon.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = daemon.ConfigPath()
	}
	return daemon.Load(path)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
