package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/saeidalz13/ocean-storm/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "ocean-storm",
	Short: "Two player battleship over a websocket relay",
	Long: `Ocean Storm is a two player battleship game played from the terminal.

Available commands:
  relay    Run the relay that pairs players and forwards their moves
  play     Join a match through a relay

Use "ocean-storm [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded outside prod")
}

// Flags that were set on the command line win over the environment.
func loadConfig(override func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	override(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
