package commands

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"labrex/internal/config"
	"labrex/internal/observability"
)

var (
	cfgFile string
	jsonLog bool
	verbose bool

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "labrex",
	Short: "Lab report OCR extraction toolkit",
	Long: `labrex extracts structured test records from scanned lab reports.
It normalizes report images, runs them through tesseract, parses the
recognized lines into test records, and exports them as JSON or CSV.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "log in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initRuntime loads .env, the config file, and the logger before any command.
func initRuntime(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		path = os.Getenv("LABREX_CONFIG")
	}
	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if jsonLog {
		cfg.Log.Format = "json"
	}
	logger, err = observability.New(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "labrex",
	})
	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
