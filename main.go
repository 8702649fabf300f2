package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pinboard/internal/logger"
)

var (
	boardFile  string
	configPath string
	couchURL   string
	logLevel   string

	config  *Config
	logData *logger.LogData
)

var rootCmd = &cobra.Command{
	Use:   "pinboard",
	Short: "A sticky-note board for the terminal",
	Long: `Pinboard keeps boards of sticky notes you can drag, group and zoom with the mouse.
Boards are saved to a YAML file, or to CouchDB when a server URL is configured.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if boardFile != "" {
			cfg.BoardFile = boardFile
		}
		if couchURL != "" {
			cfg.CouchURL = couchURL
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		config = cfg

		logData, err = logger.New().
			FromPath(cfg.LogFile).
			WithLevel(cfg.LogLevel).
			WithApp("pinboard").
			Make()
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logData.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(config, logData.Logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&boardFile, "file", "f", "", "board file (default from config, boards.yaml in the save directory)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.pinboardrc)")
	rootCmd.PersistentFlags().StringVar(&couchURL, "couch", "", "CouchDB server URL; boards are stored there instead of a file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
