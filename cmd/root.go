package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/slidescene/internal/config"
	"github.com/mj1618/slidescene/internal/output"
	"github.com/mj1618/slidescene/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slidescene",
	Short: "Extract rendered slides into positioned, styled elements",
	Long: `Load a rendered presentation, walk every slide's DOM and emit a flat,
paint-ordered list of positioned and styled elements per slide, ready to be
rebuilt as native shapes in another document format.`,
	SilenceUsage: true,
}

// logger is configured by the root command from --verbose.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json, tree")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Log progress to stderr (-v info, -vv debug)")
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}

		verbose, _ := rootCmd.PersistentFlags().GetCount("verbose")
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(verbose)}))
		slog.SetDefault(logger)
		return nil
	}
}

func logLevel(verbose int) slog.Level {
	switch {
	case verbose >= 2:
		return slog.LevelDebug
	case verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// loadConfig reads the --config file (if any) and the environment.
func loadConfig() (config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	return config.Load(path)
}
