package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mabhi256/evinspect/internal/config"
	"github.com/mabhi256/evinspect/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	debug      bool
	projectDir string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "evinspect",
	Short: "Inspect UI event wiring in Unity scenes",
	Long: `evinspect reads text-serialized Unity scenes and prefabs and shows which
UI events (button clicks, value changes, pointer triggers) call which methods,
with the arguments bound to each call.`,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "install" || cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if err := loadConfig(); err != nil {
			return err
		}

		autoSetup(cmd.Root(), os.Stderr)
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

// loadConfig reads the config file and installs the logger. Flags win over
// the file.
func loadConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.SlogLevel()
	if logLevel != "" {
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
	}

	logCloser, err = logging.Setup(logging.Options{Level: level, Debug: debug})
	return err
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./evinspect.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs to evinspect_debug_<time>.log")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "Unity project root (default: detected from the scene path)")

	rootCmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
}
