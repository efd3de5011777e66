// Command formz checks and submits form values against field rules.
//
//	formz check  --rules signup.yaml --values values.yaml [--watch]
//	formz submit --rules signup.yaml --values values.yaml [--out snapshot.json]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	rulesPath  string
	valuesPath string

	logger    *zap.Logger
	hooksOnce sync.Once
)

var rootCmd = &cobra.Command{
	Use:   "formz",
	Short: "Validate and submit form values against field rules",
	Long: `formz builds a form from a rules file, loads values into it and reports
the active field errors, exactly as a UI bound to the same form would see them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		hooksOnce.Do(func() { hookSignals(logger) })
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		capitan.Shutdown()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&rulesPath, "rules", "r", "", "Field rules file (required)")
	rootCmd.PersistentFlags().StringVar(&valuesPath, "values", "", "Values file (YAML or JSON)")
	_ = rootCmd.MarkPersistentFlagRequired("rules")

	checkCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-check whenever the values file changes")
	submitCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the submitted snapshot here instead of stdout")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(submitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
