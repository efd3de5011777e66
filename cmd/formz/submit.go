package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/formz"
	"go.uber.org/zap"
)

var outPath string

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate a values file and write the submitted snapshot",
	Long: `Loads --values into the form described by --rules. When every field is
valid the form is submitted and its value snapshot is written as JSON.`,
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	rs, err := loadRules(rulesPath)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	reg := formz.NewRegistry()
	defer reg.Release(rs.Form)

	form := rs.build(reg,
		formz.WithDebounce(0),
		formz.WithSubmit(func(_ context.Context, values map[string]any) error {
			return writeSnapshot(cmd.OutOrStdout(), values)
		}),
	)
	if err := loadValues(form, valuesPath); err != nil {
		return err
	}
	form.TriggerValidation()
	if n := report(cmd.ErrOrStderr(), form); n > 0 {
		return fmt.Errorf("not submitted: %d invalid field(s)", n)
	}

	sub := form.Submit(ctx)
	if err := sub.Wait(ctx); err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}
	logger.Debug("submitted", zap.String("form", rs.Form), zap.Int("fields", len(form.FieldNames())))
	return nil
}

func writeSnapshot(stdout io.Writer, values map[string]any) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data = append(data, '\n')
	if outPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o600)
}
