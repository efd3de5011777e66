package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/formz"
	"go.uber.org/zap"
)

var watch bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report field errors for a values file",
	Long: `Builds the form described by --rules, loads --values into it and prints
every active field error. With --watch the values file is followed and the
errors are reprinted whenever they change.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	rs, err := loadRules(rulesPath)
	if err != nil {
		return err
	}
	if watch {
		return watchValues(cmd, rs)
	}

	reg := formz.NewRegistry()
	defer reg.Release(rs.Form)

	form := rs.build(reg, formz.WithDebounce(0))
	if err := loadValues(form, valuesPath); err != nil {
		return err
	}
	form.TriggerValidation()

	out := cmd.OutOrStdout()
	if n := report(out, form); n > 0 {
		return fmt.Errorf("%d invalid field(s)", n)
	}
	fmt.Fprintln(out, "ok")
	return nil
}

// watchValues follows the values file until interrupted. Field errors are
// debounced, so a burst of file events prints once.
func watchValues(cmd *cobra.Command, rs *ruleSet) error {
	if valuesPath == "" {
		return fmt.Errorf("--watch requires --values")
	}
	ctx, cancel := signalContext()
	defer cancel()

	reg := formz.NewRegistry()
	defer reg.Release(rs.Form)
	form := rs.build(reg)

	if err := form.Follow(ctx, formz.NewFileWatcher(valuesPath), codecFor(valuesPath)); err != nil {
		return err
	}
	logger.Info("watching values", zap.String("path", valuesPath), zap.String("form", rs.Form))

	out := cmd.OutOrStdout()
	errs := form.Errors(false)
	defer errs.Close()
	sub := errs.Subscribe(func(msgs []string) {
		if len(msgs) == 0 {
			fmt.Fprintln(out, "ok")
			return
		}
		fmt.Fprintln(out, strings.Join(msgs, "; "))
	})
	defer sub.Unsubscribe()

	<-ctx.Done()
	return nil
}
