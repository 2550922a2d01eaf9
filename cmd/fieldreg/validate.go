package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quotelane/fieldreg/internal/validate"
	"github.com/quotelane/fieldreg/internal/watch"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registry for consistency",
	Long: `Validate cross-references across the registry: equivalence targets,
dependency links and cycles, enum references, context pattern conflicts,
and numeric ranges. Every issue is reported, not just the first.

Exits non-zero when any error is found; warnings never block.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Revalidate the registry on every source change",
	Long: `Watch the registry directory and rerun validation whenever a YAML
source changes. Useful while authoring field definitions.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	result := validate.Run(reg)
	printValidation(result)

	if !result.Passed {
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	revalidate := func() {
		reg, err := loadRegistry(cfg)
		if err != nil {
			color.Red("load failed: %v", err)
			return
		}
		printValidation(validate.Run(reg))
	}

	// Validate once up front so the terminal shows the current state.
	revalidate()

	w, err := watch.New(cfg.Registry.Dir, revalidate, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("watching registry", zap.String("dir", cfg.Registry.Dir))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printValidation(result validate.Result) {
	fmt.Println()
	if result.Passed {
		color.Green("✓ registry valid")
	} else {
		color.Red("✗ registry invalid")
	}
	fmt.Printf("Errors: %d  Warnings: %d\n\n", len(result.Errors), len(result.Warnings))

	for _, issue := range result.Errors {
		color.Red("  ✗ %s", issue)
	}
	for _, issue := range result.Warnings {
		color.Yellow("  ⚠ %s", issue)
	}
	if len(result.Errors)+len(result.Warnings) > 0 {
		fmt.Println()
	}
}
