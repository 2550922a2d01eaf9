package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quotelane/fieldreg/internal/extracttest"
)

var flagCasesFile string

var testExtractionCmd = &cobra.Command{
	Use:   "test-extraction",
	Short: "Run extraction test cases",
	Long: `Run extraction test cases against the registry's patterns.

Without --cases the built-in standard suite runs. A cases file is YAML:

  cases:
    - name: driver_age_explicit
      input: "I'm 35 years old"
      product: auto_insurance
      field: driver_age
      expected: "35"

Exits non-zero when any case fails.`,
	Args: cobra.NoArgs,
	RunE: runTestExtraction,
}

func init() {
	testExtractionCmd.Flags().StringVar(&flagCasesFile, "cases", "", "YAML file with extra test cases")
}

func runTestExtraction(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	cases, err := extracttest.Builtin()
	if err != nil {
		return err
	}
	if flagCasesFile != "" {
		data, err := os.ReadFile(flagCasesFile)
		if err != nil {
			return fmt.Errorf("reading cases file: %w", err)
		}
		extra, err := extracttest.ParseCases(flagCasesFile, data)
		if err != nil {
			return err
		}
		cases = append(cases, extra...)
	}

	runner := extracttest.NewRunner(reg)
	runner.Concurrency = cfg.Harness.Concurrency

	result, err := runner.RunAll(cmd.Context(), cases)
	if err != nil {
		return err
	}

	log.Debug("extraction run complete", zap.String("run_id", result.RunID))
	printTestRun(result)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d case(s) failed", result.Failed, result.Total)
	}
	return nil
}

func printTestRun(result extracttest.RunResult) {
	fmt.Println()
	fmt.Printf("Total: %d  Passed: %d  Failed: %d  Pass rate: %.1f%%\n\n",
		result.Total, result.Passed, result.Failed, result.PassRate*100)

	for _, res := range result.Failures {
		color.Red("  ✗ %s", res.Case.Name)
		fmt.Printf("    input:    %q\n", res.Case.Input)
		if res.Case.MustNotExtract {
			fmt.Printf("    expected: no extraction\n")
		} else {
			fmt.Printf("    expected: %q\n", res.Case.Expected)
		}
		fmt.Printf("    got:      %q (confidence %.2f)\n", res.Value, res.Confidence)
		fmt.Printf("    detail:   %s\n\n", res.Detail)
	}

	if result.Failed == 0 {
		color.Green("✓ all cases passed")
		fmt.Println()
	}
}
