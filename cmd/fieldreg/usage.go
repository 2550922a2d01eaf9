package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quotelane/fieldreg/internal/usage"
)

var (
	flagBackendDir  string
	flagFrontendDir string
)

var checkUsageCmd = &cobra.Command{
	Use:   "check-usage",
	Short: "Report where registry fields are referenced in source",
	Long: `Scan backend (Go) and frontend (TypeScript/JavaScript) source trees for
string literals matching registry field IDs, and report fields used on
only one side or on neither.`,
	Args: cobra.NoArgs,
	RunE: runCheckUsage,
}

func init() {
	checkUsageCmd.Flags().StringVar(&flagBackendDir, "backend", "", "Go source tree to scan")
	checkUsageCmd.Flags().StringVar(&flagFrontendDir, "frontend", "", "TS/JS source tree to scan")
}

func runCheckUsage(cmd *cobra.Command, args []string) error {
	if flagBackendDir == "" && flagFrontendDir == "" {
		return fmt.Errorf("at least one of --backend or --frontend is required")
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	tracker := usage.NewTracker(reg)
	if flagBackendDir != "" {
		if err := tracker.ScanBackend(flagBackendDir); err != nil {
			return fmt.Errorf("scanning backend: %w", err)
		}
	}
	if flagFrontendDir != "" {
		if err := tracker.ScanFrontend(flagFrontendDir); err != nil {
			return fmt.Errorf("scanning frontend: %w", err)
		}
	}

	report := tracker.Report()
	fmt.Printf("Fields: %d\n\n", report.TotalFields)

	printUsageSection := func(heading string, ids []string, paint func(format string, a ...interface{})) {
		if len(ids) == 0 {
			return
		}
		paint("%s (%d)", heading, len(ids))
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		fmt.Println()
	}

	printUsageSection("Used in both", report.Consistent, color.Green)
	printUsageSection("Backend only", report.BackendOnly, color.Yellow)
	printUsageSection("Frontend only", report.FrontendOnly, color.Yellow)
	printUsageSection("Unused", report.Unused, color.Red)
	return nil
}
