// Fieldreg is the CLI for the conversational field registry. It validates
// the declarative sources, tests extraction patterns, projects TypeScript
// types, and reports registry statistics and field usage.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quotelane/fieldreg/internal/config"
	"github.com/quotelane/fieldreg/internal/logging"
	"github.com/quotelane/fieldreg/internal/registry"
)

var (
	flagRegistryDir string
	flagConfigPath  string
	flagLogLevel    string

	// version information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fieldreg",
	Short: "Field registry management",
	Long: `fieldreg manages the conversational field registry.

The registry is a set of declarative YAML documents describing products,
their fields, extraction patterns, and shared enums. fieldreg validates
those documents, tests extraction against sample conversation text, and
generates TypeScript types for frontend consumption.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegistryDir, "registry", "", "registry directory (default \"registry\")")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(testExtractionCmd)
	rootCmd.AddCommand(generateTypesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(showFieldCmd)
	rootCmd.AddCommand(listEnumsCmd)
	rootCmd.AddCommand(listProductsCmd)
	rootCmd.AddCommand(checkUsageCmd)
}

// setup loads tool configuration and builds the logger. Flags override
// config file and environment values.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if flagRegistryDir != "" {
		cfg.Registry.Dir = flagRegistryDir
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// loadRegistry builds the registry once; commands pass the reference down
// and never reload.
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	return registry.Load(registry.Options{
		Dir:     cfg.Registry.Dir,
		Exclude: cfg.Registry.Exclude,
	})
}
