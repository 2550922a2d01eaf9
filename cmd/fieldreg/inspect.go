package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var showFieldCmd = &cobra.Command{
	Use:   "show-field PRODUCT FIELD",
	Short: "Show a single field definition",
	Args:  cobra.ExactArgs(2),
	RunE:  runShowField,
}

var listEnumsCmd = &cobra.Command{
	Use:   "list-enums",
	Short: "List enums and their values",
	Args:  cobra.NoArgs,
	RunE:  runListEnums,
}

var listProductsCmd = &cobra.Command{
	Use:   "list-products",
	Short: "List products and their fields",
	Args:  cobra.NoArgs,
	RunE:  runListProducts,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	s := reg.Statistics()
	fmt.Printf("Enums:          %d\n", s.Enums)
	fmt.Printf("Enum values:    %d\n", s.EnumValues)
	fmt.Printf("Products:       %d\n", s.Products)
	fmt.Printf("Fields:         %d\n", s.Fields)
	fmt.Printf("Patterns:       %d\n", s.Patterns)
	fmt.Printf("Select options: %d\n", s.SelectOptions)
	fmt.Printf("AI modes:       %d\n", s.AIModes)
	fmt.Printf("Channels:       %d\n", s.Channels)
	return nil
}

func runShowField(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	productID, fieldID := args[0], args[1]
	f, err := reg.Field(productID, fieldID)
	if err != nil {
		return err
	}

	color.Cyan("%s.%s", productID, f.ID)
	fmt.Printf("  display:  %s\n", f.DisplayName)
	if f.Description != "" {
		fmt.Printf("  about:    %s\n", f.Description)
	}
	fmt.Printf("  type:     %s\n", f.Type)
	fmt.Printf("  priority: %d\n", f.Priority)
	fmt.Printf("  required: %t\n", f.Required)
	if f.Enum != "" {
		fmt.Printf("  enum:     %s\n", f.Enum)
	}
	if f.Range != nil {
		fmt.Printf("  range:    [%g, %g]\n", f.Range.Min, f.Range.Max)
	}
	if f.DependsOn != nil {
		fmt.Printf("  depends:  %s == %q\n", f.DependsOn.Field, f.DependsOn.Equals)
	}

	if len(f.Groups) > 0 {
		fmt.Println("  patterns:")
		for _, g := range f.Groups {
			fmt.Printf("    %s (confidence %.2f)\n", g.Name, g.Confidence)
			for _, p := range g.Patterns {
				fmt.Printf("      %s\n", p.Source)
			}
		}
	}
	if len(f.Context.Positive) > 0 {
		fmt.Printf("  context+: %s\n", strings.Join(f.Context.Positive, ", "))
	}
	if len(f.Context.Negative) > 0 {
		fmt.Printf("  context-: %s\n", strings.Join(f.Context.Negative, ", "))
	}

	if refs := reg.EquivalentFields(f.ID); len(refs) > 1 {
		fmt.Println("  equivalent:")
		for _, ref := range refs {
			if ref.Product == productID && ref.Field == f.ID {
				continue
			}
			fmt.Printf("    %s\n", ref)
		}
	}
	if len(f.Questions) > 0 {
		fmt.Println("  questions:")
		for _, q := range f.Questions {
			fmt.Printf("    %s\n", q)
		}
	}
	return nil
}

func runListEnums(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	for _, id := range reg.EnumIDs() {
		e, err := reg.Enum(id)
		if err != nil {
			return err
		}
		color.Cyan("%s (%d values)", e.ID, len(e.Values))
		for _, v := range e.Values {
			if v.Display != "" && v.Display != v.ID {
				fmt.Printf("  %-20s %s\n", v.ID, v.Display)
			} else {
				fmt.Printf("  %s\n", v.ID)
			}
		}
	}
	return nil
}

func runListProducts(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	for _, id := range reg.ProductIDs() {
		p, err := reg.Product(id)
		if err != nil {
			return err
		}
		color.Cyan("%s: %s", p.ID, p.DisplayName)
		for _, f := range p.Required {
			fmt.Printf("  %-24s %-12s required  (%d patterns)\n", f.ID, f.Type, f.PatternCount())
		}
		for _, f := range p.Optional {
			fmt.Printf("  %-24s %-12s optional  (%d patterns)\n", f.ID, f.Type, f.PatternCount())
		}
	}
	return nil
}
