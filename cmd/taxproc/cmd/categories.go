package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/retailco/taxproc/internal/taxonomy"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the tax category reference table",
	Long: `Load and display the category tax rate table.

This also validates the table the same way the process command does:
duplicate names, malformed rates, or rates outside [0,1) are rejected.

Examples:
  taxproc categories
  taxproc categories --categories my_rates.csv`,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	table, err := taxonomy.Load(cfg.CategoryFile)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tRATE")
	fmt.Fprintln(tw, "--------\t----")

	for _, name := range table.Categories() {
		rate, _ := table.Rate(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, rate.String())
	}
	tw.Flush()

	fmt.Printf("\n%d categories loaded from %s\n", table.Len(), cfg.CategoryFile)
	return nil
}
