package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/retailco/taxproc/internal/llm"
	"github.com/retailco/taxproc/internal/output"
	"github.com/retailco/taxproc/internal/processor"
	"github.com/retailco/taxproc/internal/taxonomy"
)

var (
	outputDir           string
	classifyConcurrency int
)

var processCmd = &cobra.Command{
	Use:   "process [path]",
	Short: "Process invoice PDFs",
	Long: `Process invoice PDF files end to end.

With no argument, every *.pdf in the configured invoices directory is
processed. With a file argument, only that document is processed.

For each invoice three files are written to the output directory:
  <name>.json  - full structured record with nested line items
  <name>.csv   - flattened table, one row per line item
  <name>.txt   - human-readable summary (header fields and totals)

Per-document failures are reported and do not abort the batch.

Examples:
  taxproc process
  taxproc process Invoices/
  taxproc process invoice.pdf -o results/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (env: TAXPROC_OUTPUT_DIR)")
	processCmd.Flags().IntVar(&classifyConcurrency, "concurrency", 4, "Classification calls in flight per invoice")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := taxonomy.Load(cfg.CategoryFile)
	if err != nil {
		return err
	}
	printVerbose("Loaded %d tax categories from %s\n", table.Len(), cfg.CategoryFile)

	files, err := collectFiles(args, cfg.InvoicesDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No invoice files found to process")
		return nil
	}
	printVerbose("Found %d invoice files to process\n", len(files))

	var clientOpts []llm.ClientOption
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, llm.WithTimeout(cfg.Timeout))
	client := llm.NewClient(cfg.APIKey, clientOpts...)

	pipeline := processor.NewPipeline(
		llm.NewExtractor(client,
			llm.WithExtractionModel(cfg.ExtractionModel),
			llm.WithExtractionMaxTokens(cfg.MaxTokens)),
		llm.NewClassifier(client, llm.WithClassificationModel(cfg.ClassificationModel)),
		llm.NewExemptionDetector(client, llm.WithDetectionModel(cfg.ClassificationModel)),
		table,
		processor.WithClassifyConcurrency(classifyConcurrency),
	)

	writer, err := output.NewWriter(cfg.OutputDir)
	if err != nil {
		return err
	}

	batch := processor.NewBatch(pipeline, writer)
	report := batch.Run(context.Background(), files)

	printReport(report)

	if report.Succeeded() == 0 {
		return fmt.Errorf("all %d documents failed", len(report.Results))
	}
	return nil
}

// collectFiles resolves the positional argument (file or directory)
// or falls back to the configured invoices directory.
func collectFiles(args []string, invoicesDir string) ([]string, error) {
	target := invoicesDir
	if len(args) > 0 {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", target)
	}

	if !info.IsDir() {
		if !isPDFFile(target) {
			return nil, fmt.Errorf("unsupported file type: %s", target)
		}
		return []string{target}, nil
	}

	matches, err := filepath.Glob(filepath.Join(target, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func isPDFFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func printReport(report *processor.BatchReport) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tINVOICE\tITEMS\tPRE-TAX\tTAX\tPOST-TAX\tTOKENS\tSTATUS")
	fmt.Fprintln(tw, "----\t-------\t-----\t-------\t---\t--------\t------\t------")

	for _, res := range report.Results {
		name := filepath.Base(res.File)
		if res.Err != nil {
			fmt.Fprintf(tw, "%s\t\t\t\t\t\t\tFAILED (%s): %s\n", name, res.Stage, res.Err)
			continue
		}

		inv := res.Invoice
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%d\tok\n",
			name,
			inv.Number,
			len(inv.LineItems),
			inv.Totals.PreTax.StringFixed(2),
			inv.Totals.Tax.StringFixed(2),
			inv.Totals.PostTax.StringFixed(2),
			inv.Usage.Total(),
		)
	}

	tw.Flush()
	fmt.Printf("\nProcessed %d invoices: %d succeeded, %d failed\n",
		len(report.Results), report.Succeeded(), report.Failed())
}
