package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"quote-service/internal/catalog"
	"quote-service/internal/extract"
	"quote-service/internal/quote/export"
	"quote-service/internal/quote/service"
)

var (
	catalogFile string
	headerRow   int
	policyName  string
	vocabFile   string
	supplier    string
	xlsxOut     string
	csvOut      string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "quote [REQUEST_FILE|-]",
	Short: "Match a purchase request against a catalog and print a quotation",
	Long: `quote reads a free-text purchase request (a file, or stdin with "-"),
extracts the requested items and ranks catalog entries for each of them.
The default selection of every line is its best candidate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&catalogFile, "catalog", "c", "", "catalog spreadsheet (.xlsx, .xls, .csv)")
	f.IntVar(&headerRow, "header-row", 1, "1-based header row of the catalog")
	f.StringVarP(&policyName, "policy", "p", "strict", "scoring policy: strict or lenient")
	f.StringVar(&vocabFile, "vocabulary", "", "YAML vocabulary replacing the built-in one")
	f.StringVarP(&supplier, "supplier", "s", "", "only total lines from this supplier")
	f.StringVar(&xlsxOut, "xlsx", "", "also write the quotation to this .xlsx file")
	f.StringVar(&csvOut, "csv", "", "also write the quotation to this .csv file")
	f.BoolVarP(&verbose, "verbose", "v", false, "log extraction details")
	_ = rootCmd.MarkFlagRequired("catalog")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	vocab := service.DefaultVocabulary()
	if vocabFile != "" {
		v, err := service.LoadVocabulary(vocabFile)
		if err != nil {
			return err
		}
		vocab = v
	}
	policy, err := service.PolicyByName(policyName)
	if err != nil {
		return err
	}

	items, err := catalog.LoadFile(catalogFile, headerRow, catalog.Mapping{})
	if err != nil {
		return err
	}

	text, err := readRequest(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	eng := service.NewEngine(service.StaticCatalog{C: service.NewCatalog(items)},
		service.NewRanker(service.NewScorer(vocab, policy)), extract.Rules{}, logger)
	q := eng.Search(context.Background(), text)
	t := export.Build(q, supplier)

	printTable(cmd.OutOrStdout(), t)

	if csvOut != "" {
		if err := writeFile(csvOut, func(w io.Writer) error { return export.WriteCSV(w, t) }); err != nil {
			return err
		}
	}
	if xlsxOut != "" {
		if err := writeFile(xlsxOut, func(w io.Writer) error { return export.WriteXLSX(w, t) }); err != nil {
			return err
		}
	}
	return nil
}

func readRequest(stdin io.Reader, args []string) (string, error) {
	var (
		b   []byte
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("read request: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("empty request")
	}
	return string(b), nil
}

func printTable(w io.Writer, t export.Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTERM\tSTATUS\tCODE\tTITLE\tSUPPLIER\tQTY\tUNIT\tTOTAL")
	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
			r.Line, r.Term, r.Classification, r.Code, r.Title, r.Supplier, r.Quantity, r.UnitPrice, r.LineTotal)
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\t\tTOTAL\t%.2f\n", t.Total)
	_ = tw.Flush()
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
