package cli

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/usecase"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkglog"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgmoney"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkguid"
)

type totalFlags struct {
	column   string
	currency string
	strict   bool
	logLevel string
	format   string
}

const (
	formatTSV   = "tsv"
	formatTable = "table"
)

func newTotalCmd() *cobra.Command {
	var flags totalFlags

	cmd := &cobra.Command{
		Use:   "total FILE...",
		Short: "Print the invoice total of each CSV file",
		Long: `Sums the invoice column of each file with the same rules as the web widget:
cells that are not numbers count as zero. Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkglog.InitLoggingTo(cmd.ErrOrStderr(), flags.logLevel)

			if flags.format != formatTSV && flags.format != formatTable {
				return fmt.Errorf("unknown format %q (use %s or %s)", flags.format, formatTSV, formatTable)
			}

			runID, err := pkguid.NewSnowflake()
			if err != nil {
				return err
			}

			uc := usecase.New(usecase.Dependency{
				RunID: runID,
				Options: usecase.Options{
					Column:         flags.column,
					CurrencySymbol: flags.currency,
					StrictColumn:   flags.strict,
				},
			})

			var results []entity.AggregationResult
			for _, path := range args {
				file, err := readCandidate(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}

				result, err := uc.Total(cmd.Context(), file)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if flags.format == formatTSV {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, result.Display)
					continue
				}
				result.FileName = path
				results = append(results, result)
			}

			if flags.format == formatTable {
				renderTotals(cmd.OutOrStdout(), results, flags.currency)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.column, "column", entity.DefaultColumn, "header of the column to sum")
	cmd.Flags().StringVar(&flags.currency, "currency", pkgmoney.DefaultSymbol, "currency symbol prefixed to totals")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when the column is missing from the header")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "log level written to stderr")
	cmd.Flags().StringVar(&flags.format, "format", formatTSV, "output format: tsv or table")

	return cmd
}

// readCandidate loads a file named on the command line. Stdin is treated as
// CSV regardless of name.
func readCandidate(stdin io.Reader, path string) (entity.CandidateFile, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return entity.CandidateFile{}, fmt.Errorf("read stdin: %w", err)
		}
		return entity.CandidateFile{
			Name:      "stdin",
			Size:      int64(len(content)),
			MediaType: entity.MediaTypeCSV,
			Content:   content,
		}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return entity.CandidateFile{}, err
	}

	return entity.CandidateFile{
		Name:      filepath.Base(path),
		Size:      int64(len(content)),
		MediaType: extensionMediaType(path),
		Content:   content,
	}, nil
}

// extensionMediaType guesses the bare media type from the file extension.
func extensionMediaType(path string) string {
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(path)))
	if err != nil {
		return ""
	}
	return mediaType
}

func renderTotals(w io.Writer, results []entity.AggregationResult, symbol string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Rows", "Not numeric", "Total"})

	var sum float64
	for _, r := range results {
		t.AppendRow(table.Row{r.FileName, r.Rows, r.Coerced, r.Display})
		sum += r.Total
	}
	t.AppendFooter(table.Row{"", "", "Sum", pkgmoney.Format(symbol, sum)})

	t.Render()
}
