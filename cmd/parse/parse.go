// Package parse handles the PDF statement parsing command.
package parse

import (
	"os"

	"github.com/spf13/cobra"

	"wanjohi/mpesa-csv/cmd/root"
	"wanjohi/mpesa-csv/internal/common"
	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/mpesaparser"
	"wanjohi/mpesa-csv/internal/pdfextract"
)

var template string

// Cmd represents the parse command.
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse an M-PESA PDF statement to CSV",
	Long:  `Extract, parse and deduplicate transactions from an M-PESA PDF statement, writing the result as CSV.`,
	Run:   parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&template, "template", "t", "", "Statement template id (defaults to configuration)")
}

func parseFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("Both --input and --output are required")
	}

	tpl := template
	if tpl == "" {
		tpl = root.Cfg.Parser.Template
	}

	root.Log.Info("Parsing statement",
		logging.Field{Key: logging.FieldInputFile, Value: root.SharedFlags.Input},
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
		logging.Field{Key: logging.FieldTemplate, Value: tpl})

	file, err := os.Open(root.SharedFlags.Input)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to open input file")
	}
	defer func() {
		if err := file.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close input file")
		}
	}()

	extractor := pdfextract.NewPDFExtractor()
	rows, report, err := mpesaparser.Parse(file, extractor, tpl)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to parse statement")
	}

	root.Log.Info("Parse report", logging.Field{Key: "summary", Value: report.Summary()})
	for _, rowErr := range report.RowErrors {
		root.Log.WithError(rowErr).Warn("Skipped statement row")
	}

	if err := common.WriteTransactionsToCSV(rows, root.SharedFlags.Output); err != nil {
		root.Log.WithError(err).Fatal("Failed to write CSV")
	}
	root.Log.Info("Statement parsed successfully",
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
}
