// Package root contains the root command for the application.
package root

import (
	"os"

	"github.com/spf13/cobra"

	"wanjohi/mpesa-csv/internal/common"
	"wanjohi/mpesa-csv/internal/config"
	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/mpesaparser"
	"wanjohi/mpesa-csv/internal/pdfextract"
	"wanjohi/mpesa-csv/internal/store"
)

// CommonFlags holds the flags shared by multiple commands.
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands.
	Log = logging.GetLogger()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRun.
	Cfg *config.Config

	// SharedFlags holds common options accessible to all commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "mpesa-csv",
		Short: "A CLI tool to parse M-PESA PDF statements to CSV and categorize transactions.",
		Long: `mpesa-csv parses M-PESA PDF account statements into clean CSV files.
It also categorizes transactions against an operator-maintained merchant rule set.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to mpesa-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetDefaultLogger(Log)
			mpesaparser.SetLogger(Log)
			pdfextract.SetLogger(Log)
			store.SetLogger(Log)
			common.SetLogger(Log)

			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				common.SetDelimiter([]rune(delim)[0])
			} else if cfg.CSV.Delimiter != "" {
				common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// NewRuleStore builds the YAML rule store from configuration, falling back
// to file discovery in the standard locations.
func NewRuleStore() *store.RuleStore {
	rs := store.NewRuleStore(Cfg.Rules.File, Cfg.Rules.CategoriesFile)
	if path, err := rs.FindConfigFile(rs.RulesFile); err == nil {
		rs.RulesFile = path
	}
	if path, err := rs.FindConfigFile(rs.CategoriesFile); err == nil {
		rs.CategoriesFile = path
	}
	return rs
}
