// Package categorize handles transaction categorization commands.
package categorize

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"wanjohi/mpesa-csv/cmd/root"
	"wanjohi/mpesa-csv/internal/audit"
	"wanjohi/mpesa-csv/internal/categorizer"
	"wanjohi/mpesa-csv/internal/common"
	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/matcher"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/preprocessor"
)

var (
	party  string
	amount string
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize parsed transactions against the merchant rule set",
	Long: `Categorize transactions from a parsed statement CSV against the configured
merchant rules, or categorize a single ad-hoc transaction with --party.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&party, "party", "p", "", "Categorize a single transaction for this party name")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Transaction amount for --party mode")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	svc, closeFn := newService()
	defer closeFn()

	if party != "" {
		categorizeOne(svc)
		return
	}

	if root.SharedFlags.Input == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("Both --input and --output are required (or use --party)")
	}

	rows, err := common.ReadTransactionsFromCSV(root.SharedFlags.Input)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to read transactions CSV")
	}

	categorized, err := svc.CategorizeBatch(context.Background(), rows)
	if err != nil {
		root.Log.WithError(err).Warn("Some transactions failed to categorize")
	}

	if err := common.WriteTransactionsToCSV(categorized, root.SharedFlags.Output); err != nil {
		root.Log.WithError(err).Fatal("Failed to write CSV")
	}

	assigned := 0
	for i := range categorized {
		if categorized[i].IsCategorized() {
			assigned++
		}
	}
	root.Log.Info("Categorization complete",
		logging.Field{Key: logging.FieldCount, Value: len(categorized)},
		logging.Field{Key: "categorized", Value: assigned})
}

// categorizeOne runs one ad-hoc transaction through the service and logs
// the assigned category.
func categorizeOne(svc *categorizer.Service) {
	tx := models.TransactionRow{
		Description: party,
		Merchant:    party,
	}
	if amount != "" {
		tx.Amount = models.ParseAmount(amount)
		tx.Type = models.TypeExpense
	} else {
		tx.Amount = decimal.Zero
	}

	out, err := svc.Categorize(context.Background(), tx)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to categorize transaction")
	}
	category := out.Category
	if category == "" {
		category = models.CategoryUncategorized
	}
	root.Log.Info("Transaction categorized",
		logging.Field{Key: "party", Value: party},
		logging.Field{Key: logging.FieldCategory, Value: category})
}

// newService wires the categorization service from configuration: YAML rule
// store, TTL rule cache, preprocessor, matching engine and audit store. The
// returned close function releases the audit database when one is
// configured.
func newService() (*categorizer.Service, func()) {
	source := root.NewRuleStore()
	cache := matcher.NewRuleCache(source, root.Cfg.CacheTTL(), root.Log)
	engine := matcher.NewEngine(cache, root.Log)
	pre := preprocessor.New(cache, root.Cfg.Parser.Currency, root.Log)

	var records audit.Store
	closeFn := func() {}
	if root.Cfg.Audit.Database != "" {
		sqlite, err := audit.OpenSQLite(root.Cfg.Audit.Database)
		if err != nil {
			root.Log.WithError(err).Fatal("Failed to open audit database")
		}
		records = sqlite
		closeFn = func() {
			if err := sqlite.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close audit database")
			}
		}
	} else {
		records = audit.NewMemoryStore()
	}

	svc := categorizer.NewService(engine, pre, source, records,
		root.Cfg.Categorization.ConfidenceThreshold, root.Log)
	return svc, closeFn
}
