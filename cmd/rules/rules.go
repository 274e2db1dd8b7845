// Package rules handles merchant rule maintenance commands.
package rules

import (
	"github.com/spf13/cobra"

	"wanjohi/mpesa-csv/cmd/root"
	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/matcher"
)

// Cmd represents the rules command group.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate the merchant rule set",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active merchant rules",
	Run:   listFunc,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate rule structure and compile every rule pattern",
	Run:   validateFunc,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(validateCmd)
}

func listFunc(cmd *cobra.Command, args []string) {
	source := root.NewRuleStore()
	rules, err := source.ListActiveRules()
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to load rules")
	}

	for i := range rules {
		root.Log.Info(rules[i].Name,
			logging.Field{Key: logging.FieldRuleID, Value: rules[i].ID},
			logging.Field{Key: logging.FieldCategory, Value: rules[i].CategoryID},
			logging.Field{Key: logging.FieldConfidence, Value: rules[i].Confidence})
	}
	root.Log.Info("Active rules listed",
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
}

func validateFunc(cmd *cobra.Command, args []string) {
	source := root.NewRuleStore()
	rules, err := source.LoadRules()
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to load rules")
	}

	invalid := 0
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			invalid++
			root.Log.WithError(err).Error("Invalid rule",
				logging.Field{Key: logging.FieldRuleID, Value: rules[i].ID})
		}
	}

	// Pattern compilation reports per-rule errors through the logger.
	matcher.CompileRules(rules, root.Log)

	if invalid > 0 {
		root.Log.Fatal("Rule validation failed",
			logging.Field{Key: logging.FieldCount, Value: invalid})
	}
	root.Log.Info("All rules valid",
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
}
