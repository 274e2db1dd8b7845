// Package store provides loading of merchant rules and category definitions
// from YAML configuration files. Rules are operator-maintained data; the
// store is the read interface the matching engine and orchestrator consume.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// RuleSource is the read interface for categorization rules and categories.
type RuleSource interface {
	// ListActiveRules returns all rules with the active flag set.
	ListActiveRules() ([]models.MerchantRule, error)

	// FindRuleByIdentifier returns the active rule whose paybill or till
	// number equals code, or nil when none exists.
	FindRuleByIdentifier(code string) (*models.MerchantRule, error)

	// ListCategories returns all configured categories.
	ListCategories() ([]models.Category, error)
}

// RuleStore loads rules and categories from YAML files.
type RuleStore struct {
	RulesFile      string
	CategoriesFile string
}

// NewRuleStore creates a store reading from the given files.
func NewRuleStore(rulesFile, categoriesFile string) *RuleStore {
	return &RuleStore{
		RulesFile:      rulesFile,
		CategoriesFile: categoriesFile,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "mpesa-csv", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// rulesConfig is the top-level shape of rules.yaml.
type rulesConfig struct {
	Rules []models.MerchantRule `yaml:"rules"`
}

// categoriesConfig is the top-level shape of categories.yaml.
type categoriesConfig struct {
	Categories []models.Category `yaml:"categories"`
}

// LoadRules loads every rule from the rules file, active or not.
// A missing file yields an empty slice, not an error.
func (s *RuleStore) LoadRules() ([]models.MerchantRule, error) {
	filename := s.RulesFile
	if filename == "" {
		filename = "rules.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Rules file not found", logging.Field{Key: logging.FieldFile, Value: filename})
			return []models.MerchantRule{}, nil
		}
		return nil, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var cfg rulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing rules file: %w", err)
	}

	log.Debug("Loaded rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(cfg.Rules)})
	return cfg.Rules, nil
}

// ListActiveRules returns the rules with the active flag set.
func (s *RuleStore) ListActiveRules() ([]models.MerchantRule, error) {
	rules, err := s.LoadRules()
	if err != nil {
		return nil, err
	}
	active := make([]models.MerchantRule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

// FindRuleByIdentifier returns the active rule whose paybill or till number
// equals code, or nil when none matches.
func (s *RuleStore) FindRuleByIdentifier(code string) (*models.MerchantRule, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	rules, err := s.ListActiveRules()
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if rules[i].PaybillNumber == code || rules[i].TillNumber == code {
			return &rules[i], nil
		}
	}
	return nil, nil
}

// ListCategories loads all categories. A missing file yields an empty
// slice, not an error.
func (s *RuleStore) ListCategories() ([]models.Category, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Categories file not found", logging.Field{Key: logging.FieldFile, Value: filename})
			return []models.Category{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg categoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}

	return cfg.Categories, nil
}
