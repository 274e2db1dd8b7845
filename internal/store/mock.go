package store

import (
	"strings"

	"wanjohi/mpesa-csv/internal/models"
)

// MockRuleSource is a RuleSource implementation for tests.
type MockRuleSource struct {
	Rules      []models.MerchantRule
	Categories []models.Category

	// Error flags for testing error conditions
	ListRulesError      error
	ListCategoriesError error

	// ListCalls counts ListActiveRules invocations, for cache tests.
	ListCalls int
}

// ListActiveRules returns the active subset of the mock rules.
func (m *MockRuleSource) ListActiveRules() ([]models.MerchantRule, error) {
	m.ListCalls++
	if m.ListRulesError != nil {
		return nil, m.ListRulesError
	}
	active := make([]models.MerchantRule, 0, len(m.Rules))
	for _, r := range m.Rules {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

// FindRuleByIdentifier scans the mock rules for a paybill/till match.
func (m *MockRuleSource) FindRuleByIdentifier(code string) (*models.MerchantRule, error) {
	if m.ListRulesError != nil {
		return nil, m.ListRulesError
	}
	code = strings.TrimSpace(code)
	for i := range m.Rules {
		if !m.Rules[i].Active {
			continue
		}
		if m.Rules[i].PaybillNumber == code || m.Rules[i].TillNumber == code {
			return &m.Rules[i], nil
		}
	}
	return nil, nil
}

// ListCategories returns the mock categories.
func (m *MockRuleSource) ListCategories() ([]models.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}
	return m.Categories, nil
}
