package mpesaparser

import (
	"regexp"
	"sync"

	"wanjohi/mpesa-csv/internal/parsererror"
)

// Template describes the regex/format expectations for one statement source:
// how its rows carry a receipt reference, a timestamp, a status keyword and
// the numeric amount columns.
type Template struct {
	ID         string
	Reference  *regexp.Regexp
	Timestamp  *regexp.Regexp
	Status     *regexp.Regexp
	Amount     *regexp.Regexp
	TimeLayout string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Template{}
)

// RegisterTemplate adds a template to the registry, replacing any existing
// template with the same id.
func RegisterTemplate(t *Template) {
	registryMu.Lock()
	registry[t.ID] = t
	registryMu.Unlock()
}

// LookupTemplate returns the template for the given id, or a TemplateError
// when none is registered. An unknown template is fatal for the parse call.
func LookupTemplate(id string) (*Template, error) {
	registryMu.RLock()
	t, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, &parsererror.TemplateError{TemplateID: id}
	}
	return t, nil
}

func init() {
	// The M-PESA full statement layout: a 10-character alphanumeric receipt
	// code, an ISO-style timestamp, a status keyword and comma-grouped
	// two-decimal amount columns (paid-in, withdrawn, running balance).
	RegisterTemplate(&Template{
		ID:         "mpesa",
		Reference:  regexp.MustCompile(`\b[A-Z0-9]{10}\b`),
		Timestamp:  regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),
		Status:     regexp.MustCompile(`(?i)\b(COMPLETED|FAILED|PENDING)\b`),
		Amount:     regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`),
		TimeLayout: "2006-01-02 15:04:05",
	})
}
