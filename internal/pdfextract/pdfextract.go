// Package pdfextract turns a raw PDF byte stream into plain text lines or
// positioned text tokens. It is a thin wrapper over the pdf library and
// exists only as the data source for the statement line parser.
package pdfextract

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// PDFExtractor is the production Extractor implementation.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText extracts the plain text of every page, joined by newlines.
func (e *PDFExtractor) ExtractText(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close PDF file",
				logging.Field{Key: logging.FieldFile, Value: pdfPath})
		}
	}()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("error extracting text from page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ExtractTokens extracts positioned text fragments from every page.
func (e *PDFExtractor) ExtractTokens(pdfPath string) ([]models.RawToken, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close PDF file",
				logging.Field{Key: logging.FieldFile, Value: pdfPath})
		}
	}()

	var tokens []models.RawToken
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, t := range page.Content().Text {
			tokens = append(tokens, models.RawToken{
				Text: t.S,
				X:    t.X,
				Y:    t.Y,
				Page: i,
			})
		}
	}
	return tokens, nil
}

// ExtractTextFromReader copies the stream to a temporary file and extracts
// its plain text. The pdf library needs random access, so a seekable file is
// required.
func ExtractTextFromReader(r io.Reader, extractor Extractor) (string, error) {
	tempFile, err := os.CreateTemp("", "*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			log.WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: logging.FieldFile, Value: tempFile.Name()})
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	return extractor.ExtractText(tempFile.Name())
}

// TokensToLines reconstructs text lines from positioned tokens: tokens are
// grouped by page and vertical position, then ordered left to right. PDF
// coordinates grow upward, so lines are emitted top of page first.
func TokensToLines(tokens []models.RawToken) []string {
	type lineKey struct {
		page int
		y    float64
	}
	groups := make(map[lineKey][]models.RawToken)
	for _, t := range tokens {
		key := lineKey{page: t.Page, y: t.Y}
		groups[key] = append(groups[key], t)
	}

	keys := make([]lineKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].page != keys[j].page {
			return keys[i].page < keys[j].page
		}
		return keys[i].y > keys[j].y
	})

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		toks := groups[k]
		sort.Slice(toks, func(i, j int) bool { return toks[i].X < toks[j].X })
		var b strings.Builder
		for i, t := range toks {
			if i > 0 && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.Text, " ") {
				b.WriteString(" ")
			}
			b.WriteString(t.Text)
		}
		lines = append(lines, strings.TrimSpace(b.String()))
	}
	return lines
}
