package pdfextract

import "wanjohi/mpesa-csv/internal/models"

// Extractor defines the interface for extracting text from PDF files.
// The interface allows dependency injection so the statement parser can be
// tested without real PDF fixtures.
type Extractor interface {
	// ExtractText extracts the plain text content of the PDF at the given
	// path, pages joined by newlines.
	ExtractText(pdfPath string) (string, error)

	// ExtractTokens extracts positioned text fragments from the PDF at the
	// given path, in document order.
	ExtractTokens(pdfPath string) ([]models.RawToken, error)
}

// MockExtractor implements Extractor for tests. It returns predefined data
// instead of reading a PDF.
type MockExtractor struct {
	MockText   string
	MockTokens []models.RawToken
	MockErr    error
}

// NewMockExtractor creates a MockExtractor with the given mock data.
func NewMockExtractor(text string, err error) *MockExtractor {
	return &MockExtractor{MockText: text, MockErr: err}
}

// ExtractText returns the predefined mock text or error.
func (e *MockExtractor) ExtractText(pdfPath string) (string, error) {
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}

// ExtractTokens returns the predefined mock tokens or error.
func (e *MockExtractor) ExtractTokens(pdfPath string) ([]models.RawToken, error) {
	if e.MockErr != nil {
		return nil, e.MockErr
	}
	return e.MockTokens, nil
}
