// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/sheet"
)

// MockSource is a test double for [services.Source] serving canned pages.
type MockSource struct {
	Pages []models.Page
	Err   error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) GetPage(ctx context.Context, cursor string) (*models.Page, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	idx := 0
	if cursor != "" {
		for i := range m.Pages {
			if m.Pages[i].NextCursor == cursor {
				idx = i + 1
				break
			}
		}
	}
	if idx >= len(m.Pages) {
		return &models.Page{}, nil
	}
	return &m.Pages[idx], nil
}

// MockStore is an in-memory test double for [sheet.Store].
type MockStore struct {
	Table    *sheet.Table
	LoadErr  error
	WriteErr error
	Written  []*sheet.Table
}

func (m *MockStore) Name() string { return "mock" }

func (m *MockStore) Load(ctx context.Context) (*sheet.Table, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Table == nil {
		return nil, errors.New("no table loaded")
	}
	return m.Table, nil
}

func (m *MockStore) Write(ctx context.Context, t *sheet.Table) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Written = append(m.Written, t)
	m.Table = t
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
