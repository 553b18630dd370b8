package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/remedymatch/lookup"
)

// MockLabelSource is a mock implementation of lookup.LabelSource.
// It is safe for concurrent use.
type MockLabelSource struct {
	// IndicationsFunc is called by Indications if set.
	// If nil, labels are served from the map given to NewMockLabelSource.
	IndicationsFunc func(ctx context.Context, medicineName string) (string, error)

	labels map[string]string

	mu    sync.Mutex
	calls []string
}

// NewMockLabelSource creates a mock serving labels keyed by
// case-insensitive medicine name. Unknown names yield lookup.ErrNotFound.
func NewMockLabelSource(labels map[string]string) *MockLabelSource {
	m := &MockLabelSource{labels: make(map[string]string, len(labels))}
	for name, text := range labels {
		m.labels[strings.ToLower(name)] = text
	}
	return m
}

// Indications returns the programmed label text for medicineName.
func (m *MockLabelSource) Indications(ctx context.Context, medicineName string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, medicineName)
	m.mu.Unlock()

	if m.IndicationsFunc != nil {
		return m.IndicationsFunc(ctx, medicineName)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, ok := m.labels[strings.ToLower(strings.TrimSpace(medicineName))]
	if !ok {
		return "", fmt.Errorf("%q: %w", medicineName, lookup.ErrNotFound)
	}
	return text, nil
}

// CallCount returns how many times Indications was called.
func (m *MockLabelSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the medicine names Indications was called with, in order.
func (m *MockLabelSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var _ lookup.LabelSource = (*MockLabelSource)(nil)
