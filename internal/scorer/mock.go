package scorer

import (
	"context"
	"fmt"
	"sync"
)

// MockResponse is a canned response for the MockScorer.
type MockResponse struct {
	Result *Result
	Err    error
}

// MockScorer is a deterministic Scorer for testing. It returns canned
// responses in FIFO order and records all requests.
type MockScorer struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockScorer creates a MockScorer with the given canned responses.
func NewMockScorer(responses ...MockResponse) *MockScorer {
	return &MockScorer{responses: responses}
}

// Score returns the next canned response, or ErrUnavailable when the
// queue is empty.
func (m *MockScorer) Score(_ context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, fmt.Errorf("no canned responses left: %w", ErrUnavailable)
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Result, nil
}
