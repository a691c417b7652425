package feedback

import (
	"context"
	"sync"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

// MemorySink keeps records in process. Used in development and tests.
type MemorySink struct {
	mu      sync.RWMutex
	records []contractx.FeedbackRecord
}

var _ contractx.FeedbackSink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Append(_ context.Context, record contractx.FeedbackRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

// BySession returns a copy of the records for sessionID in append order.
func (m *MemorySink) BySession(sessionID string) []contractx.FeedbackRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]contractx.FeedbackRecord, 0)
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out
}

func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
