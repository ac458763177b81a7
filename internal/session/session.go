// Package session maintains the bounded conversation history shared by review
// requests that carry the same thread identifier.
package session

// Turn is one entry in a conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Checkpointer persists chat histories across requests. Implementations are
// expected to be safe for concurrent use under last-write-wins semantics.
type Checkpointer interface {
	History(threadID string) ([]Turn, error)
	SaveHistory(threadID string, turns []Turn) error
}

// Manager loads, extends, and truncates per-thread histories.
type Manager struct {
	cp      Checkpointer
	maxSize int
}

// NewManager creates a Manager bounding each history to maxSize turns.
// A nil checkpointer keeps every history empty, which turns session memory
// off without branching at the call sites.
func NewManager(cp Checkpointer, maxSize int) *Manager {
	return &Manager{cp: cp, maxSize: maxSize}
}

// Load returns the stored history for a thread. Unknown threads, empty thread
// ids, and checkpoint errors all yield an empty history: conversation memory
// is an enrichment, never a reason to fail a request.
func (m *Manager) Load(threadID string) []Turn {
	if m.cp == nil || threadID == "" {
		return nil
	}
	turns, err := m.cp.History(threadID)
	if err != nil {
		return nil
	}
	return turns
}

// Record appends one user/assistant exchange to the history, truncates from
// the head down to the configured bound, and checkpoints the result. The
// truncated history is returned so callers can keep working with it.
func (m *Manager) Record(threadID string, history []Turn, prompt, response string) []Turn {
	history = append(history,
		Turn{Role: "user", Content: prompt},
		Turn{Role: "assistant", Content: response},
	)
	history = Trim(history, m.maxSize)

	if m.cp != nil && threadID != "" {
		_ = m.cp.SaveHistory(threadID, history)
	}
	return history
}

// Trim drops the oldest turns until at most max remain.
func Trim(turns []Turn, max int) []Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}
