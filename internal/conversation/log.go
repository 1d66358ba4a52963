// Package conversation implements the shared, append-then-patch message log.
package conversation

import (
	"sync"

	"lingualive/internal/domain"
)

// Log is the ordered conversation history. Messages are appended in arrival
// order and later patched in place by id; they are never removed or
// reordered. Both slots' pipelines write concurrently, so all access is
// mutex-guarded.
type Log struct {
	mu       sync.Mutex
	messages []domain.Message
	index    map[string]int
}

func NewLog() *Log {
	return &Log{index: make(map[string]int)}
}

// Append adds a message at the end of the log, preserving arrival order.
func (l *Log) Append(msg domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index[msg.ID] = len(l.messages)
	l.messages = append(l.messages, msg)
}

// Patch replaces the translated text of the message with the given id.
// Unknown ids are a silent no-op; a patch can race a log reset and must not
// fail. Returns whether a message was updated.
func (l *Log) Patch(id string, translatedText string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.messages[i].TranslatedText = translatedText
	return true
}

// Get returns the message with the given id.
func (l *Log) Get(id string) (domain.Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[id]
	if !ok {
		return domain.Message{}, false
	}
	return l.messages[i], true
}

// Snapshot returns a copy of the log in insertion order.
func (l *Log) Snapshot() []domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Reset drops all messages. This serves the UI-level "clear conversation"
// action; pipeline patches arriving after a reset fall into the no-op path.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
	l.index = make(map[string]int)
}
