package ledger

import (
	"errors"
	"strings"
)

// Memory is a Set that lives only for the lifetime of the process.
type Memory struct {
	items map[string]struct{}
}

// NewMemory returns a Memory preloaded with ids.
func NewMemory(ids ...string) *Memory {
	m := &Memory{items: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			m.items[id] = struct{}{}
		}
	}
	return m
}

func (m *Memory) Contains(id string) bool {
	_, ok := m.items[strings.TrimSpace(id)]
	return ok
}

func (m *Memory) Add(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("empty ledger id")
	}
	m.items[id] = struct{}{}
	return nil
}

func (m *Memory) Len() int { return len(m.items) }
