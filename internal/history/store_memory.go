package history

import "log/slog"

// NewMemoryStore 는 프로세스 메모리에만 기록을 두는 저장소를 만든다.
func NewMemoryStore(maxEntries int) *Store {
	return &Store{
		backend:    storeBackendMemory,
		maxEntries: maxEntries,
		logger:     slog.Default(),
	}
}

func (s *Store) appendMemory(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{entry}, s.entries...)
	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
}

func (s *Store) listMemory(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out
}

func (s *Store) clearMemory() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

func (s *Store) countMemory() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
