package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryDoc struct {
	data Document
	seq  int
}

// MemoryStore keeps documents in process. It backs tests and the "memory"
// store driver.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	seq         int
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryDoc),
		now:         time.Now,
	}
}

// WithClock replaces the clock used to stamp createdAt.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return doc.data.clone(), nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data Document, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	existing, ok := docs[id]
	if !ok {
		s.seq++
		docs[id] = &memoryDoc{data: data.clone(), seq: s.seq}
		return nil
	}
	if !merge {
		existing.data = data.clone()
		return nil
	}
	for k, v := range data {
		existing.data[k] = v
	}
	return nil
}

func (s *MemoryStore) Add(_ context.Context, collection string, data Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	doc := data.clone()
	doc[CreatedAtField] = s.now().UTC()

	s.seq++
	s.collection(collection)[id] = &memoryDoc{data: doc, seq: s.seq}
	return id, nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, q Query) ([]Snapshot, error) {
	if q.OrderBy != "" && !ValidField(q.OrderBy) {
		return nil, fmt.Errorf("%q: %w", q.OrderBy, ErrInvalidField)
	}

	s.mu.RLock()
	type entry struct {
		id  string
		doc *memoryDoc
	}
	entries := make([]entry, 0, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		entries = append(entries, entry{id: id, doc: doc})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].doc, entries[j].doc
		if q.OrderBy != "" {
			if c := compareValues(a.data[q.OrderBy], b.data[q.OrderBy]); c != 0 {
				if q.Descending {
					return c > 0
				}
				return c < 0
			}
		}
		if q.Descending {
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})

	out := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		out = append(out, Snapshot{ID: e.id, Data: e.doc.data.clone()})
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) collection(name string) map[string]*memoryDoc {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[string]*memoryDoc)
		s.collections[name] = docs
	}
	return docs
}

// compareValues orders missing values first, then times, numbers and strings.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
