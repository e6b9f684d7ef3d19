package store

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/loganpetree/homesellphotography/internal/domain"
)

// memoryStore keeps JSON-encoded documents in process memory.
// Used for dry runs and tests.
type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() Store {
	return &memoryStore{collections: make(map[string]map[string][]byte)}
}

type jsonDocument struct {
	id   string
	data []byte
}

func (d *jsonDocument) ID() string {
	return d.id
}

func (d *jsonDocument) DataTo(v interface{}) error {
	return json.Unmarshal(d.data, v)
}

func (s *memoryStore) Get(_ context.Context, collection, id string, dest interface{}) error {
	s.mu.RLock()
	data, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return json.Unmarshal(data, dest)
}

func (s *memoryStore) Set(_ context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string][]byte)
	}
	s.collections[collection][id] = data
	return nil
}

func (s *memoryStore) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}

	merged, err := mergeJSON(data, fields)
	if err != nil {
		return err
	}
	s.collections[collection][id] = merged
	return nil
}

type memoryEntry struct {
	id     string
	data   []byte
	fields map[string]json.RawMessage
}

func (s *memoryStore) List(_ context.Context, collection string, q Query) ([]Document, error) {
	if err := validateFilters(q.Filters); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var entries []memoryEntry
	for id, data := range s.collections[collection] {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			s.mu.RUnlock()
			return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
		}
		if matchesFilters(fields, q.Filters) {
			entries = append(entries, memoryEntry{id: id, data: data, fields: fields})
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, func(a, b memoryEntry) int {
		if q.OrderBy != "" {
			if c := compareRaw(a.fields[q.OrderBy], b.fields[q.OrderBy]); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.id, b.id)
	})

	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, &jsonDocument{id: e.id, data: e.data})
	}
	return docs, nil
}

func (s *memoryStore) Close() error {
	return nil
}

// mergeJSON sets top-level fields of the encoded object data
func mergeJSON(data []byte, fields map[string]interface{}) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", k, err)
		}
		doc[k] = raw
	}
	return json.Marshal(doc)
}

func matchesFilters(fields map[string]json.RawMessage, filters []Filter) bool {
	for _, f := range filters {
		want, err := json.Marshal(f.Value)
		if err != nil {
			return false
		}
		equal := bytes.Equal(bytes.TrimSpace(fields[f.Field]), want)
		if (f.Op == OpEqual) != equal {
			return false
		}
	}
	return true
}

// compareRaw orders numbers numerically and falls back to text otherwise
func compareRaw(a, b json.RawMessage) int {
	var na, nb float64
	if json.Unmarshal(a, &na) == nil && json.Unmarshal(b, &nb) == nil {
		return cmp.Compare(na, nb)
	}
	var sa, sb string
	if json.Unmarshal(a, &sa) == nil && json.Unmarshal(b, &sb) == nil {
		return cmp.Compare(sa, sb)
	}
	return bytes.Compare(a, b)
}
