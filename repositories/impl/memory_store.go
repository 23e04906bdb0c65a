package impl

import (
	"HaloBackend/repositories"
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryDoc struct {
	seq  int64
	data map[string]interface{}
}

// MemoryStore is an in-process RecordStore. It backs tests and STORE_DRIVER=memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	seq         int64
	clock       *repositories.MonotonicClock
}

func NewMemoryStore(clock *repositories.MonotonicClock) *MemoryStore {
	if clock == nil {
		clock = repositories.NewMonotonicClock(nil)
	}
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryDoc),
		clock:       clock,
	}
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("memory store: empty document id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]*memoryDoc)
		s.collections[collection] = docs
	}
	s.seq++
	docs[id] = &memoryDoc{
		seq:  s.seq,
		data: copyMap(s.clock.ResolveTimestamps(collection, data)),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (repositories.Document, error) {
	if err := ctx.Err(); err != nil {
		return repositories.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return repositories.Document{}, repositories.ErrNotFound
	}
	return repositories.Document{ID: id, Data: copyMap(doc.data)}, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q repositories.Query) ([]repositories.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type hit struct {
		id  string
		doc *memoryDoc
	}
	var hits []hit
	for id, doc := range s.collections[collection] {
		if !matchesAll(doc.data, q.Filters) {
			continue
		}
		if q.OrderBy != "" {
			if _, ok := doc.data[q.OrderBy]; !ok {
				continue
			}
		}
		hits = append(hits, hit{id: id, doc: doc})
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i].doc, hits[j].doc
		if q.OrderBy != "" {
			if c, ok := compareValues(a.data[q.OrderBy], b.data[q.OrderBy]); ok && c != 0 {
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

	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]repositories.Document, 0, len(hits))
	for _, h := range hits {
		out = append(out, repositories.Document{ID: h.id, Data: copyMap(h.doc.data)})
	}
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return repositories.ErrNotFound
	}
	for k, v := range s.clock.ResolveTimestamps(collection, fields) {
		doc.data[k] = copyValue(v)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of documents in collection.
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func matchesAll(data map[string]interface{}, filters []repositories.Filter) bool {
	for _, f := range filters {
		if !matches(data, f) {
			return false
		}
	}
	return true
}

func matches(data map[string]interface{}, f repositories.Filter) bool {
	v, ok := data[f.Field]
	if !ok {
		return false
	}
	switch f.Op {
	case repositories.OpEqual:
		return valuesEqual(v, f.Value)
	case repositories.OpGreaterOrEqual:
		c, ok := compareValues(v, f.Value)
		return ok && c >= 0
	case repositories.OpIn:
		for _, candidate := range inValues(f.Value) {
			if valuesEqual(v, candidate) {
				return true
			}
		}
	}
	return false
}

func inValues(v interface{}) []interface{} {
	switch list := v.(type) {
	case []interface{}:
		return list
	case []string:
		out := make([]interface{}, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	}
	return nil
}

func valuesEqual(a, b interface{}) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of the same kind: times, numbers, strings or bools.
func compareValues(a, b interface{}) (int, bool) {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return compareOrdered(fa, fb), true
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return compareOrdered(sa, sb), true
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ba == bb:
			return 0, true
		case !ba:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func compareOrdered[T float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
