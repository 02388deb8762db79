package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"pet-services/internal/ports/docstore"

	"go.mongodb.org/mongo-driver/bson"
)

// Store es un document store en memoria. Guarda cada documento como bson.M,
// así los filtros y updates se comportan igual que en Mongo (nombres de campo bson).
type Store struct {
	mu    sync.RWMutex
	colls map[string]*table
}

type table struct {
	byID  map[string]bson.M
	order []string // orden de inserción, para listados estables
}

func NewStore() *Store {
	return &Store{colls: make(map[string]*table)}
}

func (s *Store) table(name string) *table {
	t, ok := s.colls[name]
	if !ok {
		t = &table{byID: make(map[string]bson.M)}
		s.colls[name] = t
	}
	return t
}

// lookup no crea la tabla; se usa bajo RLock.
func (s *Store) lookup(name string) *table {
	if t, ok := s.colls[name]; ok {
		return t
	}
	return &table{byID: map[string]bson.M{}}
}

type collection[T any] struct {
	store *Store
	name  string
}

// NewCollection abre (o crea) la colección name dentro del store.
func NewCollection[T any](s *Store, name string) docstore.Collection[T] {
	return &collection[T]{store: s, name: name}
}

func (c *collection[T]) Insert(ctx context.Context, id string, doc T) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	m["_id"] = id

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	t := c.store.table(c.name)
	if _, exists := t.byID[id]; exists {
		return docstore.ErrDuplicate
	}
	t.byID[id] = m
	t.order = append(t.order, id)
	return nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	c.store.mu.RLock()
	m, ok := c.store.lookup(c.name).byID[id]
	c.store.mu.RUnlock()
	if !ok {
		return zero, docstore.ErrNotFound
	}
	return fromDoc[T](m)
}

func (c *collection[T]) Find(ctx context.Context, f docstore.Filter, opts docstore.FindOptions) ([]T, error) {
	want, err := normalize(bson.M(f))
	if err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	t := c.store.lookup(c.name)
	matched := make([]bson.M, 0)
	for _, id := range t.order {
		m := t.byID[id]
		if matches(m, want) {
			matched = append(matched, m)
		}
	}
	c.store.mu.RUnlock()

	if opts.Sort != "" {
		key := opts.Sort
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i][key], matched[j][key])
			if opts.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]T, 0, len(matched))
	for _, m := range matched {
		v, err := fromDoc[T](m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *collection[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	want, err := normalize(bson.M(f))
	if err != nil {
		return 0, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var n int64
	for _, m := range c.store.lookup(c.name).byID {
		if matches(m, want) {
			n++
		}
	}
	return n, nil
}

func (c *collection[T]) Replace(ctx context.Context, id string, doc T) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	m["_id"] = id

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	t := c.store.table(c.name)
	if _, exists := t.byID[id]; !exists {
		return docstore.ErrNotFound
	}
	t.byID[id] = m
	return nil
}

func (c *collection[T]) Update(ctx context.Context, id string, match docstore.Filter, set docstore.Fields) error {
	want, err := normalize(bson.M(match))
	if err != nil {
		return err
	}
	patch, err := normalize(bson.M(set))
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	m, ok := c.store.table(c.name).byID[id]
	if !ok {
		return docstore.ErrNotFound
	}
	if !matches(m, want) {
		return docstore.ErrConflict
	}
	for k, v := range patch {
		if k == "_id" {
			continue
		}
		m[k] = v
	}
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	t := c.store.table(c.name)
	if _, ok := t.byID[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(t.byID, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromDoc[T any](m bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(m)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}

// normalize pasa los valores por el mismo encoder que los documentos
// para que la comparación sea por tipos bson (int32/int64, DateTime, etc).
func normalize(m bson.M) (bson.M, error) {
	if len(m) == 0 {
		return bson.M{}, nil
	}
	return toDoc(m)
}

func matches(doc, want bson.M) bool {
	for k, v := range want {
		if !equalValues(doc[k], v) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if na, ok := number(a); ok {
		nb, ok := number(b)
		return ok && na == nb
	}
	return reflect.DeepEqual(a, b)
}
