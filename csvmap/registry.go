package csvmap

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry caches one ColumnMap per concrete record type. Create one with
// NewRegistry; the zero Registry has no maps and is not usable. A
// Registry is safe for concurrent use: a
// singleflight.Group collapses concurrent first-builds of the same type
// into one build, matching spec.md §4.4's "thread-safe lazy insertion".
type Registry struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*ColumnMap
	sf    singleflight.Group

	tagName   string
	overrides map[reflect.Type]map[uintptr]*fieldOverride
}

// NewRegistry returns an empty, ready-to-use map registry.
func NewRegistry() *Registry {
	return &Registry{
		cache:     make(map[reflect.Type]*ColumnMap),
		overrides: make(map[reflect.Type]map[uintptr]*fieldOverride),
	}
}

// SetTagName changes the struct tag key attribute discovery reads,
// mirroring burungbangkai-go-csv-serde's WithTagName option. Must be
// called before the first GetOrCreate for any type.
func (r *Registry) SetTagName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tagName = name
}

// GetOrCreate returns the cached ColumnMap for t (which must be a struct
// or pointer-to-struct type), building it from struct tags on first use.
func (r *Registry) GetOrCreate(t reflect.Type) (*ColumnMap, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("csvmap: %s is not a struct type", t)
	}

	r.mu.RLock()
	cm, ok := r.cache[t]
	r.mu.RUnlock()
	if ok {
		return cm, nil
	}

	// Key by the type's identity, not its name: distinct types (e.g. two
	// function-local "record" types) can share the same String().
	v, err, _ := r.sf.Do(fmt.Sprintf("%p", t), func() (any, error) {
		r.mu.RLock()
		if cm, ok := r.cache[t]; ok {
			r.mu.RUnlock()
			return cm, nil
		}
		tagName := r.tagName
		r.mu.RUnlock()

		mappings := buildFromTags(t, tagName)

		r.mu.RLock()
		overrides := r.overrides[t]
		r.mu.RUnlock()
		mappings = applyOverrides(mappings, overrides)

		built := &ColumnMap{Mappings: mappings}

		r.mu.Lock()
		r.cache[t] = built
		r.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ColumnMap), nil
}

// Register applies fluent overrides for T, taking effect the next time
// GetOrCreate builds T's ColumnMap (or immediately invalidating an
// already-cached one, so Register can be called at any point before the
// map is actually used).
func Register[T any](r *Registry, configure func(*Builder[T])) {
	b := newBuilder[T]()
	configure(b)

	t := b.typ
	r.mu.Lock()
	r.overrides[t] = b.byField
	delete(r.cache, t)
	r.mu.Unlock()
}
