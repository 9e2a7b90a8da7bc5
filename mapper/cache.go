package mapper

import (
	"fmt"
	"reflect"
	"sync"

	"expression-mapper/expr"
)

// Cache memoizes synthesized and compiled mappings per configuration:
// source and destination types, template identity, exclusions, fault
// isolation, template-only mode and allowed conversions. Failures are not
// cached. Entries keep their template reachable until Reset. A Cache is
// safe for concurrent use.
type Cache struct {
	entries sync.Map // cacheKey -> *Compiled
}

// Compiled is a synthesized mapping together with its compiled closure.
type Compiled struct {
	Lambda *expr.Lambda
	Func   expr.Func
}

// cacheKey holds the template itself so that its address cannot be reused
// by another template while the entry exists.
type cacheKey struct {
	source, dest reflect.Type
	template     *expr.Lambda
	config       string
}

var defaultCache = NewCache()

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the compiled mapping for the configuration, synthesizing and
// compiling it on first use.
func (c *Cache) Get(source, dest reflect.Type, opts ...Option) (*Compiled, error) {
	cfg := newConfig(opts)
	key := cacheKey{source: source, dest: dest, template: cfg.template, config: cfg.key()}

	if cached, ok := c.entries.Load(key); ok {
		return cached.(*Compiled), nil
	}

	l, err := synthesize(source, dest, cfg, nil)
	if err != nil {
		return nil, err
	}

	if l.Param().Type() != source || l.Body().Type() != dest {
		return nil, fmt.Errorf("%w: %s, want func(%s) %s", ErrTypeMismatch, l.Type(), source, dest)
	}

	fn, err := l.Compile()
	if err != nil {
		return nil, err
	}

	actual, _ := c.entries.LoadOrStore(key, &Compiled{Lambda: l, Func: fn})

	return actual.(*Compiled), nil
}

// Len returns the number of cached mappings.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(any, any) bool {
		n++
		return true
	})

	return n
}

// Reset drops every cached mapping.
func (c *Cache) Reset() {
	c.entries.Clear()
}
