package mapper

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"expression-mapper/expr"
	"expression-mapper/primitive"
)

// Option configures a synthesis.
type Option func(*config)

type config struct {
	template     *expr.Lambda
	exclusions   map[string]struct{}
	faultIsolate bool
	templateOnly bool
	conversions  primitive.CategoryEnum
	logger       *slog.Logger
}

func newConfig(opts []Option) *config {
	c := &config{
		exclusions:  make(map[string]struct{}),
		conversions: primitive.CategoryAll,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// WithTemplate supplies a partial mapping to complete. Its body must be a
// constructor call (expr.New) or a constructor call with bindings
// (expr.MemberInit); its parameter becomes the parameter of the result.
func WithTemplate(template *expr.Lambda) Option {
	return func(c *config) {
		c.template = template
	}
}

// WithExclusions skips destination fields by name, dropping template
// bindings for them as well. Repeated options accumulate.
func WithExclusions(names ...string) Option {
	return func(c *config) {
		for _, name := range names {
			c.exclusions[name] = struct{}{}
		}
	}
}

// WithFaultIsolation guards every synthesized binding so that a runtime
// failure is reported as an *expr.FieldFault naming the destination field.
func WithFaultIsolation() Option {
	return func(c *config) {
		c.faultIsolate = true
	}
}

// TemplateOnly returns the template unchanged instead of completing it.
func TemplateOnly() Option {
	return func(c *config) {
		c.templateOnly = true
	}
}

// WithConversions limits the numeric conversion categories used by
// synthesized bindings. The default allows every category.
func WithConversions(allowed primitive.CategoryEnum) Option {
	return func(c *config) {
		c.conversions = allowed
	}
}

// WithLogger sets the logger receiving per-field debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func (c *config) excluded(name string) bool {
	_, ok := c.exclusions[name]
	return ok
}

func (c *config) sortedExclusions() []string {
	names := make([]string, 0, len(c.exclusions))
	for name := range c.exclusions {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// key identifies the configuration for caching, apart from the template
// which cacheKey holds by pointer.
func (c *config) key() string {
	return fmt.Sprintf("%s|%t|%t|%d",
		strings.Join(c.sortedExclusions(), ","), c.faultIsolate, c.templateOnly, c.conversions)
}
