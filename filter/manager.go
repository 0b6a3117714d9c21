package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/listonce/listonce"
)

// Manager holds named filters, typically loaded from the config file.
type Manager struct {
	compiler  *Compiler
	evaluator *Evaluator
	filters   map[string]*Program
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler *Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *Evaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewCompiler(),
		evaluator: NewEvaluator(),
		filters:   make(map[string]*Program),
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	p, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = p
	m.mu.Unlock()
	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is registered
// unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]*Program, len(filters))

	for _, name := range slices.Sorted(maps.Keys(filters)) {
		p, err := m.compiler.Compile(filters[name])
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = p
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()
	return nil
}

// UnregisterFilter removes a filter
func (m *Manager) UnregisterFilter(name string) {
	m.mu.Lock()
	delete(m.filters, name)
	m.mu.Unlock()
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (*Program, bool) {
	m.mu.RLock()
	p, exists := m.filters[name]
	m.mu.RUnlock()
	return p, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the named filter, or compiles expression when no filter
// has that name.
func (m *Manager) Resolve(nameOrExpression string) (Filter, error) {
	if p, ok := m.GetFilter(nameOrExpression); ok {
		return p, nil
	}
	return m.compiler.Compile(nameOrExpression)
}

// Apply evaluates a registered filter against a collection
func (m *Manager) Apply(ctx context.Context, name string, c *listonce.Collection) ([]*listonce.Entity, error) {
	p, exists := m.GetFilter(name)
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrFilterNotFound, name)
	}
	return m.evaluator.Apply(ctx, p, c)
}

// ApplyAll evaluates every registered filter against a collection
func (m *Manager) ApplyAll(ctx context.Context, c *listonce.Collection) (map[string][]*listonce.Entity, error) {
	entities, err := c.Entities()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	filters := maps.Clone(m.filters)
	m.mu.RUnlock()

	results := make(map[string][]*listonce.Entity, len(filters))
	for name, p := range filters {
		matches, err := m.evaluator.Evaluate(ctx, p, entities)
		if err != nil {
			return nil, fmt.Errorf("filter '%s': %w", name, err)
		}
		results[name] = matches
	}
	return results, nil
}
