// Package filter selects collection entities with expr-lang expressions.
//
// Every field of an entity is available as a variable, so a filter such as
//
//	num(price) < 800000 and contains(suburb, "bondi") and has("inspection_times")
//
// keeps the listings under the price in Bondi that have inspections.
package filter

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/listonce/cache"
	"github.com/s0up4200/listonce/listonce"
)

// DefaultCacheSize is the number of compiled programs kept by NewCompiler.
const DefaultCacheSize = 100

// Filter decides whether an entity matches.
type Filter interface {
	// Evaluate reports whether e matches the filter
	Evaluate(e *listonce.Entity) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Program is a compiled filter expression. It is safe for concurrent use.
type Program struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the number of compiled programs kept. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		c.cacheSize = size
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler compiles expressions into Programs.
type Compiler struct {
	helpers   map[string]any
	cacheSize int
	cache     *cache.LRU[*Program]
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helpers:   createHelperFunctions(),
		cacheSize: DefaultCacheSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cacheSize > 0 {
		c.cache = cache.NewLRU[*Program](c.cacheSize)
	}
	return c
}

var defaultCompiler = NewCompiler()

// Compile compiles expression with the default compiler.
func Compile(expression string) (*Program, error) {
	return defaultCompiler.Compile(expression)
}

// Compile compiles an expression into an executable filter
func (c *Compiler) Compile(expression string) (*Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(compileEnvironment(c.helpers)),
		expr.AllowUndefinedVariables(), // entity fields are only known at run time
		expr.AsBool(),
	)
	if err != nil {
		position := -1
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			position = fileErr.Column
		}
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   position,
			Err:        err,
		}
	}

	p := &Program{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
	}
	if c.cache != nil {
		c.cache.Put(expression, p)
	}
	return p, nil
}

// Clear removes all cached programs
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached programs
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate runs the program against e.
func (p *Program) Evaluate(e *listonce.Entity) (bool, error) {
	result, err := expr.Run(p.program, runtimeEnvironment(p.helpers, e))
	if err != nil {
		return false, err
	}
	// undefined variables can still yield nil at run time
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression returned %T, want bool", result)
	}
	return b, nil
}

// Match is Evaluate with runtime errors treated as a non-match.
func (p *Program) Match(e *listonce.Entity) bool {
	ok, err := p.Evaluate(e)
	return err == nil && ok
}

// Expression returns the original expression
func (p *Program) Expression() string {
	return p.expression
}

// String implements fmt.Stringer
func (p *Program) String() string {
	return p.expression
}

// createHelperFunctions creates the static helper functions
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// String helpers
	funcs["contains"] = func(v any, substr string) bool {
		return strings.Contains(strings.ToLower(toString(v)), strings.ToLower(substr))
	}
	funcs["startsWith"] = func(v any, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(toString(v)), strings.ToLower(prefix))
	}
	funcs["endsWith"] = func(v any, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(toString(v)), strings.ToLower(suffix))
	}
	funcs["lower"] = func(v any) string { return strings.ToLower(toString(v)) }
	funcs["upper"] = func(v any) string { return strings.ToUpper(toString(v)) }
	funcs["str"] = toString

	// Numeric helpers. The API often sends numbers as strings.
	funcs["num"] = toFloat

	// Date helpers
	funcs["parseDate"] = parseDate
	funcs["daysSince"] = func(v any) int {
		t := parseDate(v)
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["now"] = time.Now

	return funcs
}

// compileEnvironment adds typed placeholders for the per-entity helpers.
func compileEnvironment(helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+4)
	maps.Copy(env, helpers)
	env["has"] = func(string) bool { return false }
	env["field"] = func(string) any { return nil }
	env["Fields"] = map[string]any{}
	env["DataType"] = ""
	return env
}

// runtimeEnvironment exposes the entity's fields as top-level variables.
// Helpers win over fields of the same name; those stay reachable via Fields.
func runtimeEnvironment(helpers map[string]any, e *listonce.Entity) map[string]any {
	fields := map[string]any{}
	if obj, ok := e.Value().(*listonce.Object); ok {
		fields = obj.ToMap()
	}

	env := make(map[string]any, len(fields)+len(helpers)+4)
	maps.Copy(env, fields)
	maps.Copy(env, helpers)

	env["has"] = e.Has
	env["field"] = func(name string) any {
		return fields[name]
	}
	env["Fields"] = fields
	env["DataType"] = e.DataType()
	return env
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		s = strings.TrimPrefix(s, "$")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	s := strings.TrimSpace(toString(v))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
