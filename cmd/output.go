package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/s0up4200/listonce/listonce"
)

// Printer renders API results as indented JSON or a console tree.
type Printer struct {
	w    io.Writer
	json bool
}

// NewPrinter returns a Printer for format "json" or "console".
func NewPrinter(w io.Writer, format string) *Printer {
	return &Printer{w: w, json: strings.EqualFold(format, "json")}
}

// Entity prints a single entity.
func (p *Printer) Entity(e *listonce.Entity) error {
	if p.json {
		return p.encode(e)
	}
	fmt.Fprintf(p.w, "%s\n", e.DataType())
	fmt.Fprintln(p.w, strings.Repeat("━", 60))
	p.tree(e.Value(), 0)
	return nil
}

// Entities prints a list of entities with an optional pagination summary.
func (p *Printer) Entities(dataType string, entities []*listonce.Entity, page *listonce.Pagination) error {
	if p.json {
		out := map[string]any{
			"data_type": dataType,
			"count":     len(entities),
			"entities":  entities,
		}
		if page != nil {
			out["pagination"] = page
		}
		return p.encode(out)
	}

	if len(entities) == 0 {
		fmt.Fprintf(p.w, "No %s results found.\n", strings.ToLower(dataType))
		return nil
	}

	fmt.Fprintf(p.w, "\nFound %d %s", len(entities), plural(strings.ToLower(dataType), len(entities)))
	if page != nil {
		fmt.Fprintf(p.w, " (page %d of %d, %d total)", page.CurrentPage, page.TotalPages, page.TotalEntities)
	}
	fmt.Fprintln(p.w, ":")
	fmt.Fprintln(p.w, strings.Repeat("-", 80))

	for i, e := range entities {
		fmt.Fprintf(p.w, "• #%d %s\n", i+1, summary(e))
		p.tree(e.Value(), 1)
	}
	return nil
}

// Collection prints every entity of c.
func (p *Printer) Collection(c *listonce.Collection) error {
	entities, err := c.Entities()
	if err != nil {
		return err
	}
	var page *listonce.Pagination
	if c.HasPagination() {
		pg, err := c.Pagination()
		if err != nil {
			return err
		}
		page = &pg
	}
	return p.Entities(c.DataType(), entities, page)
}

// Response prints a merged envelope response.
func (p *Printer) Response(r *listonce.Response) error {
	if p.json {
		return p.encode(r)
	}
	fmt.Fprintf(p.w, "\n%d %s (page %d of %d, %d total)\n",
		r.Len(), plural(r.DataType(), r.Len()), r.CurrentPage(), r.TotalPages(), r.TotalObjects())
	fmt.Fprintln(p.w, strings.Repeat("-", 80))
	for i, v := range r.All() {
		fmt.Fprintf(p.w, "• #%d\n", i+1)
		p.tree(v, 1)
	}
	return nil
}

// Value prints a raw decoded payload.
func (p *Printer) Value(v any) error {
	if p.json {
		return p.encode(v)
	}
	p.tree(v, 0)
	return nil
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) tree(v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := v.(type) {
	case *listonce.Object:
		for _, key := range t.Keys() {
			child, _ := t.Get(key)
			if isScalar(child) {
				fmt.Fprintf(p.w, "%s%s: %s\n", indent, key, scalar(child))
				continue
			}
			fmt.Fprintf(p.w, "%s%s:\n", indent, key)
			p.tree(child, depth+1)
		}
	case []any:
		if len(t) == 0 {
			fmt.Fprintf(p.w, "%s(none)\n", indent)
		}
		for _, item := range t {
			if isScalar(item) {
				fmt.Fprintf(p.w, "%s- %s\n", indent, scalar(item))
				continue
			}
			fmt.Fprintf(p.w, "%s-\n", indent)
			p.tree(item, depth+1)
		}
	default:
		fmt.Fprintf(p.w, "%s%s\n", indent, scalar(t))
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case *listonce.Object, []any:
		return false
	default:
		return true
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// summaryFields are tried in order for an entity's one-line heading.
var summaryFields = []string{"headline", "title", "name", "display_address", "address", "suburb"}

func summary(e *listonce.Entity) string {
	parts := []string{e.DataType()}
	if id, err := e.String("id"); err == nil && id != "" {
		parts = append(parts, "["+id+"]")
	}
	for _, field := range summaryFields {
		if s, err := e.String(field); err == nil && s != "" {
			parts = append(parts, s)
			break
		}
	}
	return strings.Join(parts, " ")
}

func plural(word string, n int) string {
	if n == 1 || strings.HasSuffix(word, "s") {
		return word
	}
	return word + "s"
}
