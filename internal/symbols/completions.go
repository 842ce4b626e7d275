package symbols

import (
	"iter"
	"strings"
)

// Completions is a lazy cursor over the public names of one scope that start
// with a prefix. It walks the table in bucket order, yields at most limit
// names and cannot be restarted.
type Completions struct {
	scope  *Scope
	prefix string
	limit  int

	bucket int
	sym    *Symbol
	done   int
}

// Completions starts a completion cursor for prefix over s's local table.
func (s *Scope) Completions(prefix string, limit int) *Completions {
	return &Completions{
		scope:  s,
		prefix: prefix,
		limit:  limit,
		bucket: -1,
	}
}

// Next returns the next matching name.
func (c *Completions) Next() (string, bool) {
	for c.done < c.limit {
		if c.sym != nil {
			c.sym = c.sym.next
		}
		for c.sym == nil {
			c.bucket++
			if c.bucket >= len(c.scope.table) {
				c.limit = c.done
				return "", false
			}
			c.sym = c.scope.table[c.bucket]
		}
		if c.sym.Public && strings.HasPrefix(c.sym.Name, c.prefix) {
			c.done++
			return c.sym.Name, true
		}
	}
	return "", false
}

// All drains the remaining names as an iterator.
func (c *Completions) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			name, ok := c.Next()
			if !ok || !yield(name) {
				return
			}
		}
	}
}

// Collect drains the remaining names into a slice.
func (c *Completions) Collect() []string {
	var out []string
	for name := range c.All() {
		out = append(out, name)
	}
	return out
}
