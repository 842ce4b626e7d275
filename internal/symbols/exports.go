package symbols

import "fmt"

// ConflictError reports a public name that both sides of a merge export.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("public name conflict: %s", e.Name)
}

// PublicSymbols returns the public symbols declared directly in s, in bucket order.
func (s *Scope) PublicSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range s.Symbols() {
		if sym.Public {
			out = append(out, sym)
		}
	}
	return out
}

// CopyPublicInto merges the public symbols of src into dst.
//
// Every public symbol of src is checked against dst first; if dst already
// resolves the same name to a public symbol the merge fails with a
// *ConflictError and dst is left untouched. Otherwise each public symbol is
// inserted into dst as a non-public shadow copy, so it is not re-exported
// unless dst declares it public again.
func CopyPublicInto(dst, src *Scope) error {
	public := src.PublicSymbols()

	for _, sym := range public {
		// Resolve, not Lookup: the check must not register captures in dst.
		if res, ok := dst.Resolve(sym.Name); ok && res.Symbol.Public {
			return &ConflictError{Name: res.Symbol.Name}
		}
	}

	// Insert oldest first so that, within a bucket, dst sees the same
	// newest-first order src has.
	for i := len(public) - 1; i >= 0; i-- {
		dst.Insert(public[i])
	}

	return nil
}
