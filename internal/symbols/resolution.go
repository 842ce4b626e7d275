package symbols

import (
	"fmt"

	"github.com/funvibe/rootscope/internal/config"
)

// CaptureRegistration is one capture-table entry a resolution needs.
type CaptureRegistration struct {
	Function    *Scope
	Symbol      *Symbol
	ParentIndex int  // config.NoParentIndex or an index into the enclosing function's table
	Index       int  // Position of the entry in Function's capture table
	Existing    bool // The entry is already present; applying it is a no-op
}

// Resolution is the outcome of an outward lookup before any state changes.
// Captures are ordered from the function nearest the definition to the
// referencing function.
type Resolution struct {
	Symbol   *Symbol
	Captures []CaptureRegistration
}

// StaleResolutionError is returned by Apply when the scope tree changed
// between Resolve and Apply so the predicted capture indices no longer hold.
type StaleResolutionError struct {
	Function string
	Name     string
	Want     int
	Got      int
}

func (e *StaleResolutionError) Error() string {
	return fmt.Sprintf("stale resolution of %q in function %q: capture index %d, expected %d", e.Name, e.Function, e.Got, e.Want)
}

// Resolve searches the scope chain innermost to outermost and computes the
// capture registrations a reference from s would need, without mutating
// anything.
func (s *Scope) Resolve(name string) (*Resolution, bool) {
	var def *Scope
	var sym *Symbol
	for scope := s; scope != nil; scope = scope.Parent {
		if sym = scope.localLookup(name); sym != nil {
			def = scope
			break
		}
	}
	if sym == nil {
		return nil, false
	}

	res := &Resolution{Symbol: sym}
	if def.Function == s.Function || sym.Global {
		return res, true
	}

	// Function scopes strictly between the definition and the reference,
	// innermost first, including the referencing function.
	var chain []*Scope
	fn := s.Function
	for fn.Parent.Function != sym.Scope.Function {
		chain = append(chain, fn)
		fn = fn.Parent.Function
	}
	chain = append(chain, fn)

	parent := config.NoParentIndex
	for i := len(chain) - 1; i >= 0; i-- {
		reg := CaptureRegistration{
			Function:    chain[i],
			Symbol:      sym,
			ParentIndex: parent,
		}
		if idx, ok := chain[i].CaptureIndexOf(sym); ok {
			reg.Index = idx
			reg.Existing = true
			reg.ParentIndex = chain[i].CapIndices[idx]
		} else {
			reg.Index = len(chain[i].Captured)
		}
		res.Captures = append(res.Captures, reg)
		parent = reg.Index
	}

	return res, true
}

// Apply commits the capture registrations in order.
func (r *Resolution) Apply() error {
	for _, reg := range r.Captures {
		got := reg.Function.Capture(reg.Symbol, reg.ParentIndex)
		if got != reg.Index {
			return &StaleResolutionError{Function: reg.Function.Name, Name: reg.Symbol.Name, Want: reg.Index, Got: got}
		}
	}
	return nil
}

// Local returns the symbol as seen from the referencing function: the
// declaring record itself, or a captured view carrying the capture index of
// the innermost registration.
func (r *Resolution) Local() *Symbol {
	if len(r.Captures) == 0 {
		return r.Symbol
	}
	return r.Symbol.capturedView(r.Captures[len(r.Captures)-1].Index)
}

// Lookup resolves name from s and applies any capture registrations the
// reference requires. A missing name is reported as absence, not an error.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	res, ok := s.Resolve(name)
	if !ok {
		return nil, false
	}
	if err := res.Apply(); err != nil {
		// Resolve and Apply run back to back; a mismatch is a bug here.
		panic(err)
	}
	return res.Symbol, true
}
