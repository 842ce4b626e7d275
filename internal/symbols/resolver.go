package symbols

import "fmt"

// UnbalancedScopeError is raised (via panic) when the front end exits more
// scopes than it entered.
type UnbalancedScopeError struct {
	Depth int
}

func (e *UnbalancedScopeError) Error() string {
	return fmt.Sprintf("scope exit at depth %d: no scope to leave", e.Depth)
}

// Resolver consumes the front end's depth-first stream of
// enter/exit/declare/lookup calls and keeps the current scope.
type Resolver struct {
	unit    *Unit
	base    *Scope
	current *Scope
	depth   int
	layouts []FunctionLayout
}

// NewResolver starts a resolver whose outermost working scope is base.
func NewResolver(base *Scope) *Resolver {
	return &Resolver{
		unit:    base.unit,
		base:    base,
		current: base,
	}
}

// Unit returns the compilation unit being resolved.
func (r *Resolver) Unit() *Unit {
	return r.unit
}

// Current returns the innermost open scope.
func (r *Resolver) Current() *Scope {
	return r.current
}

// Depth returns the number of scopes entered and not yet exited.
func (r *Resolver) Depth() int {
	return r.depth
}

// EnterBlock opens a block scope inside the current function.
func (r *Resolver) EnterBlock() *Scope {
	r.current = r.unit.NewScope(r.current, false)
	r.depth++
	return r.current
}

// EnterFunction opens a new function boundary.
func (r *Resolver) EnterFunction(name string) *Scope {
	r.current = r.unit.NewFunction(r.current, name)
	r.depth++
	return r.current
}

// Exit closes the current scope. Leaving a function seals it and records
// its final layout.
func (r *Resolver) Exit() *Scope {
	if r.depth == 0 {
		panic(&UnbalancedScopeError{Depth: r.depth})
	}
	closed := r.current
	if closed.IsFunction {
		closed.Seal()
		r.layouts = append(r.layouts, closed.Layout())
	}
	r.current = closed.Parent
	r.depth--
	return closed
}

// Declare declares name in the current scope.
func (r *Resolver) Declare(name string) *Symbol {
	return r.current.Declare(name)
}

// DeclarePublic declares an exported name in the current scope.
func (r *Resolver) DeclarePublic(name string) *Symbol {
	return r.current.DeclarePublic(name)
}

// DeclareConstant declares an immutable name in the current scope.
func (r *Resolver) DeclareConstant(name string) *Symbol {
	return r.current.DeclareConstant(name)
}

// Lookup resolves a use of name from the current scope.
func (r *Resolver) Lookup(name string) (*Symbol, bool) {
	return r.current.Lookup(name)
}

// Reference resolves a use of name and returns the symbol as seen from the
// current function (a captured view when the use crosses functions).
func (r *Resolver) Reference(name string) (*Symbol, bool) {
	res, ok := r.current.Resolve(name)
	if !ok {
		return nil, false
	}
	if err := res.Apply(); err != nil {
		panic(err)
	}
	return res.Local(), true
}

// Layouts returns the layouts of every function closed so far, in closing order.
func (r *Resolver) Layouts() []FunctionLayout {
	return r.layouts
}
