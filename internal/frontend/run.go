package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/modules"
	"github.com/funvibe/rootscope/internal/symbols"
)

// Reference is the resolution of one use of a name.
type Reference struct {
	Name     string
	Line     int
	Found    bool
	Global   bool
	Slot     int
	ID       int
	Function string // Function the use appears in
	Capture  int    // Capture table index, config.NoCaptureIndex when read directly
}

// Result is what running a script produces.
type Result struct {
	Module     *modules.Module
	References []Reference
	Layouts    []symbols.FunctionLayout
}

// Unresolved returns the references whose names were not found.
func (r *Result) Unresolved() []Reference {
	var out []Reference
	for _, ref := range r.References {
		if !ref.Found {
			out = append(out, ref)
		}
	}
	return out
}

type runner struct {
	script *Script
	loader *modules.Loader
	mod    *modules.Module
	r      *symbols.Resolver
	result *Result
}

// Run resolves script as a module of loader's unit and registers it with
// the loader once it resolved without errors. Unknown names are recorded as
// unresolved references, not errors.
func Run(loader *modules.Loader, script *Script) (*Result, error) {
	if script.Module == "" {
		return nil, &ScriptError{Path: script.Path, Msg: "module name is required"}
	}
	mod := modules.NewModule(loader.Root, script.Module)
	run := &runner{
		script: script,
		loader: loader,
		mod:    mod,
		r:      symbols.NewResolver(mod.Scope),
		result: &Result{Module: mod},
	}
	if err := run.body(script.Body); err != nil {
		return nil, err
	}
	run.result.Layouts = run.r.Layouts()
	loader.Register(mod)
	return run.result, nil
}

func (run *runner) fail(st *Statement, err error, format string, args ...interface{}) error {
	return &ScriptError{Path: run.script.Path, Line: st.Line, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (run *runner) body(body []Statement) error {
	for i := range body {
		if err := run.statement(&body[i]); err != nil {
			return err
		}
	}
	return nil
}

func (run *runner) statement(st *Statement) error {
	r := run.r
	switch st.Kind() {
	case "let":
		r.Declare(st.Let)
	case "pub":
		r.DeclarePublic(st.Pub)
		run.mod.AddExport(st.Pub)
	case "const":
		r.DeclareConstant(st.Const)
	case "fn":
		// The name is visible in its own body so the function can recurse.
		r.Declare(st.Fn)
		r.EnterFunction(st.Fn)
		if err := run.body(st.Body); err != nil {
			return err
		}
		r.Exit()
	case "block":
		r.EnterBlock()
		if err := run.body(st.Block); err != nil {
			return err
		}
		r.Exit()
	case "use":
		for _, name := range st.Use {
			run.use(st, name)
		}
	case "import":
		if _, err := run.loader.Import(run.mod, st.Import); err != nil {
			return run.fail(st, err, "import %s", st.Import)
		}
	case "export":
		if _, err := run.mod.Reexport(st.Export); err != nil {
			return run.fail(st, err, "export %s", st.Export)
		}
	default:
		return run.fail(st, nil, "malformed statement")
	}
	return nil
}

func (run *runner) use(st *Statement, name string) {
	fn := run.r.Current().Function.Name
	if fn == "" {
		fn = run.mod.Name
	}
	ref := Reference{Name: name, Line: st.Line, Function: fn, Capture: config.NoCaptureIndex}
	if sym, ok := run.r.Reference(name); ok {
		ref.Found = true
		ref.Global = sym.Global
		ref.Slot = sym.Slot
		ref.ID = sym.ID
		ref.Capture = sym.CaptureIndex
	}
	run.result.References = append(run.result.References, ref)
}

// DirSource loads unknown modules from <dir>/<name>.yaml.
func DirSource(dir string) modules.Source {
	return func(l *modules.Loader, name string) (*modules.Module, error) {
		path := filepath.Join(dir, name+config.ScriptExt)
		script, err := ParseFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &modules.ModuleNotFoundError{Name: name}
			}
			return nil, err
		}
		if script.Module == "" {
			script.Module = name
		}
		if script.Module != name {
			return nil, &ScriptError{Path: path, Msg: fmt.Sprintf("file declares module %s, want %s", script.Module, name)}
		}
		res, err := Run(l, script)
		if err != nil {
			return nil, err
		}
		return res.Module, nil
	}
}

// NewSession returns a loader for a fresh compilation unit whose outermost
// scope holds the given builtin names, loading imports from dir.
func NewSession(dir string, builtins ...string) *modules.Loader {
	u := symbols.NewUnit()
	root := u.NewScope(nil, false)
	for _, name := range builtins {
		root.Declare(name)
	}
	l := modules.NewLoader(root)
	if dir != "" {
		l.Source = DirSource(dir)
	}
	return l
}
