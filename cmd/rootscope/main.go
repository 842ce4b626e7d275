package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/rootscope/internal/checkpoint"
	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/frontend"
	"github.com/funvibe/rootscope/internal/logging"
	"github.com/funvibe/rootscope/internal/modules"
	"github.com/funvibe/rootscope/internal/pipeline"
	"github.com/funvibe/rootscope/internal/utils"
)

const usage = `Usage:
  %[1]s resolve <file>                  print how every use resolves
  %[1]s complete <file> <prefix> [n]    list public names starting with prefix
  %[1]s layout <file>                   print the encoded function layouts
  %[1]s checkpoint <file>               resolve and save the unit's counters
  %[1]s resume <unit-id> <file>         resolve continuing a saved unit's numbering
  %[1]s history <unit-id>               list a unit's checkpoints
  %[1]s array <method> <a,b,...> [args]  apply an array method on a heap tuned by the gc config
`

var useColor bool

func colorize(code, s string) string {
	if !useColor {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func detectColor() bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func usageExit() {
	fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]))
	os.Exit(2)
}

// session resolves file with imports loaded from its directory. A non-nil
// loader resolves file in that loader's unit instead.
func session(cfg *config.Config, file string, loader *modules.Loader) *pipeline.PipelineContext {
	source, err := os.ReadFile(file)
	if err != nil {
		fatal("%s", err)
	}
	ctx := pipeline.NewPipelineContext(file, source)
	ctx.Builtins = cfg.Resolver.Builtins
	ctx.Loader = loader
	ctx = pipeline.Default().Run(ctx)
	if ctx.Failed() {
		for _, err := range ctx.Errors {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	return ctx
}

func printReferences(res *frontend.Result) {
	for _, ref := range res.References {
		var where string
		switch {
		case !ref.Found:
			where = colorize("31", "unresolved")
		case ref.Global:
			where = fmt.Sprintf("global %d", ref.Slot)
		case ref.Capture >= 0:
			where = colorize("36", fmt.Sprintf("capture %d", ref.Capture))
		default:
			where = fmt.Sprintf("local %d", ref.Slot)
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", ref.Line, ref.Function, ref.Name, where)
	}
}

func printLayouts(res *frontend.Result) {
	for _, l := range res.Layouts {
		fmt.Printf("%s frame=%d\n", colorize("1", l.Name), l.FrameSize)
		for i, c := range l.Captures {
			fmt.Printf("  [%d] %s symbol=%d slot=%d parent=%d\n", i, c.Name, c.SymbolID, c.Slot, c.ParentIndex)
		}
	}
}

func cmdResolve(cfg *config.Config, args []string) {
	if len(args) != 1 {
		usageExit()
	}
	res := session(cfg, args[0], nil).Result
	printReferences(res)
	if n := len(res.Unresolved()); n > 0 {
		fatal("%d unresolved name(s)", n)
	}
}

func cmdComplete(cfg *config.Config, args []string) {
	if len(args) < 2 || len(args) > 3 {
		usageExit()
	}
	limit := cfg.Resolver.CompletionLimit
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 0 {
			fatal("invalid limit %q", args[2])
		}
		limit = n
	}
	ctx := session(cfg, args[0], nil)
	scope, prefix := ctx.Result.Module.Scope, args[1]
	if i := strings.LastIndexByte(prefix, '.'); i >= 0 {
		mod, err := ctx.Loader.Get(prefix[:i])
		if err != nil {
			fatal("%s", err)
		}
		scope, prefix = mod.Scope, prefix[i+1:]
	}
	for name := range scope.Completions(prefix, limit).All() {
		fmt.Println(name)
	}
}

func cmdLayout(cfg *config.Config, args []string) {
	if len(args) != 1 {
		usageExit()
	}
	ctx := session(cfg, args[0], nil)
	printLayouts(ctx.Result)
	fmt.Println(hex.EncodeToString(ctx.Encoded))
}

func openStore(ctx context.Context, cfg *config.Config) *checkpoint.Store {
	store, err := checkpoint.Open(ctx, cfg.Checkpoint.Path)
	if err != nil {
		fatal("%s", err)
	}
	return store
}

func parseUnit(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		fatal("invalid unit id %q: %s", s, err)
	}
	return id
}

func cmdCheckpoint(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) != 1 {
		usageExit()
	}
	store := openStore(ctx, cfg)
	defer store.Close()

	loader := session(cfg, args[0], nil).Loader
	snap, err := store.Save(ctx, loader.Root.Unit().Snapshot())
	if err != nil {
		fatal("%s", err)
	}
	fmt.Printf("unit %s checkpoint %d: %d symbols, %d globals\n", snap.UnitID, snap.ID, snap.Symbols, snap.Globals)
}

func cmdResume(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) != 2 {
		usageExit()
	}
	unitID := parseUnit(args[0])
	store := openStore(ctx, cfg)
	defer store.Close()

	loader := frontend.NewSession(utils.GetModuleDir(args[1]), cfg.Resolver.Builtins...)
	if _, err := store.Resume(ctx, loader.Root.Unit(), unitID); err != nil {
		fatal("%s", err)
	}
	printReferences(session(cfg, args[1], loader).Result)
	if _, err := store.Save(ctx, loader.Root.Unit().Snapshot()); err != nil {
		fatal("%s", err)
	}
}

func cmdHistory(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) != 1 {
		usageExit()
	}
	store := openStore(ctx, cfg)
	defer store.Close()

	history, err := store.History(ctx, parseUnit(args[0]))
	if err != nil {
		fatal("%s", err)
	}
	for _, snap := range history {
		fmt.Printf("%d\t%s\t%d symbols\t%d globals\n", snap.ID, snap.Created.Format("2006-01-02 15:04:05"), snap.Symbols, snap.Globals)
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		usageExit()
	}

	cwd, err := os.Getwd()
	if err != nil {
		fatal("%s", err)
	}
	cfg, err := config.LoadNearest(cwd)
	if err != nil {
		fatal("%s", err)
	}
	logging.Configure(cfg.Log)
	useColor = detectColor()

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "resolve":
		cmdResolve(cfg, args)
	case "complete":
		cmdComplete(cfg, args)
	case "layout":
		cmdLayout(cfg, args)
	case "checkpoint":
		cmdCheckpoint(ctx, cfg, args)
	case "resume":
		cmdResume(ctx, cfg, args)
	case "history":
		cmdHistory(ctx, cfg, args)
	case "array":
		cmdArray(cfg, args)
	case "-help", "--help", "help":
		fmt.Printf(usage, filepath.Base(os.Args[0]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usageExit()
	}
}
