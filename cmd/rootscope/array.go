package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/gc"
	"github.com/funvibe/rootscope/internal/stdlib"
)

// literal turns a command-line word into a value: integers, floats,
// true/false/nil, and anything else as a string.
func literal(heap *gc.Heap, s string) gc.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return gc.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return gc.Float(f)
	}
	switch s {
	case "true", "false":
		return gc.Bool(s == "true")
	case "nil":
		return gc.Nil
	}
	return heap.NewString(s)
}

// cmdArray applies one array method on a heap built from the gc section of
// the configuration. Items are comma separated.
func cmdArray(cfg *config.Config, args []string) {
	if len(args) < 2 {
		usageExit()
	}
	heap := gc.NewHeap(cfg.GC)
	rt := stdlib.NewRuntime(heap)
	defer rt.Close()

	recv := heap.NewArray(0).Value()
	rt.SetGlobal(0, recv)
	if args[1] != "" {
		for _, item := range strings.Split(args[1], ",") {
			recv.Array().Push(literal(heap, item))
		}
	}
	margs := make([]gc.Value, len(args)-2)
	for i, a := range args[2:] {
		margs[i] = literal(heap, a)
		rt.SetGlobal(i+1, margs[i])
	}

	result, err := rt.CallMethod(recv, args[0], margs, nil)
	if err != nil {
		fatal("%s", err)
	}
	fmt.Println(stdlib.Format(result))
	if stats := heap.Stats(); stats != nil {
		fmt.Println(colorize("2", fmt.Sprintf("%d collection(s), %d live, last swept %d", heap.Collections(), stats.Live, stats.Swept)))
	}
}
