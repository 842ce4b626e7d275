package stdlib

import (
	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/gc"
)

var dictMethods = map[string]method{
	config.PutMethod:    dictPut,
	config.GetMethod:    dictGet,
	config.KeysMethod:   dictKeys,
	config.ValuesMethod: dictValues,
	config.LengthMethod: dictLength,
}

func dictPut(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.PutMethod, args, 2); err != nil {
		return gc.Nil, err
	}
	self.Dict().Put(args[0], args[1])
	return args[1], nil
}

func dictGet(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.GetMethod, args, 1, 2); err != nil {
		return gc.Nil, err
	}
	if v, ok := self.Dict().Get(args[0]); ok {
		return v, nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return gc.Nil, nil
}

func dictKeys(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.KeysMethod, args, 0); err != nil {
		return gc.Nil, err
	}
	d := self.Dict()
	keys := rt.heap.NewArray(d.Len())
	for _, e := range d.Entries() {
		keys.Push(e.Key)
	}
	return keys.Value(), nil
}

func dictValues(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.ValuesMethod, args, 0); err != nil {
		return gc.Nil, err
	}
	d := self.Dict()
	values := rt.heap.NewArray(d.Len())
	for _, e := range d.Entries() {
		values.Push(e.Value)
	}
	return values.Value(), nil
}

func dictLength(rt *Runtime, self gc.Value, args []gc.Value, _ Kwargs) (gc.Value, error) {
	if err := expectArgs(config.LengthMethod, args, 0); err != nil {
		return gc.Nil, err
	}
	return gc.Int(int64(self.Dict().Len())), nil
}
