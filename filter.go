package xlbind

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type filterKey struct {
	expression string
	typ        reflect.Type
}

var filterCache sync.Map // filterKey → *vm.Program

// compileFilter compiles a boolean expression over the exported fields of
// struct type t. Programs are cached per expression and type.
func compileFilter(expression string, t reflect.Type) (*vm.Program, error) {
	key := filterKey{expression: expression, typ: t}
	if cached, ok := filterCache.Load(key); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(reflect.New(t).Elem().Interface()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	filterCache.Store(key, program)
	return program, nil
}

// matchFilter runs program against a record. record must be a struct value
// of the type the program was compiled for.
func matchFilter(program *vm.Program, record reflect.Value) (bool, error) {
	out, err := expr.Run(program, record.Interface())
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter evaluated to %T, expected bool", out)
	}
	return b, nil
}
