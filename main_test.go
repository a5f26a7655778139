package sqli

import (
	"errors"
	"reflect"
	"testing"
)

type (
	B  = testing.B
	T  = testing.T
	TB = testing.TB
)

type list = []any

func eq(t TB, expected interface{}, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected:\n%#v\nactual:\n%#v", expected, actual)
	}
}

func panics(t TB, target error, fun func()) {
	t.Helper()
	err := Catch(fun)
	if err == nil {
		t.Fatalf(`expected a panic matching %v, got none`, target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected a panic matching:\n%v\ngot:\n%v", target, err)
	}
}

func paramsOf(vals ...any) (out Params) {
	for ind := 0; ind < len(vals); ind += 2 {
		out.Add(vals[ind].(string), vals[ind+1])
	}
	return
}

func withPrefix(t TB, prefix string) {
	prev := ParamPrefix
	ParamPrefix = prefix
	t.Cleanup(func() { ParamPrefix = prev })
}
