package script

import (
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/gamejr/gamejr"
	"github.com/jakecoffman/cp"
)

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		return mapToAny(v.Value)
	case *tengo.ImmutableMap:
		return mapToAny(v.Value)
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

func mapToAny(m map[string]tengo.Object) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = objectToAny(item)
	}
	return out
}

// optsArg returns the option map at args[i], or an empty map.
func optsArg(args []tengo.Object, i int) map[string]any {
	if i < len(args) {
		if m, ok := objectToAny(args[i]).(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

func argFloat(args []tengo.Object, i int) float64 {
	if i >= len(args) {
		return 0
	}
	f, _ := tengo.ToFloat64(args[i])
	return f
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func idObject(a *gamejr.Actor) tengo.Object {
	return &tengo.Int{Value: int64(a.ID())}
}

func vecObject(v cp.Vector) tengo.Object {
	return &tengo.Map{Value: map[string]tengo.Object{
		"x": &tengo.Float{Value: v.X},
		"y": &tengo.Float{Value: v.Y},
	}}
}

// samePath reports whether a and b name the same file after cleaning.
func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
