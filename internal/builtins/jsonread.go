// Package builtins holds the host-facing bridges that sit just outside
// the value engine's own scope: the JSON splice/serialize helpers spec
// 1's "JSON input parser" names as an external collaborator the core
// only exposes interfaces to. Nothing here is reachable from script
// code directly; pkg/cwscript wires it into the embedding API.
package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwscript-lang/cwscript/internal/value"
)

// escapePathSegment guards a property name that may itself contain "."
// or "*"/"?" against sjson's path-syntax metacharacters, per sjson's
// own documented escaping convention (a literal "\" before the
// character).
func escapePathSegment(name string) string {
	r := strings.NewReplacer(".", "\\.", "*", "\\*", "?", "\\?")
	return r.Replace(name)
}

// FromJSON splices a JSON document into the value engine, building a
// tree of the engine's own Array/Object/primitive kinds.
func FromJSON(engine *value.Engine, doc string) (value.Value, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("builtins: invalid JSON document")
	}
	return fromGJSON(engine, gjson.Parse(doc)), nil
}

func fromGJSON(engine *value.Engine, r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null()
	case gjson.False:
		return engine.NewBool(false)
	case gjson.True:
		return engine.NewBool(true)
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return engine.NewInt(int64(r.Num))
		}
		return engine.NewDouble(r.Num)
	case gjson.String:
		return engine.NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := make([]value.Value, 0)
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, fromGJSON(engine, v))
				return true
			})
			return engine.NewArray(items)
		}
		obj := engine.NewObject(nil)
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Props().SetByName(k.Str, fromGJSON(engine, v), 0)
			return true
		})
		return obj
	default:
		return value.Undefined()
	}
}

// ToJSON serializes v back out to a JSON document, the reverse of
// FromJSON. Cyclic object/array graphs are rejected rather than
// looping forever, since JSON has no way to represent a cycle.
func ToJSON(v value.Value) (string, error) {
	return toJSON(v, make(map[value.Value]bool))
}

func toJSON(v value.Value, seen map[value.Value]bool) (string, error) {
	if v == nil {
		return "null", nil
	}
	switch v.Kind() {
	case value.KindFunction, value.KindNative, value.KindException, value.KindUnique:
		return "null", nil
	}
	switch val := v.(type) {
	case *value.UndefinedValue, *value.NullValue:
		return "null", nil
	case *value.BoolValue:
		return strconv.FormatBool(val.Val()), nil
	case *value.IntValue:
		return strconv.FormatInt(val.Val(), 10), nil
	case *value.DoubleValue:
		return strconv.FormatFloat(val.Val(), 'g', -1, 64), nil
	case *value.StringValue:
		wrapped, err := sjson.Set("", "v", val.Val())
		if err != nil {
			return "", err
		}
		return gjson.Get(wrapped, "v").Raw, nil
	case *value.ArrayValue:
		if seen[v] {
			return "", fmt.Errorf("builtins: cannot serialize a cyclic array to JSON")
		}
		seen[v] = true
		defer delete(seen, v)
		doc := "[]"
		for i, item := range val.Items() {
			raw, err := toJSON(item, seen)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case value.PropertyHolder:
		if seen[v] {
			return "", fmt.Errorf("builtins: cannot serialize a cyclic object to JSON")
		}
		seen[v] = true
		defer delete(seen, v)
		doc := "{}"
		var err error
		val.Props().Range(func(key, pv value.Value, _ value.PropFlag) bool {
			name := fmt.Sprint(key)
			if sv, ok := key.(*value.StringValue); ok {
				name = sv.Val()
			}
			var raw string
			raw, err = toJSON(pv, seen)
			if err != nil {
				return false
			}
			doc, err = sjson.SetRaw(doc, escapePathSegment(name), raw)
			return err == nil
		})
		if err != nil {
			return "", err
		}
		return doc, nil
	default:
		return "null", nil
	}
}

