package cwscript

import (
	"fmt"
	"reflect"

	"github.com/cwscript-lang/cwscript/internal/value"
)

// RegisterFunction exposes a Go function as a global script function
// under name, grounded on a prior implementation's engine.RegisterFunction(name,
// fn) reflection-based binding. fn's parameters and (single, optional
// error-paired) return value are converted via goToValue/valueToGo; a
// trailing error return becomes a thrown script exception rather than
// a second script-visible value.
func (e *Engine) RegisterFunction(name string, fn any) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("cwscript: RegisterFunction(%q): not a function", name)
	}
	rt := rv.Type()

	returnsErr := rt.NumOut() > 0 && rt.Out(rt.NumOut()-1) == reflect.TypeOf((*error)(nil)).Elem()
	native := func(this value.Value, args []value.Value) (value.Value, error) {
		in, err := convertArgs(rt, args)
		if err != nil {
			return nil, fmt.Errorf("cwscript: calling %q: %w", name, err)
		}
		out := rv.Call(in)
		return reduceResults(e.values, out, returnsErr)
	}

	params := make([]value.Param, rt.NumIn())
	for i := range params {
		params[i] = value.Param{Name: fmt.Sprintf("arg%d", i)}
	}
	fv := e.values.NewNativeFunction(name, params, native)
	return e.root.Vars().SetByName(name, fv, 0)
}

// RegisterMethod attaches a Go function as a method on the prototype
// previously declared under protoName (spec 4.6's prototype/class
// model), grounded on a prior implementation's engine.RegisterMethod surface.
func (e *Engine) RegisterMethod(protoName, name string, fn any) error {
	v, ok := e.VarGet(protoName)
	if !ok {
		return fmt.Errorf("cwscript: RegisterMethod: no prototype named %q", protoName)
	}
	ov, ok := v.(*value.ObjectValue)
	if !ok {
		return fmt.Errorf("cwscript: RegisterMethod: %q is not a prototype object", protoName)
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("cwscript: RegisterMethod(%q.%q): not a function", protoName, name)
	}
	rt := rv.Type()
	returnsErr := rt.NumOut() > 0 && rt.Out(rt.NumOut()-1) == reflect.TypeOf((*error)(nil)).Elem()

	native := func(this value.Value, args []value.Value) (value.Value, error) {
		in, err := convertArgs(rt, args)
		if err != nil {
			return nil, fmt.Errorf("cwscript: calling %q.%q: %w", protoName, name, err)
		}
		out := rv.Call(in)
		return reduceResults(e.values, out, returnsErr)
	}

	params := make([]value.Param, rt.NumIn())
	for i := range params {
		params[i] = value.Param{Name: fmt.Sprintf("arg%d", i)}
	}
	method := e.values.NewNativeFunction(name, params, native)
	return ov.Props().SetByName(name, method, 0)
}

func convertArgs(rt reflect.Type, args []value.Value) ([]reflect.Value, error) {
	if len(args) != rt.NumIn() {
		return nil, fmt.Errorf("expected %d arguments, got %d", rt.NumIn(), len(args))
	}
	in := make([]reflect.Value, rt.NumIn())
	for i, a := range args {
		gv, err := valueToGo(a, rt.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = gv
	}
	return in, nil
}

func reduceResults(engine *value.Engine, out []reflect.Value, returnsErr bool) (value.Value, error) {
	if returnsErr {
		if errv := out[len(out)-1].Interface(); errv != nil {
			return nil, errv.(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return value.Undefined(), nil
	}
	return goToValue(engine, out[0])
}

// valueToGo converts a script value into the Go type a registered
// function parameter expects.
func valueToGo(v value.Value, want reflect.Type) (reflect.Value, error) {
	switch want.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, ok := v.(*value.IntValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("want int, got %s", v.Kind())
		}
		rv := reflect.New(want).Elem()
		rv.SetInt(iv.Val())
		return rv, nil
	case reflect.Float32, reflect.Float64:
		switch n := v.(type) {
		case *value.DoubleValue:
			rv := reflect.New(want).Elem()
			rv.SetFloat(n.Val())
			return rv, nil
		case *value.IntValue:
			rv := reflect.New(want).Elem()
			rv.SetFloat(float64(n.Val()))
			return rv, nil
		}
		return reflect.Value{}, fmt.Errorf("want float, got %s", v.Kind())
	case reflect.Bool:
		bv, ok := v.(*value.BoolValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("want bool, got %s", v.Kind())
		}
		return reflect.ValueOf(bv.Val()), nil
	case reflect.String:
		sv, ok := v.(*value.StringValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("want string, got %s", v.Kind())
		}
		return reflect.ValueOf(sv.Val()), nil
	case reflect.Interface:
		if want.NumMethod() == 0 {
			return reflect.ValueOf(v), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", want)
}

// goToValue converts a single Go return value into a script value owned
// by engine.
func goToValue(engine *value.Engine, rv reflect.Value) (value.Value, error) {
	if v, ok := rv.Interface().(value.Value); ok {
		return v, nil
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return engine.NewInt(rv.Int()), nil
	case reflect.Float32, reflect.Float64:
		return engine.NewDouble(rv.Float()), nil
	case reflect.Bool:
		return engine.NewBool(rv.Bool()), nil
	case reflect.String:
		return engine.NewString(rv.String()), nil
	default:
		return nil, fmt.Errorf("unsupported return type %s", rv.Type())
	}
}
