package cwscript

import (
	"fmt"

	"github.com/cwscript-lang/cwscript/internal/builtins"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// registerBuiltins installs the small set of globals every Engine needs
// regardless of embedder-supplied registrations: output writing and the
// JSON bridge, tied to the engine's configured output sink.
func (e *Engine) registerBuiltins() {
	print := e.values.NewNativeFunction("print", []value.Param{{Name: "values"}}, func(this value.Value, args []value.Value) (value.Value, error) {
		if e.output == nil {
			return value.Undefined(), nil
		}
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(e.output, " ")
			}
			fmt.Fprint(e.output, a.String())
		}
		fmt.Fprintln(e.output)
		return value.Undefined(), nil
	})
	e.root.Vars().SetByName("print", print, 0)

	toJSON := e.values.NewNativeFunction("to_json", []value.Param{{Name: "value"}}, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("to_json expects exactly one argument")
		}
		doc, err := e.ToJSON(args[0])
		if err != nil {
			return nil, err
		}
		return e.values.NewString(doc), nil
	})
	e.root.Vars().SetByName("to_json", toJSON, 0)

	fromJSON := e.values.NewNativeFunction("from_json", []value.Param{{Name: "doc"}}, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("from_json expects exactly one argument")
		}
		sv, ok := args[0].(*value.StringValue)
		if !ok {
			return nil, fmt.Errorf("from_json expects a string argument")
		}
		return builtins.FromJSON(e.values, sv.Val())
	})
	e.root.Vars().SetByName("from_json", fromJSON, 0)
}
