package value

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kr/pretty"
	"github.com/maruel/natural"
)

// debugNode is the shape DebugString actually formats: kr/pretty renders
// plain Go values well but has no notion of this package's PropMap/Items
// container shapes, so DebugString first projects a value into this
// intermediate tree and hands that to pretty.Sprint.
type debugNode struct {
	Kind  string
	Val   any
	Props map[string]any
	Items []any
}

// DebugString renders v as a human-readable tree, used by tests and the
// `cwscript dump` CLI subcommand. Property and hash keys are sorted with
// natural ordering so a digit-suffixed key run ("item2" before "item10")
// reads the way a person would expect, rather than lexicographic
// ordering's "item10" before "item2".
func DebugString(v Value) string {
	return strings.TrimSpace(pretty.Sprint(toDebugNode(v, make(map[Value]bool))))
}

func toDebugNode(v Value, seen map[Value]bool) debugNode {
	if v == nil {
		return debugNode{Kind: "nil"}
	}
	n := debugNode{Kind: v.Kind().String()}

	if seen[v] {
		n.Val = "<cycle>"
		return n
	}
	if v.Kind().IsContainer() {
		seen[v] = true
	}

	switch val := v.(type) {
	case *IntValue:
		n.Val = val.Val()
	case *DoubleValue:
		n.Val = val.Val()
	case *BoolValue:
		n.Val = val.Val()
	case *StringValue:
		n.Val = val.Val()
	case *UniqueValue:
		n.Val = val.String()
	}

	if holder, ok := v.(PropertyHolder); ok && holder.Props() != nil && holder.Props().Len() > 0 {
		n.Props = make(map[string]any, holder.Props().Len())
		for _, key := range sortedPropNames(holder.Props()) {
			pv, _, ok := holder.Props().GetByName(key)
			if !ok {
				continue
			}
			n.Props[key] = toDebugNode(pv, seen)
		}
	}

	switch c := v.(type) {
	case interface{ Items() []Value }:
		for _, item := range c.Items() {
			n.Items = append(n.Items, toDebugNode(item, seen))
		}
	case interface{ Slots() []Value }:
		for _, item := range c.Slots() {
			n.Items = append(n.Items, toDebugNode(item, seen))
		}
	}

	return n
}

// sortedPropNames returns m's string keys in natural order, so debug
// dumps and typeinfo listings are deterministic across runs.
func sortedPropNames(m *PropMap) []string {
	var names []string
	for _, k := range m.Keys() {
		if s, ok := k.(*StringValue); ok {
			names = append(names, s.Val())
		} else {
			names = append(names, fmt.Sprint(k))
		}
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}
