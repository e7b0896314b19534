package value

import "fmt"

// ObjectValue is the generic container kind: a property bag plus an
// optional prototype link used for method/operator-overload resolution
// (spec 4.4's "Overloading" and 4.6's class support).
type ObjectValue struct {
	hdr       Header
	props     *PropMap
	prototype Value
	className string
}

func newObject(proto Value) *ObjectValue {
	return &ObjectValue{props: NewPropMap(), prototype: proto}
}

func (o *ObjectValue) Kind() Kind      { return KindObject }
func (o *ObjectValue) Hdr() *Header    { return &o.hdr }
func (o *ObjectValue) Props() *PropMap { return o.props }

func (o *ObjectValue) String() string {
	if o.className != "" {
		return fmt.Sprintf("[object %s]", o.className)
	}
	return "[object]"
}

// Prototype returns the object's prototype value, or nil if it has none.
func (o *ObjectValue) Prototype() Value { return o.prototype }

// SetPrototype rebinds the object's prototype unconditionally and
// returns nothing (the spec's DISALLOW_PROTOTYPE_SET code governs
// whether this is permitted; that check is the caller's concern, not
// the value's).
func (o *ObjectValue) SetPrototype(p Value) { o.prototype = p }

// ClassName returns the object's reported class/type name, used by
// typeinfo and error messages.
func (o *ObjectValue) ClassName() string { return o.className }

// SetClassName records the object's class/type name.
func (o *ObjectValue) SetClassName(name string) { o.className = name }

// DerivesFrom walks the prototype chain looking for a prototype whose
// ClassName matches name, implementing spec 6's DerivesFrom embedding API.
func (o *ObjectValue) DerivesFrom(name string) bool {
	cur := o.prototype
	for cur != nil {
		obj, ok := cur.(*ObjectValue)
		if !ok {
			return false
		}
		if obj.className == name {
			return true
		}
		cur = obj.prototype
	}
	return false
}
