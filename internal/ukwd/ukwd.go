// Package ukwd implements the user-defined keyword table described in
// spec 4.8: a name-keyed value map plus a length-bucketed sorted
// shortlist, so the evaluator's keyword dispatch can fall through from
// its closed perfect-hash of real keywords to a host- or script-
// registered vocabulary without scanning every entry.
//
// Grounded on a prior implementation's case-normalizing identifier map
// (internal/lexer's keyword lookup table shape), generalized from a
// fixed compile-time set into a mutable, validated runtime registry.
package ukwd

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/cwscript-lang/cwscript/internal/lexer"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// Table holds every registered user-defined keyword. The zero value is
// not ready for use; construct with NewTable.
type Table struct {
	byName map[string]value.Value
	byLen  map[int][]string
}

// NewTable returns an empty keyword table.
func NewTable() *Table {
	return &Table{byName: make(map[string]value.Value), byLen: make(map[int][]string)}
}

func isValidIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Register installs name -> val, enforcing spec 4.8's registration
// rules: name must be a legal identifier, must not already name a real
// keyword or an existing UKWD entry, and val must be neither null nor
// undefined. Entries are immutable once installed, so a second
// Register of the same name always fails rather than silently
// replacing the first.
func (t *Table) Register(name string, val value.Value) error {
	if !isValidIdent(name) {
		return fmt.Errorf("%q is not a legal identifier", name)
	}
	if lexer.LookupIdent(name) != lexer.IDENT {
		return fmt.Errorf("%q is a reserved keyword", name)
	}
	if _, exists := t.byName[name]; exists {
		return fmt.Errorf("%q is already a registered user-defined keyword", name)
	}
	switch val.(type) {
	case *value.NullValue, *value.UndefinedValue:
		return fmt.Errorf("a user-defined keyword's value must not be null or undefined")
	}
	if val == nil {
		return fmt.Errorf("a user-defined keyword's value must not be null or undefined")
	}

	t.byName[name] = val
	bucket := append(t.byLen[len(name)], name)
	sort.Strings(bucket)
	t.byLen[len(name)] = bucket
	return nil
}

// Lookup resolves name to its registered value, the O(1) hashtable hit
// that follows the length-filtered shortlist scan in spec 4.8's lookup
// path.
func (t *Table) Lookup(name string) (value.Value, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.byName[name]
	return v, ok
}

// ShortlistForLength returns the sorted candidate names of the given
// byte length, spec 4.8's "length-keyed shortlist" fast-reject path: a
// caller that already knows an identifier's length can binary-search
// this slice instead of touching the hashtable at all.
func (t *Table) ShortlistForLength(n int) []string {
	if t == nil {
		return nil
	}
	return t.byLen[n]
}

// Len returns the total number of registered keywords.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}
