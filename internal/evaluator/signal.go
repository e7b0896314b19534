package evaluator

import (
	"github.com/cwscript-lang/cwscript/internal/script"
	"github.com/cwscript-lang/cwscript/internal/value"
)

// signal carries a flow-control transfer through the statement driver
// (spec 4.6's table of "propagating value" carriers): return/break/
// continue/exit/interrupted each set code and, for return/exit, value.
// A zero signal (code == script.OK) means nothing is propagating.
type signal struct {
	code  script.RC
	value value.Value
}

func (s signal) isSet() bool { return s.code != script.OK }

var noSignal = signal{}
