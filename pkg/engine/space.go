package engine

import (
	"math"

	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// Space returns a state that consumes a run of spaces and tabs into a span of
// the given type, then continues in ok. With maxSize > 0 at most maxSize-1 codes are
// consumed; maxSize 0 means unbounded. No span is emitted for an empty run.
func Space(t *Tokenizer, ok State, typ mdevent.TokenType, maxSize int) State {
	limit := math.MaxInt
	if maxSize > 0 {
		limit = maxSize - 1
	}
	size := 0

	var inside State
	inside = func(code Code) State {
		if IsSpaceOrTab(code) && size < limit {
			size++
			t.Consume(code)
			return inside
		}
		t.Exit(typ)
		return ok(code)
	}

	return func(code Code) State {
		if IsSpaceOrTab(code) && limit > 0 {
			t.Enter(typ)
			return inside(code)
		}
		return ok(code)
	}
}
