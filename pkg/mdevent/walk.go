package mdevent

// WalkFunc is called for each event with the nesting depth of its span
// (0 for top-level spans). Return a non-nil error to stop the walk.
type WalkFunc func(ev Event, depth int) error

// Walk visits events in order, tracking depth.
// If walkFunc returns a non-nil error, the walk stops and returns it.
func Walk(events []Event, walkFunc WalkFunc) error {
	depth := 0
	for _, ev := range events {
		if ev.Kind == Exit {
			depth--
		}
		if err := walkFunc(ev, depth); err != nil {
			return err
		}
		if ev.Kind == Enter {
			depth++
		}
	}
	return nil
}

// Children returns the index ranges [enter, exit] of the direct children of
// the span entered at events[open]. The returned pairs index into events.
func Children(events []Event, open int) [][2]int {
	if open < 0 || open >= len(events) || events[open].Kind != Enter {
		return nil
	}

	var pairs [][2]int
	depth := 0
	start := -1

	for idx := open + 1; idx < len(events); idx++ {
		ev := events[idx]
		if ev.Kind == Enter {
			if depth == 0 {
				start = idx
			}
			depth++
			continue
		}

		if depth == 0 {
			// Exit of the parent span.
			break
		}
		depth--
		if depth == 0 {
			pairs = append(pairs, [2]int{start, idx})
		}
	}

	return pairs
}

// Closing returns the index of the exit event matching events[open], or -1.
func Closing(events []Event, open int) int {
	if open < 0 || open >= len(events) || events[open].Kind != Enter {
		return -1
	}
	tok := events[open].Token
	for idx := open + 1; idx < len(events); idx++ {
		if events[idx].Kind == Exit && events[idx].Token == tok {
			return idx
		}
	}
	return -1
}
