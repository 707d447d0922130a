package todo

type Counts struct {
	All       int
	Active    int
	Completed int
}

// For returns the count shown on the tab for f.
func (c Counts) For(f Filter) int {
	switch f {
	case FilterActive:
		return c.Active
	case FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}

// Apply returns the todos matching f in their original order. The input is
// never modified.
func Apply(list []Todo, f Filter) []Todo {
	out := make([]Todo, 0, len(list))
	for _, t := range list {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Count aggregates over the whole list regardless of the selected filter.
func Count(list []Todo) Counts {
	c := Counts{All: len(list)}
	for _, t := range list {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

func EmptyMessage(f Filter) string {
	switch f {
	case FilterActive:
		return "No active tasks."
	case FilterCompleted:
		return "No completed tasks."
	default:
		return "No tasks scheduled."
	}
}
