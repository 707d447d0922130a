package todo

import (
	"fmt"
	"strings"
)

type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Status is the badge label shown on a card.
func (t Todo) Status() string {
	if t.Completed {
		return "Done"
	}
	return "Pending"
}

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

var filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func Filters() []Filter {
	return append([]Filter(nil), filters...)
}

func ParseFilter(v string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q", v)
	}
}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func (f Filter) Next() Filter {
	return filters[wrap(int(f)+1, len(filters))]
}

func (f Filter) Prev() Filter {
	return filters[wrap(int(f)-1, len(filters))]
}

// Match reports whether t belongs in the view selected by f.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func wrap(idx, n int) int {
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
