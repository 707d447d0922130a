package todo

import "strings"

// Draft is the unsaved input of the add form.
type Draft struct {
	Title       string
	Description string
}

func (d Draft) Normalize() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
	}
}

// Valid requires both fields to carry non-whitespace text.
func (d Draft) Valid() bool {
	n := d.Normalize()
	return n.Title != "" && n.Description != ""
}
