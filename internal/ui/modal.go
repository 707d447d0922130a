package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/todo"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

// addForm is the add-task modal. It holds the draft only while open.
type addForm struct {
	title      textinput.Model
	desc       textarea.Model
	focus      formField
	submitting bool
	err        string
}

func newAddForm() addForm {
	ti := textinput.New()
	ti.Placeholder = "Enter todo title"
	ti.CharLimit = 256
	ti.Width = 40

	ta := textarea.New()
	ta.Placeholder = "Enter todo description"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1024
	ta.SetWidth(44)
	ta.SetHeight(4)

	return addForm{title: ti, desc: ta}
}

func (f addForm) draft() todo.Draft {
	return todo.Draft{Title: f.title.Value(), Description: f.desc.Value()}
}

func (f addForm) canSubmit() bool {
	return !f.submitting && f.draft().Valid()
}

func (f addForm) openForm() (addForm, tea.Cmd) {
	f = f.reset()
	cmd := f.focusField(fieldTitle)
	return f, cmd
}

// reset discards the draft.
func (f addForm) reset() addForm {
	f.submitting = false
	f.err = ""
	f.title.SetValue("")
	f.desc.Reset()
	f.title.Blur()
	f.desc.Blur()
	f.focus = fieldTitle
	return f
}

func (f *addForm) focusField(field formField) tea.Cmd {
	f.focus = field
	if field == fieldTitle {
		f.desc.Blur()
		return f.title.Focus()
	}
	f.title.Blur()
	return f.desc.Focus()
}

func (f addForm) nextField() (addForm, tea.Cmd) {
	next := fieldDescription
	if f.focus == fieldDescription {
		next = fieldTitle
	}
	cmd := f.focusField(next)
	return f, cmd
}

func (f addForm) update(msg tea.Msg) (addForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd
}

func (f addForm) view(submitKey, cancelKey string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add New Todo"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Title*"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Description*"))
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n\n")

	submit := buttonDisabledStyle.Render("Add Todo")
	switch {
	case f.submitting:
		submit = buttonDisabledStyle.Render("Adding...")
	case f.canSubmit():
		submit = buttonStyle.Render("Add Todo")
	}
	b.WriteString(helpStyle.Render(cancelKey+" Cancel") + "   " + submit + helpStyle.Render(" "+submitKey))

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(f.err))
	}
	return modalStyle.Render(b.String())
}
