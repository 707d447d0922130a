package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/config"
	"tasklist/internal/todo"
)

func (m Model) View() string {
	if m.screen == screenWelcome {
		return appStyle.Render(m.renderWelcome())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString(m.form.view(m.cfg.Keys.Submit, m.cfg.Keys.Cancel))
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))
	return appStyle.Render(b.String())
}

func (m Model) renderWelcome() string {
	body := titleStyle.Render("Welcome to the App!") + "\n\n" + buttonStyle.Render("GO TO TODO PAGE")
	hint := helpStyle.Render(fmt.Sprintf("%s open • %s quit", keyLabel(m.cfg.Keys.Confirm), keyLabel(m.cfg.Keys.Quit)))
	return welcomeCardStyle.Render(body) + "\n\n" + hint
}

func (m Model) renderHeader() string {
	tabs := m.renderTabs()
	title := titleStyle.Render("Calendar / To-Do Page") + "\n" + subtitleStyle.Render("Your tasks for today")
	add := buttonStyle.Render("Add Todo") + helpStyle.Render(" "+keyLabel(m.cfg.Keys.Add))
	return tabs + "\n" + lipgloss.JoinHorizontal(lipgloss.Center, title, "    ", add)
}

func (m Model) renderTabs() string {
	counts := todo.Count(m.snap.Todos)
	tabs := make([]string, 0, len(todo.Filters()))
	for _, f := range todo.Filters() {
		label := fmt.Sprintf("%s (%d)", f.Label(), counts.For(f))
		if f == m.filter {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderBody shows one of loading, error or the filtered list.
func (m Model) renderBody() string {
	if m.loading() {
		return m.spinner.View() + " Loading todos..."
	}
	if m.snap.Failed() {
		msg := "Failed to load todos"
		if m.snap.Err != nil {
			msg = m.snap.Err.Error()
		}
		return errorStyle.Render(msg) + "\n" + helpStyle.Render(keyLabel(m.cfg.Keys.Refresh)+" retry")
	}

	visible := m.visible()
	if len(visible) == 0 {
		return emptyStyle.Render(todo.EmptyMessage(m.filter))
	}

	cards := make([]string, 0, len(visible))
	for i, t := range visible {
		cards = append(cards, m.renderCard(t, i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) renderCard(t todo.Todo, selected bool) string {
	header := titleStyle.Render(t.Title) + "  " + badge(t.Status(), t.Completed)

	toggle := actionStyle.Render(toggleLabel(t))
	if t.Completed {
		toggle = reopenActionStyle.Render(toggleLabel(t))
	}
	actions := toggle + "   " + deleteActionStyle.Render("Delete")

	body := header + "\n" + descriptionStyle.Render(t.Description) + "\n" + actions

	style := cardStyle
	cursor := "  "
	if selected {
		style = cardSelectedStyle
		cursor = "> "
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cursor, style.Render(body))
}

func toggleLabel(t todo.Todo) string {
	if t.Completed {
		return "Mark Pending"
	}
	return "Mark Done"
}

func (m Model) renderStatus() string {
	if m.mode == modeConfirmDelete && m.pendingDel != nil {
		return fmt.Sprintf("Delete \"%s\"? y/n", m.pendingDel.Title)
	}
	if m.notice.text == "" {
		return ""
	}
	if m.notice.isErr {
		return errorStyle.Render(m.notice.text)
	}
	return noticeStyle.Render(m.notice.text)
}

func (m Model) renderHelp() string {
	if m.mode == modeAdd {
		return renderFormHelp(m.cfg.Keys)
	}
	return renderHelp(m.cfg.Keys)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s/%s filter • %s add • %s toggle • %s delete • %s refresh • %s back • %s quit",
		keyLabel(k.Up), keyLabel(k.Down), keyLabel(k.PrevFilter), keyLabel(k.NextFilter), keyLabel(k.Add),
		keyLabel(k.Toggle), keyLabel(k.Delete), keyLabel(k.Refresh), keyLabel(k.Back), keyLabel(k.Quit))
}

func renderFormHelp(k config.Keymap) string {
	return fmt.Sprintf("%s next field • %s add • %s cancel",
		keyLabel(k.NextField), keyLabel(k.Submit), keyLabel(k.Cancel))
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
