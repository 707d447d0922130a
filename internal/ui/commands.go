package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/query"
	"tasklist/internal/todo"
)

type todosLoadedMsg struct{ err error }

type todoCreatedMsg struct {
	seq  int
	todo todo.Todo
	err  error
}

type todoDeletedMsg struct {
	id  int
	err error
}

type todoToggledMsg struct {
	todo todo.Todo
	err  error
}

type noticeExpiredMsg struct{ seq int }

// I/O runs in commands so the event loop never blocks. Requests are not
// cancelled; results arriving after quit are dropped with the program.

func fetchCmd(store *query.Store) tea.Cmd {
	return func() tea.Msg {
		_, err := store.Fetch(context.Background())
		return todosLoadedMsg{err: err}
	}
}

func createCmd(store *query.Store, d todo.Draft, seq int) tea.Cmd {
	return func() tea.Msg {
		created, err := store.Create(context.Background(), d)
		return todoCreatedMsg{seq: seq, todo: created, err: err}
	}
}

func deleteCmd(store *query.Store, id int) tea.Cmd {
	return func() tea.Msg {
		deleted, err := store.Delete(context.Background(), id)
		if err != nil {
			deleted = id
		}
		return todoDeletedMsg{id: deleted, err: err}
	}
}

func toggleCmd(store *query.Store, t todo.Todo) tea.Cmd {
	return func() tea.Msg {
		updated, err := store.ToggleComplete(context.Background(), t)
		if err != nil {
			updated = t
		}
		return todoToggledMsg{todo: updated, err: err}
	}
}

func expireNoticeCmd(seq int, ttl time.Duration) tea.Cmd {
	if ttl <= 0 {
		return nil
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
