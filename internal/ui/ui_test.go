package ui

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/api"
	"tasklist/internal/config"
	"tasklist/internal/query"
	"tasklist/internal/testutil"
	"tasklist/internal/todo"
)

func sampleTodos() []todo.Todo {
	return []todo.Todo{
		{ID: 1, Title: "Write tests", Description: "ui package", Completed: false},
		{ID: 2, Title: "Ship feature", Description: "v1", Completed: true},
		{ID: 3, Title: "Update docs", Description: "readme", Completed: false},
	}
}

func newTestModel(t *testing.T, seed ...todo.Todo) (Model, *testutil.FakeAPI) {
	t.Helper()
	fake := testutil.NewFakeAPI(seed...)
	t.Cleanup(fake.Close)

	client, err := api.New(fake.URL(), 0, nil)
	require.NoError(t, err)

	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), config.DefaultConfigFileName))
	require.NoError(t, err)
	cfg.NoticeSeconds = 0

	return New(query.NewStore(client, nil), cfg, nil), fake
}

// openTasks moves from the welcome screen to the loaded task screen.
func openTasks(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(m, keyEnter())
	require.NotNil(t, cmd)
	return run(m, cmd)
}

func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

func typeText(m Model, s string) Model {
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyTab() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyTab} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }
func keySave() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyCtrlS} }

// run executes cmd and feeds the resulting messages back into the model
// until no data commands remain. Spinner ticks are dropped.
func run(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		updated, next := m.Update(msg)
		m = run(updated.(Model), next)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func TestWelcomeNavigatesToTasksAndFetches(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	assert.Contains(t, m.View(), "Welcome to the App!")
	assert.Contains(t, m.View(), "GO TO TODO PAGE")
	assert.Nil(t, m.Init())
	assert.Equal(t, 0, fake.Count(http.MethodGet))

	m, cmd := press(m, keyEnter())
	assert.Equal(t, screenTasks, m.screen)
	assert.True(t, m.loading())
	assert.Contains(t, m.View(), "Loading todos...")

	m = run(m, cmd)
	assert.False(t, m.loading())
	view := m.View()
	assert.Contains(t, view, "Calendar / To-Do Page")
	assert.Contains(t, view, "Your tasks for today")
	assert.Contains(t, view, "All (3)")
	assert.Contains(t, view, "Active (2)")
	assert.Contains(t, view, "Completed (1)")
	assert.Contains(t, view, "Write tests")
	assert.Contains(t, view, "Pending")
	assert.Contains(t, view, "Done")
	assert.Equal(t, 1, fake.Count(http.MethodGet))
}

func TestBackAndReenterDoesNotRefetch(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('b'))
	assert.Equal(t, screenWelcome, m.screen)

	m, cmd := press(m, keyEnter())
	assert.Nil(t, cmd)
	assert.Equal(t, screenTasks, m.screen)
	assert.Equal(t, 1, fake.Count(http.MethodGet))

	m, cmd = press(m, keyRune('r'))
	m = run(m, cmd)
	assert.Equal(t, 2, fake.Count(http.MethodGet))
	assert.Len(t, m.snap.Todos, 3)
}

func TestFetchErrorRendersInline(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	fake.FailWith(http.MethodGet, http.StatusInternalServerError)

	m = openTasks(t, m)
	assert.True(t, m.snap.Failed())
	assert.Contains(t, m.View(), "Failed to fetch todos (status 500)")

	fake.Recover(http.MethodGet)
	m, cmd := press(m, keyRune('r'))
	assert.True(t, m.loading(), "no data yet, so a retry shows the spinner")
	m = run(m, cmd)
	assert.False(t, m.snap.Failed())
	assert.Contains(t, m.View(), "Write tests")
}

func TestFilterTabsKeepWholeListCounts(t *testing.T) {
	m, _ := newTestModel(t,
		todo.Todo{ID: 1, Title: "Buy milk", Description: "2%"},
		todo.Todo{ID: 2, Title: "Call mom", Description: "sunday"},
	)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('l'))
	assert.Equal(t, todo.FilterActive, m.filter)
	assert.Contains(t, m.View(), "Buy milk")

	m, _ = press(m, keyRune('l'))
	assert.Equal(t, todo.FilterCompleted, m.filter)
	view := m.View()
	assert.Contains(t, view, "No completed tasks.")
	assert.Contains(t, view, "All (2)")
	assert.Contains(t, view, "Active (2)")
	assert.Contains(t, view, "Completed (0)")
	assert.NotContains(t, view, "Buy milk")

	m, _ = press(m, keyRune('1'))
	assert.Equal(t, todo.FilterAll, m.filter)
}

func TestEmptyListMessagePerFilter(t *testing.T) {
	m, _ := newTestModel(t)
	m = openTasks(t, m)
	assert.Contains(t, m.View(), "No tasks scheduled.")

	m, _ = press(m, keyRune('2'))
	assert.Contains(t, m.View(), "No active tasks.")
}

func TestWhitespaceTitleDoesNotCreate(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('a'))
	require.Equal(t, modeAdd, m.mode)
	m = typeText(m, "  ")
	m, _ = press(m, keyTab())
	m = typeText(m, "2%")
	assert.False(t, m.form.canSubmit())

	m, cmd := press(m, keySave())
	assert.Nil(t, cmd)
	assert.Equal(t, modeAdd, m.mode)
	assert.Equal(t, "Title and description are required", m.form.err)
	assert.Equal(t, 0, fake.Count(http.MethodPost))
}

func TestCreateClosesModalThenRefetches(t *testing.T) {
	m, fake := newTestModel(t)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('a'))
	m = typeText(m, "Buy milk")
	m, _ = press(m, keyEnter())
	assert.Equal(t, fieldDescription, m.form.focus)
	m = typeText(m, "2%")
	assert.True(t, m.form.canSubmit())

	m, cmd := press(m, keySave())
	require.NotNil(t, cmd)
	assert.True(t, m.form.submitting)
	assert.Contains(t, m.View(), "Adding...")

	_, again := press(m, keySave())
	assert.Nil(t, again, "second submit while in flight is ignored")

	m = run(m, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.form.submitting)
	assert.Empty(t, m.form.draft().Title)
	assert.Empty(t, m.form.draft().Description)
	assert.Equal(t, "Added task", m.notice.text)

	require.Len(t, m.snap.Todos, 1)
	got := m.snap.Todos[0]
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2%", got.Description)
	assert.False(t, got.Completed)
	assert.Equal(t, 1, fake.Count(http.MethodPost))
	assert.Equal(t, 2, fake.Count(http.MethodGet))
}

func TestLateCreateResultLeavesNewDraftAlone(t *testing.T) {
	m, fake := newTestModel(t)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('a'))
	m = typeText(m, "Buy milk")
	m, _ = press(m, keyTab())
	m = typeText(m, "2%")
	m, first := press(m, keySave())
	require.NotNil(t, first)

	m, _ = press(m, keyEsc())
	m, _ = press(m, keyRune('a'))
	m = typeText(m, "Call mom")
	m, _ = press(m, keyTab())
	m = typeText(m, "sunday")
	m, second := press(m, keySave())
	require.NotNil(t, second)

	m = run(m, first)
	assert.Equal(t, modeAdd, m.mode)
	assert.True(t, m.form.submitting)
	assert.Equal(t, "Call mom", m.form.draft().Title)
	assert.Equal(t, "Added task", m.notice.text)
	require.Len(t, m.snap.Todos, 1)
	assert.Equal(t, "Buy milk", m.snap.Todos[0].Title)

	m = run(m, second)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.form.draft().Title)
	assert.Len(t, m.snap.Todos, 2)
	assert.Equal(t, 2, fake.Count(http.MethodPost))
}

func TestCreateFailureKeepsModalOpen(t *testing.T) {
	m, fake := newTestModel(t)
	m = openTasks(t, m)
	fake.FailWith(http.MethodPost, http.StatusInternalServerError)

	m, _ = press(m, keyRune('a'))
	m = typeText(m, "Buy milk")
	m, _ = press(m, keyTab())
	m = typeText(m, "2%")
	m, cmd := press(m, keySave())
	m = run(m, cmd)

	assert.Equal(t, modeAdd, m.mode)
	assert.False(t, m.form.submitting)
	assert.Equal(t, "Buy milk", m.form.draft().Title)
	assert.Contains(t, m.form.err, "Failed to add todo")
	assert.True(t, m.notice.isErr)
	assert.Equal(t, 1, fake.Count(http.MethodGet), "no re-fetch after a failed mutation")
}

func TestCancelDiscardsDraft(t *testing.T) {
	m, fake := newTestModel(t)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('a'))
	m = typeText(m, "Buy milk")
	m, _ = press(m, keyEsc())
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, screenTasks, m.screen)

	m, _ = press(m, keyRune('a'))
	assert.Empty(t, m.form.draft().Title)
	assert.Equal(t, 0, fake.Count(http.MethodPost))
}

func TestToggleSendsCompletedAndRefetches(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	m, cmd := press(m, keyRune(' '))
	require.NotNil(t, cmd)
	m = run(m, cmd)

	var patch *testutil.Request
	reqs := fake.Requests()
	for i := range reqs {
		if reqs[i].Method == http.MethodPatch {
			patch = &reqs[i]
		}
	}
	require.NotNil(t, patch)
	assert.Equal(t, "/todos/1", patch.Path)
	assert.Equal(t, map[string]any{"completed": true}, patch.Body)

	assert.True(t, m.snap.Todos[0].Completed)
	assert.Equal(t, "Marked as done", m.notice.text)
	assert.Contains(t, m.View(), "Completed (2)")
}

func TestToggleReopensCompletedTask(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('j'))
	assert.Contains(t, m.View(), "Mark Pending")

	m, cmd := press(m, keyRune(' '))
	require.NotNil(t, cmd)
	m = run(m, cmd)

	reqs := fake.Requests()
	var body map[string]any
	for i := range reqs {
		if reqs[i].Method == http.MethodPatch {
			body = reqs[i].Body
		}
	}
	assert.Equal(t, map[string]any{"completed": false}, body)
	assert.False(t, m.snap.Todos[1].Completed)
	assert.Equal(t, "Marked as pending", m.notice.text)
	assert.Contains(t, m.View(), "Completed (0)")
}

func TestFailedDeleteLeavesListAndShowsError(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)
	before := m.snap.Todos
	fake.FailWith(http.MethodDelete, http.StatusInternalServerError)

	m, _ = press(m, keyRune('j'))
	m, cmd := press(m, keyRune('d'))
	assert.Nil(t, cmd)
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), `Delete "Ship feature"? y/n`)

	m, cmd = press(m, keyRune('y'))
	require.NotNil(t, cmd)
	m = run(m, cmd)

	assert.Equal(t, before, m.snap.Todos)
	assert.True(t, m.notice.isErr)
	assert.Contains(t, m.View(), "delete failed: Failed to delete todo (status 500)")
	assert.Contains(t, m.View(), "Ship feature")
	assert.Equal(t, 1, fake.Count(http.MethodGet))
	assert.Len(t, fake.Todos(), 3)
}

func TestDeleteRemovesAfterRefetch(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('d'))
	m, cmd := press(m, keyRune('y'))
	m = run(m, cmd)

	assert.Len(t, m.snap.Todos, 2)
	assert.NotContains(t, m.View(), "Write tests")
	assert.Equal(t, "Deleted task", m.notice.text)
	assert.Equal(t, 2, fake.Count(http.MethodGet))
}

func TestDeleteDeclined(t *testing.T) {
	m, fake := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	m, _ = press(m, keyRune('d'))
	m, _ = press(m, keyRune('n'))
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.pendingDel)
	assert.Equal(t, 0, fake.Count(http.MethodDelete))
}

func TestCursorClampsToFilteredList(t *testing.T) {
	m, _ := newTestModel(t, sampleTodos()...)
	m = openTasks(t, m)

	for i := 0; i < 5; i++ {
		m, _ = press(m, keyRune('j'))
	}
	assert.Equal(t, 2, m.cursor)

	m, _ = press(m, keyRune('3'))
	assert.Equal(t, 0, m.cursor)
	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, 2, sel.ID)
}

func TestNoticeExpiry(t *testing.T) {
	m, _ := newTestModel(t)
	m.cfg.NoticeSeconds = 3

	cmd := m.showNotice("first", false)
	assert.NotNil(t, cmd)
	stale := m.noticeSeq
	_ = m.showNotice("second", true)

	updated, _ := m.Update(noticeExpiredMsg{seq: stale})
	m = updated.(Model)
	assert.Equal(t, "second", m.notice.text)

	updated, _ = m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	m = updated.(Model)
	assert.Empty(t, m.notice.text)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
