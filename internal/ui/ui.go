package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"tasklist/internal/config"
	"tasklist/internal/query"
	"tasklist/internal/todo"
)

type screen int

const (
	screenWelcome screen = iota
	screenTasks
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

type notice struct {
	text  string
	isErr bool
}

type Model struct {
	store  *query.Store
	cfg    config.Config
	logger *logrus.Entry

	screen screen
	mode   mode
	filter todo.Filter
	cursor int

	snap     query.Snapshot
	fetching int
	started  bool

	spinner    spinner.Model
	form       addForm
	submitSeq  int
	pendingDel *todo.Todo

	notice    notice
	noticeSeq int
	width     int
}

// Options tweak the initial state of the program.
type Options struct {
	StartOnTasks bool
}

func New(store *query.Store, cfg config.Config, logger *logrus.Logger) Model {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = subtitleStyle

	return Model{
		store:   store,
		cfg:     cfg,
		logger:  logger.WithField("component", "ui"),
		screen:  screenWelcome,
		mode:    modeList,
		filter:  cfg.Filter(),
		spinner: s,
		form:    newAddForm(),
	}
}

func Run(store *query.Store, cfg config.Config, logger *logrus.Logger, opts Options) error {
	m := New(store, cfg, logger)
	if opts.StartOnTasks {
		m.screen = screenTasks
		m.started = true
		m.fetching++
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	store.Close()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.fetching > 0 {
		return tea.Batch(fetchCmd(m.store), m.spinner.Tick)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenWelcome {
			return m.updateWelcome(msg.String())
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form.title.Width = clampWidth(msg.Width - 20)
		m.form.desc.SetWidth(clampWidth(msg.Width - 16))
	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case todosLoadedMsg:
		return m.handleLoaded(msg)
	case todoCreatedMsg:
		return m.handleCreated(msg)
	case todoDeletedMsg:
		return m.handleDeleted(msg)
	case todoToggledMsg:
		return m.handleToggled(msg)
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = notice{}
		}
	default:
		// cursor blink
		if m.mode == modeAdd {
			var cmd tea.Cmd
			m.form, cmd = m.form.update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateWelcome(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Confirm:
		m.screen = screenTasks
		if m.started {
			return m, nil
		}
		cmd := m.startFetch()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	visible := m.visible()
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Back, m.cfg.Keys.Cancel:
		m.screen = screenWelcome
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case m.cfg.Keys.NextFilter, "right":
		m.setFilter(m.filter.Next())
	case m.cfg.Keys.PrevFilter, "left":
		m.setFilter(m.filter.Prev())
	case "1", "2", "3":
		m.setFilter(todo.Filters()[int(key[0]-'1')])
	case m.cfg.Keys.Refresh:
		cmd := m.startFetch()
		return m, cmd
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		var cmd tea.Cmd
		m.form, cmd = m.form.openForm()
		return m, cmd
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.logger.WithField("id", t.ID).Debug("toggle requested")
		return m, toggleCmd(m.store, t)
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = &t
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.form = m.form.reset()
		return m, nil
	case m.cfg.Keys.Submit:
		if m.form.submitting {
			return m, nil
		}
		d := m.form.draft()
		if !d.Valid() {
			m.form.err = "Title and description are required"
			return m, nil
		}
		m.form.submitting = true
		m.form.err = ""
		m.submitSeq++
		return m, createCmd(m.store, d.Normalize(), m.submitSeq)
	case m.cfg.Keys.NextField, "shift+tab":
		var cmd tea.Cmd
		m.form, cmd = m.form.nextField()
		return m, cmd
	case m.cfg.Keys.Confirm:
		if m.form.focus == fieldTitle {
			var cmd tea.Cmd
			m.form, cmd = m.form.nextField()
			return m, cmd
		}
	}
	if m.form.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.mode = modeList
		if m.pendingDel == nil {
			return m, nil
		}
		id := m.pendingDel.ID
		m.pendingDel = nil
		return m, deleteCmd(m.store, id)
	case "n", "N", m.cfg.Keys.Cancel:
		m.mode = modeList
		m.pendingDel = nil
		cmd := m.showNotice("Delete cancelled", false)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLoaded(msg todosLoadedMsg) (tea.Model, tea.Cmd) {
	if m.fetching > 0 {
		m.fetching--
	}
	m.snap = m.store.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	if msg.err != nil && !errors.Is(msg.err, query.ErrSuperseded) {
		m.logger.WithError(msg.err).Warn("list fetch failed")
	}
	return m, nil
}

// Mutation results are handled first; the re-fetch is issued afterwards.
// Only the submit the open form is waiting on may close or update it. A
// result for a cancelled submit still reports and refreshes the list.
func (m Model) handleCreated(msg todoCreatedMsg) (tea.Model, tea.Cmd) {
	current := m.mode == modeAdd && m.form.submitting && msg.seq == m.submitSeq
	if msg.err != nil {
		if current {
			m.form.submitting = false
			m.form.err = msg.err.Error()
		}
		cmd := m.showNotice(fmt.Sprintf("add failed: %v", msg.err), true)
		return m, cmd
	}
	if current {
		m.mode = modeList
		m.form = m.form.reset()
	}
	cmd := tea.Batch(m.showNotice("Added task", false), m.startFetch())
	return m, cmd
}

func (m Model) handleDeleted(msg todoDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.showNotice(fmt.Sprintf("delete failed: %v", msg.err), true)
		return m, cmd
	}
	cmd := tea.Batch(m.showNotice("Deleted task", false), m.startFetch())
	return m, cmd
}

func (m Model) handleToggled(msg todoToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.showNotice(fmt.Sprintf("toggle failed: %v", msg.err), true)
		return m, cmd
	}
	text := "Marked as pending"
	if msg.todo.Completed {
		text = "Marked as done"
	}
	cmd := tea.Batch(m.showNotice(text, false), m.startFetch())
	return m, cmd
}

func (m *Model) startFetch() tea.Cmd {
	m.started = true
	m.fetching++
	if m.loading() {
		return tea.Batch(fetchCmd(m.store), m.spinner.Tick)
	}
	return fetchCmd(m.store)
}

func (m *Model) showNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = notice{text: text, isErr: isErr}
	return expireNoticeCmd(m.noticeSeq, m.cfg.NoticeTTL())
}

func (m *Model) setFilter(f todo.Filter) {
	m.filter = f
	m.cursor = clampCursor(m.cursor, len(m.visible()))
}

// loading is true until the first successful list arrives.
func (m Model) loading() bool {
	return m.fetching > 0 && m.snap.UpdatedAt.IsZero()
}

func (m Model) visible() []todo.Todo {
	return todo.Apply(m.snap.Todos, m.filter)
}

func (m Model) selected() (todo.Todo, bool) {
	visible := m.visible()
	if len(visible) == 0 {
		return todo.Todo{}, false
	}
	return visible[clampCursor(m.cursor, len(visible))], true
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func clampWidth(w int) int {
	if w < 20 {
		return 20
	}
	if w > 80 {
		return 80
	}
	return w
}
