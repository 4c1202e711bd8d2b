package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"secboard/internal/board"
	"secboard/internal/checklist"
	"secboard/internal/config"
	"secboard/internal/logging"
	"secboard/internal/schedule"
	"secboard/internal/storage"
	"secboard/internal/webhook"
)

const (
	boardRefresh    = 30 * time.Second
	notesCharLimit  = 2000
	progressWarning = "progress refresh failed:"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeNotes
	modeConfirm
	modeAutomation
	modeBoard
	modeHelp
)

// Backend is the workflow engine as seen by the UI.
type Backend interface {
	FetchChecklist(ctx context.Context) (checklist.Snapshot, error)
	FetchProgress(ctx context.Context) (checklist.Progress, error)
	UpdateTask(ctx context.Context, req webhook.UpdateTaskRequest) error
	Export(ctx context.Context) (webhook.ExportResult, error)
	MarkAll(ctx context.Context, completedBy string) error
	ResetWeek(ctx context.Context) error
	AutomationStatus(ctx context.Context) ([]webhook.AutomationItem, error)
}

// PrefStore persists the UI flags between runs.
type PrefStore interface {
	Load() (storage.Preferences, error)
	Set(key string, on bool) error
}

type Deps struct {
	Backend Backend
	Prefs   PrefStore
	Config  config.Config
	Logger  *log.Logger
}

type Model struct {
	ctx     context.Context
	backend Backend
	prefs   PrefStore
	cfg     config.Config
	logger  *log.Logger
	store   *checklist.Store
	out     *sender

	criteria checklist.Criteria
	result   checklist.Result
	rows     []checklist.Task
	cursor   int
	mode     mode
	status   string
	isError  bool

	search  textinput.Model
	notes   textarea.Model
	spinner spinner.Model

	loading         bool
	checklistIssued uint64
	checklistShown  uint64
	checklistFailed bool
	progressIssued  uint64
	progressShown   uint64
	progress        checklist.Progress
	progressAt      time.Time
	haveProgress    bool

	notesTask  *checklist.Task
	pendingAct string

	automation        []webhook.AutomationItem
	automationErr     error
	automationLoading bool

	boardGen  *board.Generator
	boardData board.Data

	darkMode    bool
	autoRefresh bool
	compactView bool
	styles      styles

	searchSlot  *schedule.Slot
	refreshSlot *schedule.Slot
	boardSlot   *schedule.Slot

	width  int
	height int
}

// New builds the model and restores saved preferences. Preference load
// failures are logged and fall back to defaults.
func New(ctx context.Context, deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ti := textinput.New()
	ti.Placeholder = "Search tasks"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "/ "

	ta := textarea.New()
	ta.Placeholder = "Notes"
	ta.CharLimit = notesCharLimit
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(6)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         withContext(ctx),
		backend:     deps.Backend,
		prefs:       deps.Prefs,
		cfg:         deps.Config,
		logger:      logger,
		store:       checklist.NewStore(),
		out:         &sender{},
		criteria:    checklist.DefaultCriteria(),
		mode:        modeList,
		search:      ti,
		notes:       ta,
		spinner:     sp,
		boardGen:    board.NewGenerator(uint64(time.Now().UnixNano()), nil),
		searchSlot:  schedule.NewSlot("search-debounce"),
		refreshSlot: schedule.NewSlot("auto-refresh"),
		boardSlot:   schedule.NewSlot("board-refresh"),
		status:      "Loading checklist...",
	}

	if deps.Prefs != nil {
		p, err := deps.Prefs.Load()
		if err != nil {
			logger.Warn("failed to load preferences", "err", err)
		} else {
			m.darkMode, m.autoRefresh, m.compactView = p.DarkMode, p.AutoRefresh, p.CompactView
		}
	}
	m.styles = newStyles(m.darkMode)
	m.checklistIssued, m.progressIssued = 1, 1
	m.loading = true
	return m
}

func Run(ctx context.Context, deps Deps) error {
	m := New(ctx, deps)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	m.out.fn = program.Send
	defer m.stopTimers()
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.autoRefresh {
		m.startAutoRefresh()
	}
	return tea.Batch(
		m.spinner.Tick,
		tea.Sequence(m.fetchChecklist(m.checklistIssued), m.fetchProgress(m.progressIssued)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-12, 10)
		m.notes.SetWidth(max(msg.Width-6, 20))
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case checklistMsg:
		return m.applyChecklist(msg), nil
	case progressMsg:
		return m.applyProgress(msg), nil
	case taskUpdatedMsg:
		return m.afterTaskUpdate(msg)
	case exportMsg:
		if msg.err != nil {
			m.logger.Error("export failed", "err", msg.err)
			m.setError(fmt.Sprintf("export failed: %v", msg.err))
			return m, nil
		}
		m.logger.Info("exported checklist", "path", msg.path)
		m.setStatus("Exported CSV to " + msg.path)
		return m, nil
	case bulkMsg:
		return m.afterBulk(msg)
	case automationMsg:
		m.automationLoading = false
		m.automationErr = msg.err
		if msg.err != nil {
			m.logger.Error("failed to load automation status", "err", msg.err)
			return m, nil
		}
		m.automation = msg.items
		return m, nil
	case applySearchMsg:
		m.criteria.SearchText = m.search.Value()
		m.refilter()
		return m, nil
	case refreshTickMsg:
		if !m.autoRefresh {
			return m, nil
		}
		return m, m.reload()
	case boardTickMsg:
		if m.mode == modeBoard {
			m.boardData = m.boardGen.Next()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) applyChecklist(msg checklistMsg) Model {
	if msg.seq >= m.checklistIssued {
		m.loading = false
	}
	if msg.seq < m.checklistShown {
		m.logger.Debug("dropping stale checklist response", "seq", msg.seq, "shown", m.checklistShown)
		return m
	}
	if msg.err != nil {
		m.logger.Error("failed to load checklist", "err", msg.err)
		m.setError(fmt.Sprintf("load failed: %v", msg.err))
		m.checklistFailed = true
		return m
	}
	m.checklistFailed = false
	m.checklistShown = msg.seq
	m.store.Replace(msg.snap)
	if !m.haveProgress {
		m.progress = msg.snap.Progress()
		m.progressAt = time.Now()
	}
	m.refilter()
	if m.status == "Loading checklist..." || m.isError {
		m.setStatus(fmt.Sprintf("Loaded %d tasks", m.totalTasks()))
	}
	return m
}

func (m Model) applyProgress(msg progressMsg) Model {
	if msg.seq < m.progressShown {
		m.logger.Debug("dropping stale progress response", "seq", msg.seq, "shown", m.progressShown)
		return m
	}
	if msg.err != nil {
		m.logger.Warn("failed to load progress", "err", msg.err)
		// Leave a checklist load error on screen.
		if !m.checklistFailed {
			m.setError(fmt.Sprintf("%s %v", progressWarning, msg.err))
		}
		return m
	}
	if m.isError && strings.HasPrefix(m.status, progressWarning) {
		m.setStatus("Progress updated")
	}
	m.progressShown = msg.seq
	m.progress = msg.progress
	m.progressAt = time.Now()
	m.haveProgress = true
	return m
}

func (m Model) afterTaskUpdate(msg taskUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("failed to update task", "action", msg.action, "task_id", msg.id.String(), "err", msg.err)
		if msg.action == actionNotes {
			m.setError(fmt.Sprintf("save notes failed: %v", msg.err))
		} else {
			m.setError(fmt.Sprintf("toggle failed: %v", msg.err))
		}
		return m, nil
	}
	if msg.action == actionNotes {
		m.closeNotes()
		m.setStatus("Notes saved")
	} else {
		m.setStatus("Task updated")
	}
	return m, m.reload()
}

func (m Model) afterBulk(msg bulkMsg) (tea.Model, tea.Cmd) {
	completed := msg.action == actionMarkAll
	if msg.err != nil {
		m.logger.Error("bulk action failed, applying locally", "action", msg.action, "err", msg.err)
		m.store.MarkAllLocal(completed)
		m.refilter()
		m.setError(fmt.Sprintf("%s failed (%v); showing local-only result until next reload", msg.action, msg.err))
		return m, nil
	}
	if completed {
		m.setStatus("All tasks marked complete")
	} else {
		m.setStatus("Week reset: all tasks pending")
	}
	return m, m.reload()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.stopTimers()
		return m, tea.Quit
	}
	switch m.mode {
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeNotes:
		return m.updateNotesMode(key, msg)
	case modeConfirm:
		return m.updateConfirm(key)
	case modeAutomation, modeHelp:
		if key == m.cfg.Keys.Cancel || key == m.cfg.Keys.Quit || key == m.cfg.Keys.Confirm ||
			key == m.cfg.Keys.AutomationStatus || key == m.cfg.Keys.Help {
			m.mode = modeList
		}
		return m, nil
	case modeBoard:
		if key == m.cfg.Keys.Cancel || key == m.cfg.Keys.Quit || key == m.cfg.Keys.Board {
			m.boardSlot.Stop()
			m.mode = modeList
		}
		return m, nil
	}
	return m.updateListMode(key)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Quit:
		m.stopTimers()
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case k.Toggle:
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.setStatus("Updating task...")
		return m, m.updateTask(actionToggle, webhook.ToggleRequest(task.ID, !task.Completed, m.cfg.CompletedBy))
	case k.Notes:
		task, ok := m.selected()
		if !ok {
			m.setStatus("No task selected")
			return m, nil
		}
		return m.openNotes(task.ID)
	case k.Search:
		m.mode = modeSearch
		m.search.SetValue(m.criteria.SearchText)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case k.NextCategory:
		m.criteria.Category = checklist.NextCategory(m.snapshot(), m.criteria.Category, 1)
		m.refilter()
	case k.PrevCategory:
		m.criteria.Category = checklist.NextCategory(m.snapshot(), m.criteria.Category, -1)
		m.refilter()
	case k.CyclePriority:
		m.criteria.Priority = checklist.NextPriority(m.criteria.Priority)
		m.refilter()
	case k.CycleStatus:
		m.criteria.Status = checklist.NextStatus(m.criteria.Status)
		m.refilter()
	case k.ClearFilters:
		m.searchSlot.Stop()
		m.criteria = m.criteria.Clear()
		m.search.SetValue("")
		m.refilter()
		m.setStatus("Filters cleared")
	case k.Export:
		m.setStatus("Exporting CSV...")
		return m, m.exportCSV()
	case k.MarkAll:
		m.pendingAct = actionMarkAll
		m.mode = modeConfirm
		m.setStatus("Mark all tasks as complete? y/n")
	case k.ResetWeek:
		m.pendingAct = actionResetWeek
		m.mode = modeConfirm
		m.setStatus("Reset all tasks for the week (mark all pending)? y/n")
	case k.AutomationStatus:
		m.mode = modeAutomation
		m.automationLoading = true
		m.automationErr = nil
		return m, m.fetchAutomation()
	case k.Board:
		m.mode = modeBoard
		m.boardData = m.boardGen.Next()
		out := m.out
		m.boardSlot.Every(boardRefresh, func() { out.send(boardTickMsg{}) })
		m.logger.Debug("timer started", "slot", m.boardSlot.Name(), "period", boardRefresh)
	case k.Reload:
		m.setStatus("Reloading...")
		return m, m.reload()
	case k.AutoRefresh:
		m.autoRefresh = !m.autoRefresh
		m.savePref(storage.KeyAutoRefresh, m.autoRefresh)
		if m.autoRefresh {
			m.startAutoRefresh()
			m.setStatus(fmt.Sprintf("Auto-refresh on (every %s)", m.cfg.Refresh()))
		} else {
			m.refreshSlot.Stop()
			m.setStatus("Auto-refresh off")
		}
	case k.DarkMode:
		m.darkMode = !m.darkMode
		m.styles = newStyles(m.darkMode)
		m.setStatus("Dark mode " + humanBool(m.darkMode))
		m.savePref(storage.KeyDarkMode, m.darkMode)
	case k.CompactView:
		m.compactView = !m.compactView
		m.setStatus("Compact view " + humanBool(m.compactView))
		m.savePref(storage.KeyCompactView, m.compactView)
	case k.Help:
		m.mode = modeHelp
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Confirm, m.cfg.Keys.Cancel, "enter", "esc":
		m.searchSlot.Stop()
		m.search.Blur()
		m.mode = modeList
		m.criteria.SearchText = m.search.Value()
		m.refilter()
		return m, nil
	default:
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			out := m.out
			m.searchSlot.Debounce(m.cfg.Debounce(), func() { out.send(applySearchMsg{}) })
		}
		return m, cmd
	}
}

func (m Model) openNotes(id checklist.TaskID) (tea.Model, tea.Cmd) {
	task, ok := m.store.FindByID(id)
	if !ok {
		m.logger.Error("task not found for notes", "task_id", id.String())
		m.setError("Task details could not be loaded")
		return m, nil
	}
	m.notesTask = &task
	m.notes.SetValue(task.Notes)
	m.mode = modeNotes
	m.setStatus(fmt.Sprintf("Editing notes: %s to save, %s to cancel", keyLabel(m.cfg.Keys.Save), keyLabel(m.cfg.Keys.Cancel)))
	return m, m.notes.Focus()
}

func (m *Model) closeNotes() {
	m.notes.Blur()
	m.notes.SetValue("")
	m.notesTask = nil
	if m.mode == modeNotes {
		m.mode = modeList
	}
}

func (m Model) updateNotesMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.closeNotes()
		m.setStatus("Edit cancelled")
		return m, nil
	case m.cfg.Keys.Save:
		if m.notesTask == nil {
			m.closeNotes()
			return m, nil
		}
		m.setStatus("Saving notes...")
		return m, m.updateTask(actionNotes, webhook.NotesRequest(m.notesTask.ID, m.notes.Value(), m.cfg.CompletedBy))
	default:
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		action := m.pendingAct
		m.pendingAct = ""
		m.mode = modeList
		if action == "" {
			m.setStatus("Nothing to confirm")
			return m, nil
		}
		m.setStatus("Working...")
		return m, m.bulk(action)
	case "n", "N", "esc", m.cfg.Keys.Cancel:
		m.pendingAct = ""
		m.mode = modeList
		m.setStatus("Cancelled")
	}
	return m, nil
}

func (m *Model) refilter() {
	var selected checklist.TaskID
	if t, ok := m.selected(); ok {
		selected = t.ID
	}
	m.result = checklist.Filter(m.criteria, m.snapshot())
	m.rows = m.rows[:0:0]
	for _, g := range m.result.Groups {
		m.rows = append(m.rows, g.Tasks...)
	}
	if !selected.IsZero() {
		for i, t := range m.rows {
			if t.ID == selected {
				m.cursor = i
				return
			}
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m Model) snapshot() checklist.Snapshot {
	snap, _ := m.store.Snapshot()
	return snap
}

func (m Model) selected() (checklist.Task, bool) {
	if len(m.rows) == 0 || m.cursor < 0 || m.cursor >= len(m.rows) {
		return checklist.Task{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) totalTasks() int {
	n := 0
	for _, c := range m.snapshot().Categories {
		n += len(c.Tasks)
	}
	return n
}

func (m Model) startAutoRefresh() {
	out := m.out
	m.refreshSlot.Every(m.cfg.Refresh(), func() { out.send(refreshTickMsg{}) })
	m.logger.Debug("timer started", "slot", m.refreshSlot.Name(), "period", m.cfg.Refresh())
}

func (m Model) stopTimers() {
	m.searchSlot.Stop()
	m.refreshSlot.Stop()
	m.boardSlot.Stop()
}

func (m *Model) savePref(key string, on bool) {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.Set(key, on); err != nil {
		m.logger.Error("failed to save preference", "key", key, "err", err)
		m.setError(fmt.Sprintf("save preference failed: %v", err))
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.isError = true
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

func keyLabel(k string) string {
	switch k {
	case " ":
		return "space"
	case "":
		return "-"
	}
	return k
}

func humanBool(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
