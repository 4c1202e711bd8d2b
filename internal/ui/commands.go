package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"secboard/internal/checklist"
	"secboard/internal/export"
	"secboard/internal/webhook"
)

type checklistMsg struct {
	seq  uint64
	snap checklist.Snapshot
	err  error
}

type progressMsg struct {
	seq      uint64
	progress checklist.Progress
	err      error
}

type taskUpdatedMsg struct {
	action string
	id     checklist.TaskID
	err    error
}

type exportMsg struct {
	path string
	err  error
}

type bulkMsg struct {
	action string
	err    error
}

type automationMsg struct {
	items []webhook.AutomationItem
	err   error
}

type applySearchMsg struct{}

type refreshTickMsg struct{}

type boardTickMsg struct{}

const (
	actionToggle    = "toggle"
	actionNotes     = "notes"
	actionMarkAll   = "mark-all"
	actionResetWeek = "reset-week"
)

func (m Model) fetchChecklist(seq uint64) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		snap, err := backend.FetchChecklist(ctx)
		return checklistMsg{seq: seq, snap: snap, err: err}
	}
}

func (m Model) fetchProgress(seq uint64) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		p, err := backend.FetchProgress(ctx)
		return progressMsg{seq: seq, progress: p, err: err}
	}
}

// reload issues a checklist fetch followed by a progress fetch. Each is
// tagged so an older response cannot overwrite a newer one.
func (m *Model) reload() tea.Cmd {
	m.checklistIssued++
	m.progressIssued++
	m.loading = true
	return tea.Sequence(m.fetchChecklist(m.checklistIssued), m.fetchProgress(m.progressIssued))
}

func (m Model) updateTask(action string, req webhook.UpdateTaskRequest) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		err := backend.UpdateTask(ctx, req)
		return taskUpdatedMsg{action: action, id: req.TaskID, err: err}
	}
}

func (m Model) exportCSV() tea.Cmd {
	backend, ctx, dir := m.backend, m.ctx, m.cfg.ExportDir
	return func() tea.Msg {
		res, err := backend.Export(ctx)
		if err != nil {
			return exportMsg{err: err}
		}
		path, err := export.Write(dir, res.Filename, res.CSVData)
		return exportMsg{path: path, err: err}
	}
}

func (m Model) bulk(action string) tea.Cmd {
	backend, ctx, by := m.backend, m.ctx, m.cfg.CompletedBy
	return func() tea.Msg {
		var err error
		switch action {
		case actionMarkAll:
			err = backend.MarkAll(ctx, by)
		case actionResetWeek:
			err = backend.ResetWeek(ctx)
		default:
			err = fmt.Errorf("unknown bulk action %q", action)
		}
		return bulkMsg{action: action, err: err}
	}
}

func (m Model) fetchAutomation() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		items, err := backend.AutomationStatus(ctx)
		return automationMsg{items: items, err: err}
	}
}

// sender forwards timer callbacks into the running program.
type sender struct {
	fn func(tea.Msg)
}

func (s *sender) send(msg tea.Msg) {
	if s == nil || s.fn == nil {
		return
	}
	s.fn(msg)
}

func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
