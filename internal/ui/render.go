package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"secboard/internal/board"
	"secboard/internal/checklist"
	"secboard/internal/config"
)

const (
	barWidth     = 30
	chromeHeight = 9
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case modeBoard:
		b.WriteString(m.renderBoard())
	case modeAutomation:
		b.WriteString(m.renderAutomation())
	case modeHelp:
		b.WriteString(renderKeyTable(m.cfg.Keys))
	default:
		b.WriteString(m.renderTabs())
		b.WriteString("\n")
		b.WriteString(m.renderFilterLine())
		b.WriteString("\n\n")
		b.WriteString(m.renderTaskList())
		if m.mode == modeSearch {
			b.WriteString("\n")
			b.WriteString(m.search.View())
		}
		if m.mode == modeNotes && m.notesTask != nil {
			b.WriteString("\n---\n")
			b.WriteString(m.styles.title.Render("Notes: " + m.notesTask.Name))
			b.WriteString("\n")
			b.WriteString(m.notes.View())
			b.WriteString("\n")
			b.WriteString(m.styles.subtle.Render(fmt.Sprintf("%d/%d characters", utf8.RuneCountInString(m.notes.Value()), notesCharLimit)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.subtle.Render(renderHelp(m.cfg.Keys, m.mode)))

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render("Security Operations Checklist")
	p := m.progress
	line := fmt.Sprintf("%s  %s (%d/%d)", title, percent(p.OverallProgress), p.CompletedTasks, p.TotalTasks)
	if m.loading {
		line += " " + m.spinner.View()
	}
	if !m.progressAt.IsZero() {
		line += m.styles.subtle.Render("  updated " + humanize.Time(m.progressAt))
	}
	if m.autoRefresh {
		line += m.styles.subtle.Render("  auto-refresh " + m.cfg.Refresh().String())
	}
	return line
}

func (m Model) renderTabs() string {
	opts := checklist.CategoryOptions(m.snapshot())
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		active := o.Key == m.criteria.Category ||
			(o.Key == checklist.All && (m.criteria.Category == "" || m.criteria.Category == checklist.All))
		if active {
			parts = append(parts, m.styles.activeTab.Render(o.Label))
		} else {
			parts = append(parts, m.styles.tab.Render(o.Label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFilterLine() string {
	c := m.criteria
	if c.IsDefault() {
		return m.styles.subtle.Render(fmt.Sprintf("no filters  (%d shown)", m.result.Count()))
	}
	prio := c.Priority
	if prio == "" {
		prio = checklist.All
	}
	status := string(c.Status)
	if status == "" {
		status = checklist.All
	}
	line := fmt.Sprintf("priority: %s  status: %s", prio, status)
	if strings.TrimSpace(c.SearchText) != "" {
		line += fmt.Sprintf("  search: %q", c.SearchText)
	}
	line += fmt.Sprintf("  (%d shown)", m.result.Count())
	return m.styles.subtle.Render(line)
}

// taskLines flattens the visible groups into display lines and reports the
// line index of the cursor row.
func (m Model) taskLines() ([]string, int) {
	var lines []string
	cursorLine, row := 0, 0
	for _, g := range m.result.Groups {
		header := fmt.Sprintf("%s (%d/%d) %s", g.Category.Name, g.Category.CompletedTasks, g.Category.TotalTasks, percent(g.Category.Progress))
		lines = append(lines, m.styles.categoryStyle(g.Category.Color).Render(header))
		for _, t := range g.Tasks {
			cursor := " "
			if row == m.cursor && m.mode != modeNotes {
				cursor = m.styles.cursor.Render(">")
				cursorLine = len(lines)
			}
			checkbox := "[ ]"
			name := t.Name
			if t.Completed {
				checkbox = "[x]"
				name = m.styles.done.Render(name)
			}
			prio := m.styles.priorityStyle(string(t.Priority)).Render(strings.ToUpper(string(t.Priority)))
			lines = append(lines, fmt.Sprintf("%s %s %s %s", cursor, checkbox, name, prio))
			if !m.compactView {
				if t.Description != "" {
					lines = append(lines, "      "+m.styles.subtle.Render(t.Description))
				}
				if t.AutomationMethod != "" {
					lines = append(lines, "      "+m.styles.subtle.Render("automation: "+t.AutomationMethod))
				}
			}
			if t.Notes != "" {
				lines = append(lines, "      "+m.styles.notes.Render("notes: "+firstLine(t.Notes)))
			}
			row++
		}
		lines = append(lines, "")
	}
	return lines, cursorLine
}

func (m Model) renderTaskList() string {
	if !m.store.Loaded() {
		if m.loading {
			return m.spinner.View() + " Loading checklist..."
		}
		return "No checklist loaded. Press " + keyLabel(m.cfg.Keys.Reload) + " to retry."
	}
	if !m.result.AnyVisible {
		return "No tasks match the current filters."
	}
	lines, cursorLine := m.taskLines()
	return strings.Join(window(lines, cursorLine, m.height-chromeHeight), "\n")
}

// window returns at most size lines of lines keeping focus in view.
func window(lines []string, focus, size int) []string {
	if size <= 0 || len(lines) <= size {
		return lines
	}
	start := focus - size/2
	if start < 0 {
		start = 0
	}
	if start+size > len(lines) {
		start = len(lines) - size
	}
	return lines[start : start+size]
}

func (m Model) renderAutomation() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Automation Status"))
	b.WriteString("\n\n")
	switch {
	case m.automationLoading:
		b.WriteString(m.spinner.View() + " Loading automation status...")
	case m.automationErr != nil:
		b.WriteString(m.styles.errorText.Render("Failed to load automation status"))
		b.WriteString("\n")
		b.WriteString(m.styles.subtle.Render("Details: " + m.automationErr.Error()))
	case len(m.automation) == 0:
		b.WriteString("No automation status reported.")
	default:
		for _, it := range m.automation {
			icon := it.Icon
			if icon == "" {
				icon = "•"
			}
			line := fmt.Sprintf("%s %s: %s", icon, it.Name, it.Status)
			if it.Details != "" {
				line += m.styles.subtle.Render("  " + it.Details)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return m.styles.panel.Render(b.String())
}

func (m Model) renderBoard() string {
	d := m.boardData
	var b strings.Builder

	b.WriteString(m.styles.title.Render("AD Automation Dashboard"))
	b.WriteString(m.styles.subtle.Render("  (simulated data)"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Server: %s  Domain: %s  Uptime: %s\n", d.Server.ServerName, d.Server.DomainName, d.Server.Uptime))
	health := m.styles.success.Render("HEALTHY")
	if !d.Healthy() {
		health = m.styles.errorText.Render("ATTENTION")
	}
	b.WriteString(fmt.Sprintf("Task: %s  Last run: %s  Next run: %s  Result: %s %s\n\n",
		d.Task.State,
		d.Task.LastRunTime.Format("15:04:05"),
		d.Task.NextRunTime.Format("15:04:05"),
		d.Task.LastTaskResult,
		health,
	))

	b.WriteString(m.styles.category.Render("Today's activity"))
	b.WriteString("\n")
	for _, l := range board.BarLines(d.ActivityChart(), barWidth) {
		b.WriteString(m.styles.bar.Render(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.category.Render("User accounts"))
	b.WriteString("\n")
	for _, l := range board.BarLines(d.AccountsChart(), barWidth) {
		b.WriteString(m.styles.bar.Render(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.category.Render("Recent activity"))
	b.WriteString("\n")
	for _, e := range d.Logs {
		st := m.styles.success
		if e.Status != board.ResultSuccess {
			st = m.styles.errorText
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s\n", e.Time.Format("15:04:05"), e.Action, st.Render(e.Status)))
	}
	if !d.GeneratedAt.IsZero() {
		b.WriteString(m.styles.subtle.Render("refreshed " + humanize.Time(d.GeneratedAt)))
	}
	return b.String()
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.isError {
		return m.styles.errorText.Render(m.status)
	}
	return m.styles.status.Render(m.status)
}

func renderHelp(k config.Keymap, md mode) string {
	switch md {
	case modeSearch:
		return fmt.Sprintf("type to filter • %s/%s done", keyLabel(k.Confirm), keyLabel(k.Cancel))
	case modeNotes:
		return fmt.Sprintf("%s save • %s cancel", keyLabel(k.Save), keyLabel(k.Cancel))
	case modeConfirm:
		return "y confirm • n cancel"
	case modeBoard, modeAutomation, modeHelp:
		return fmt.Sprintf("%s back", keyLabel(k.Cancel))
	}
	return fmt.Sprintf("%s/%s move • %s toggle • %s notes • %s search • %s category • %s priority • %s status • %s clear • %s export • %s help • %s quit",
		k.Up, k.Down, keyLabel(k.Toggle), k.Notes, k.Search, k.NextCategory, k.CyclePriority, k.CycleStatus, k.ClearFilters, k.Export, k.Help, k.Quit)
}

func renderKeyTable(k config.Keymap) string {
	rows := [][2]string{
		{k.Up + "/" + k.Down, "move cursor"},
		{keyLabel(k.Toggle), "toggle task completion"},
		{k.Notes, "edit notes (" + k.Save + " to save)"},
		{k.Search, "search tasks"},
		{k.NextCategory + "/" + k.PrevCategory, "switch category"},
		{k.CyclePriority, "cycle priority filter"},
		{k.CycleStatus, "cycle status filter"},
		{k.ClearFilters, "clear filters"},
		{k.Export, "export CSV"},
		{k.MarkAll, "mark all complete"},
		{k.ResetWeek, "reset week"},
		{k.AutomationStatus, "automation status"},
		{k.Board, "AD automation dashboard"},
		{k.Reload, "reload"},
		{k.AutoRefresh, "toggle auto-refresh"},
		{k.DarkMode, "toggle dark mode"},
		{k.CompactView, "toggle compact view"},
		{k.Quit, "quit"},
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-*s  %s\n", width, r[0], r[1]))
	}
	return b.String()
}

// percent formats a server-supplied percentage as received, without
// trailing zeros.
func percent(v float64) string {
	return humanize.Ftoa(v) + "%"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
