package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	status    lipgloss.Style
	errorText lipgloss.Style
	success   lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	category  lipgloss.Style
	activeTab lipgloss.Style
	tab       lipgloss.Style
	notes     lipgloss.Style
	bar       lipgloss.Style
	panel     lipgloss.Style
	priority  map[string]lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, muted, accent, panelBorder := lipgloss.Color("235"), lipgloss.Color("243"), lipgloss.Color("25"), lipgloss.Color("250")
	if dark {
		fg, muted, accent, panelBorder = lipgloss.Color("252"), lipgloss.Color("245"), lipgloss.Color("39"), lipgloss.Color("238")
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtle:    lipgloss.NewStyle().Foreground(muted),
		status:    lipgloss.NewStyle().Foreground(fg),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:      lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		category:  lipgloss.NewStyle().Bold(true).Foreground(fg),
		activeTab: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		tab:       lipgloss.NewStyle().Foreground(muted),
		notes:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("136")),
		bar:       lipgloss.NewStyle().Foreground(accent),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(panelBorder).Padding(0, 1),
		priority: map[string]lipgloss.Style{
			"high":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
			"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("172")),
			"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		},
	}
}

func (s styles) priorityStyle(p string) lipgloss.Style {
	if st, ok := s.priority[p]; ok {
		return st
	}
	return s.subtle
}

// categoryStyle tints the header with the server-supplied accent color.
func (s styles) categoryStyle(color string) lipgloss.Style {
	if color == "" {
		return s.category
	}
	return s.category.Foreground(lipgloss.Color(color))
}
