package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"pinboard/internal/canvas"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#aaaaaa"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#ffd700"))
	tabBarStyle = lipgloss.NewStyle().Background(lipgloss.Color("#262626"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	editorStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help {
		return m.renderHelp()
	}

	var result strings.Builder
	result.WriteString(m.renderTabBar())
	result.WriteString("\n")

	lines := rasterize(m.ws.Active().Snapshot(), m.canvasCols(), m.canvasRows()).styledLines()
	if m.mode == ModeEditing {
		lines = m.overlayEditor(lines)
	}
	result.WriteString(strings.Join(lines, "\n"))
	result.WriteString("\n")
	result.WriteString(truncate.String(m.statusLine(), uint(m.width)))
	return result.String()
}

func (m model) tabLabels() []string {
	boards := m.ws.Boards()
	active := m.ws.ActiveIndex()
	labels := make([]string, len(boards))
	for i, b := range boards {
		if i == active {
			labels[i] = activeTabStyle.Render(b.Name)
		} else {
			labels[i] = tabStyle.Render(b.Name)
		}
	}
	return labels
}

func (m model) renderTabBar() string {
	bar := lipgloss.JoinHorizontal(lipgloss.Top, m.tabLabels()...)
	bar = truncate.String(bar, uint(m.width))
	if pad := m.width - lipgloss.Width(bar); pad > 0 {
		bar += tabBarStyle.Render(strings.Repeat(" ", pad))
	}
	return bar
}

// tabAt is the board whose tab covers column x of the tab bar.
func (m model) tabAt(x int) (canvas.Board, bool) {
	boards := m.ws.Boards()
	left := 0
	for i, label := range m.tabLabels() {
		right := left + lipgloss.Width(label)
		if x >= left && x < right {
			return boards[i], true
		}
		left = right
	}
	return canvas.Board{}, false
}

// overlayEditor replaces the bottom of the canvas with the note editor.
func (m model) overlayEditor(lines []string) []string {
	box := strings.Split(editorStyle.Width(max(10, m.width-2)).Render(m.editor.View()), "\n")
	start := max(0, len(lines)-len(box))
	for i := range box {
		if start+i < len(lines) {
			lines[start+i] = box[i]
		}
	}
	return lines
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeRenaming:
		return "RENAME"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeEditing:
		return "Mode: EDIT | Ctrl+S=save, Esc=cancel"
	case ModeRenaming:
		status := "Mode: RENAME | Board name: " + m.input.View() + " | Enter=confirm, Esc=cancel"
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeFileInput:
		op := "Export PNG"
		if m.fileOp == FileOpExportTXT {
			op = "Export text"
		}
		status := fmt.Sprintf("Mode: FILE | %s filename: %s | Enter=confirm, Esc=cancel", op, m.input.View())
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeConfirm:
		return "Mode: CONFIRM | " + m.confirmMessage()
	}

	c := m.ws.Active()
	snap := c.Snapshot()
	status := fmt.Sprintf("Mode: %s | Board: %s | Zoom: %d%% | Notes: %d",
		m.modeString(), snap.Board.Name, snap.Board.Viewport.Percent(), len(snap.Notes))
	if len(snap.Selected) > 0 {
		status += fmt.Sprintf(" | Selected: %d", len(snap.Selected))
	}
	if snap.Gesture != canvas.GestureNone {
		status += " | " + snap.Gesture.String()
	}
	if m.saver != nil {
		if pending := m.saver.Pending(); pending > 0 {
			status += fmt.Sprintf(" | Unsaved: %d", pending)
		}
	}
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | " + m.helpView.ShortHelpView([]key.Binding{m.keys.Help, m.keys.Quit})
	}
	return status
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Quit Pinboard? (y/n)"
	case ConfirmDeleteNotes:
		return fmt.Sprintf("Delete %d selected notes? (y/n)", len(m.ws.Active().Selected()))
	case ConfirmDeleteBoard:
		return fmt.Sprintf("Delete board %s and its notes? (y/n)", m.ws.Active().Board().Name)
	case ConfirmClearBoard:
		return fmt.Sprintf("Delete every note on %s? (y/n)", m.ws.Active().Board().Name)
	default:
		return "(y/n)"
	}
}

func helpLines(keys keyMap) []string {
	lines := []string{
		"Pinboard Help",
		"=============",
		"",
		"Mouse:",
		"------",
		"  Left drag on empty canvas      Select notes inside the rectangle",
		"  Shift/Ctrl/Alt + release       Add the rectangle to the selection",
		"  Left drag on a note            Move the note with its group and the selection",
		"  Shift/Ctrl/Alt + click note    Toggle the note in the selection",
		"  Right or middle drag           Pan the board",
		"  Wheel                          Zoom at the pointer",
		"  Double click                   New note on empty canvas, edit on a note",
		"  Click a tab                    Switch board",
		"",
	}
	sections := []string{"Notes:", "Selection:", "Boards:", "View:", "Files:"}
	for i, column := range keys.FullHelp() {
		lines = append(lines, sections[i], strings.Repeat("-", len(sections[i])))
		for _, b := range column {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-30s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"Editing:",
		"--------",
		"  Ctrl+S                         Save note text",
		"  Esc                            Cancel editing",
		"",
		"========== Thanks for using Pinboard! ==========",
	)
	return lines
}

func (m model) renderHelp() string {
	lines := helpLines(m.keys)
	visibleHeight := max(1, m.height-1)

	startLine := min(m.helpScroll, max(0, len(lines)-visibleHeight))
	endLine := min(len(lines), startLine+visibleHeight)

	result := strings.Join(lines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(lines))
	return result
}
