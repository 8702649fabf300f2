package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NewNote     key.Binding
	Edit        key.Binding
	Color       key.Binding
	Delete      key.Binding
	Group       key.Binding
	Ungroup     key.Binding
	SelectAll   key.Binding
	Cancel      key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Copy        key.Binding
	Paste       key.Binding
	NewBoard    key.Binding
	Rename      key.Binding
	DeleteBoard key.Binding
	PrevBoard   key.Binding
	NextBoard   key.Binding
	PanLeft     key.Binding
	PanDown     key.Binding
	PanUp       key.Binding
	PanRight    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ZoomReset   key.Binding
	ClearBoard  key.Binding
	Save        key.Binding
	ExportPNG   key.Binding
	ExportTXT   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NewNote:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note at pointer")),
		Edit:        key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit note")),
		Color:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle colour")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d/del", "delete selected")),
		Group:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group selected")),
		Ungroup:     key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "ungroup selected")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel / clear selection")),
		Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:        key.NewBinding(key.WithKeys("U", "ctrl+r"), key.WithHelp("U", "redo")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy note text")),
		Paste:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste as note")),
		NewBoard:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "new board")),
		Rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename board")),
		DeleteBoard: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete board")),
		PrevBoard:   key.NewBinding(key.WithKeys("[", "{"), key.WithHelp("[", "previous board")),
		NextBoard:   key.NewBinding(key.WithKeys("]", "}"), key.WithHelp("]", "next board")),
		PanLeft:     key.NewBinding(key.WithKeys("h", "left", "H", "shift+left"), key.WithHelp("h/←", "pan left")),
		PanDown:     key.NewBinding(key.WithKeys("j", "down", "J", "shift+down"), key.WithHelp("j/↓", "pan down")),
		PanUp:       key.NewBinding(key.WithKeys("k", "up", "K", "shift+up"), key.WithHelp("k/↑", "pan up")),
		PanRight:    key.NewBinding(key.WithKeys("l", "right", "L", "shift+right"), key.WithHelp("l/→", "pan right")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		ZoomReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		ClearBoard:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear board")),
		Save:        key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save now")),
		ExportPNG:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "export PNG")),
		ExportTXT:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "export text")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewNote, k.Edit, k.Color, k.Group, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewNote, k.Edit, k.Color, k.Delete, k.Copy, k.Paste},
		{k.SelectAll, k.Group, k.Ungroup, k.Cancel, k.Undo, k.Redo},
		{k.NewBoard, k.Rename, k.DeleteBoard, k.PrevBoard, k.NextBoard, k.ClearBoard},
		{k.PanLeft, k.PanDown, k.PanUp, k.PanRight, k.ZoomIn, k.ZoomOut, k.ZoomReset},
		{k.Save, k.ExportPNG, k.ExportTXT, k.Help, k.Quit},
	}
}

// panSpeed doubles the step for shifted keys.
func panSpeed(k string) float64 {
	switch k {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
