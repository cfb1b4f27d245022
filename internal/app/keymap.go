package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the app responds to. Grouped per pane;
// help rows come from ShortHelp.
type keyMap struct {
	Quit        key.Binding
	FocusNext   key.Binding
	Up          key.Binding
	Down        key.Binding
	Back        key.Binding
	Enter       key.Binding
	Add         key.Binding
	Replace     key.Binding
	PlayPause   key.Binding
	Stop        key.Binding
	NextTrack   key.Binding
	PrevTrack   key.Binding
	SeekFwd     key.Binding
	SeekBack    key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Mute        key.Binding
	Delete      key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	Clear       key.Binding
	Undo        key.Binding
	Redo        key.Binding
	RefreshLib  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		FocusNext:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Back:       key.NewBinding(key.WithKeys("h", "left", "esc"), key.WithHelp("h/←", "back")),
		Enter:      key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open/play")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to queue")),
		Replace:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replace queue")),
		PlayPause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		NextTrack:  key.NewBinding(key.WithKeys("pgdown", "n"), key.WithHelp("n", "next track")),
		PrevTrack:  key.NewBinding(key.WithKeys("pgup", "p"), key.WithHelp("p", "previous track")),
		SeekFwd:    key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "seek +5s")),
		SeekBack:   key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "seek -5s")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove from queue")),
		MoveUp:     key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear queue")),
		Undo:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo queue edit")),
		Redo:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo queue edit")),
		RefreshLib: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rescan library")),
	}
}
