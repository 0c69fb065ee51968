package ui

import (
	"fmt"

	"github.com/eiannone/keyboard"

	"github.com/Ernestas-t/audirust/params"
)

// Selector is the file browser surface the machine drives in browser
// mode.
type Selector interface {
	SelectNext()
	SelectPrev()
	// Descend enters the selected directory and reports whether it did;
	// false means the selection is a playable file.
	Descend() bool
	Ascend()
	// Selected returns the selection's path and whether it is a
	// directory. ok is false when the listing is empty.
	Selected() (path string, dir bool, ok bool)
}

const maxMessages = 5

// Machine dispatches keypresses against the current mode.
type Machine struct {
	mode     Mode
	keys     Keymap
	store    *params.Store
	files    Selector
	messages []string
}

// NewMachine returns a machine in normal mode.
func NewMachine(keys Keymap, store *params.Store, files Selector) *Machine {
	return &Machine{mode: ModeNormal, keys: keys, store: store, files: files}
}

// Mode returns the active input mode.
func (m *Machine) Mode() Mode { return m.mode }

// Keys returns the active bindings.
func (m *Machine) Keys() Keymap { return m.keys }

// Messages returns the most recent status messages, oldest first.
func (m *Machine) Messages() []string { return m.messages }

// Notef appends a status message, dropping the oldest past the cap.
func (m *Machine) Notef(format string, args ...any) {
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// Handle processes one keypress. Unrecognized keys are no-ops.
func (m *Machine) Handle(ch rune, key keyboard.Key) Command {
	if key == keyboard.KeyCtrlC {
		return Command{Kind: CmdQuit}
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormal(ch, key)
	case ModeMenu:
		return m.handleMenu(ch, key)
	case ModeVolume, ModePitch, ModeFilter:
		return m.handleAdjust(ch, key)
	case ModeBrowser:
		return m.handleBrowser(ch, key)
	}
	return none
}

func (m *Machine) handleNormal(ch rune, key keyboard.Key) Command {
	if key == keyboard.KeyEsc {
		return Command{Kind: CmdStop}
	}

	switch ch {
	case m.keys.Quit:
		return Command{Kind: CmdQuit}
	case m.keys.PlayOnce:
		return m.playCommand(CmdPlayOnce)
	case m.keys.PlayLoop:
		return m.playCommand(CmdPlayLoop)
	case m.keys.ToggleReverb:
		on := m.store.ToggleReverb()
		if on {
			m.Notef("reverb on")
		} else {
			m.Notef("reverb off")
		}
	case m.keys.ToggleView:
		return Command{Kind: CmdToggleView}
	case m.keys.Menu:
		m.mode = ModeMenu
	}
	return none
}

func (m *Machine) playCommand(kind CommandKind) Command {
	path, dir, ok := m.files.Selected()
	if !ok {
		m.Notef("no file selected")
		return none
	}
	if dir {
		m.Notef("not a file: %s", path)
		return none
	}
	return Command{Kind: kind, Path: path}
}

func (m *Machine) handleMenu(ch rune, key keyboard.Key) Command {
	if key == keyboard.KeyEsc {
		m.mode = ModeNormal
		return none
	}
	switch ch {
	case m.keys.MenuVolume:
		m.mode = ModeVolume
	case m.keys.MenuPitch:
		m.mode = ModePitch
	case m.keys.MenuFilter:
		m.mode = ModeFilter
	case m.keys.MenuBrowser:
		m.mode = ModeBrowser
	}
	return none
}

func (m *Machine) handleAdjust(ch rune, key keyboard.Key) Command {
	var dir float64
	switch {
	case key == keyboard.KeyEsc:
		m.mode = ModeNormal
		return none
	case key == keyboard.KeyArrowUp || ch == m.keys.Increase:
		dir = 1
	case key == keyboard.KeyArrowDown || ch == m.keys.Decrease:
		dir = -1
	default:
		return none
	}

	switch m.mode {
	case ModeVolume:
		m.store.AdjustVolume(dir * params.VolumeStep)
	case ModePitch:
		m.store.AdjustSpeed(dir * params.SpeedStep)
	case ModeFilter:
		m.store.AdjustCutoff(dir * params.CutoffStep)
	}
	return none
}

func (m *Machine) handleBrowser(ch rune, key keyboard.Key) Command {
	switch {
	case key == keyboard.KeyEsc:
		m.mode = ModeNormal
	case key == keyboard.KeyEnter:
		if m.files.Descend() {
			return none
		}
		cmd := m.playCommand(CmdPlayOnce)
		if cmd.Kind == CmdPlayOnce {
			m.mode = ModeNormal
		}
		return cmd
	case ch == m.keys.BrowserNext:
		m.files.SelectNext()
	case ch == m.keys.BrowserPrev:
		m.files.SelectPrev()
	case ch == m.keys.BrowserParent:
		m.files.Ascend()
	}
	return none
}
