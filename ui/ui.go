// Package ui implements the modal keyboard interface and the terminal
// renderer. Input handling is a single state machine: every keypress is
// dispatched against the current mode and either mutates the parameter
// store directly or returns a Command for the application loop.
package ui

// Mode is the active input mode. Exactly one mode is active at a time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu
	ModeVolume
	ModePitch
	ModeFilter
	ModeBrowser
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeMenu:
		return "MENU"
	case ModeVolume:
		return "VOLUME"
	case ModePitch:
		return "PITCH"
	case ModeFilter:
		return "FILTER"
	case ModeBrowser:
		return "BROWSER"
	}
	return "?"
}

// CommandKind identifies an action the application loop must perform on
// the machine's behalf.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdPlayOnce
	CmdPlayLoop
	CmdStop
	CmdToggleView
	CmdQuit
)

// Command is the result of handling one keypress. Path is set for the
// play commands.
type Command struct {
	Kind CommandKind
	Path string
}

var none = Command{Kind: CmdNone}
