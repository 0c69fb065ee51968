package ui

import "fmt"

// Keymap holds the rune bindings for every mode. Special keys (Esc,
// Enter, arrows, Ctrl+C) are fixed and not remappable.
type Keymap struct {
	PlayOnce     rune
	PlayLoop     rune
	ToggleReverb rune
	ToggleView   rune
	Menu         rune
	Quit         rune

	MenuVolume  rune
	MenuPitch   rune
	MenuFilter  rune
	MenuBrowser rune

	Increase rune
	Decrease rune

	BrowserNext   rune
	BrowserPrev   rune
	BrowserParent rune
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		PlayOnce:     'p',
		PlayLoop:     'r',
		ToggleReverb: 'e',
		ToggleView:   's',
		Menu:         'm',
		Quit:         'q',

		MenuVolume:  'v',
		MenuPitch:   'p',
		MenuFilter:  'f',
		MenuBrowser: 'b',

		Increase: 'k',
		Decrease: 'j',

		BrowserNext:   'j',
		BrowserPrev:   'k',
		BrowserParent: 'h',
	}
}

// Set rebinds the named action to the first rune of key. Unknown action
// names and empty keys are errors so a bad preset is reported instead
// of silently ignored.
func (k *Keymap) Set(action, key string) error {
	runes := []rune(key)
	if len(runes) != 1 {
		return fmt.Errorf("ui: binding for %q must be a single character, got %q", action, key)
	}
	r := runes[0]

	switch action {
	case "play_once":
		k.PlayOnce = r
	case "play_loop":
		k.PlayLoop = r
	case "toggle_reverb":
		k.ToggleReverb = r
	case "toggle_view":
		k.ToggleView = r
	case "menu":
		k.Menu = r
	case "quit":
		k.Quit = r
	case "menu_volume":
		k.MenuVolume = r
	case "menu_pitch":
		k.MenuPitch = r
	case "menu_filter":
		k.MenuFilter = r
	case "menu_browser":
		k.MenuBrowser = r
	case "increase":
		k.Increase = r
	case "decrease":
		k.Decrease = r
	case "browser_next":
		k.BrowserNext = r
	case "browser_prev":
		k.BrowserPrev = r
	case "browser_parent":
		k.BrowserParent = r
	default:
		return fmt.Errorf("ui: unknown action %q", action)
	}
	return nil
}
