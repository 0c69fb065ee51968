// Package preset loads startup settings and key bindings from a JSON
// file. Every field is optional; absent fields keep their defaults.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Ernestas-t/audirust/params"
	"github.com/Ernestas-t/audirust/ui"
)

// File is the JSON schema for player presets.
type File struct {
	Volume *float64          `json:"volume"`
	Speed  *float64          `json:"speed"`
	Cutoff *float64          `json:"cutoff"`
	Reverb *bool             `json:"reverb"`
	Keys   map[string]string `json:"keys"`
}

// Preset is a fully resolved configuration.
type Preset struct {
	Params params.Params
	Keys   ui.Keymap
}

// Defaults returns the built-in configuration.
func Defaults() Preset {
	return Preset{Params: params.Defaults(), Keys: ui.DefaultKeymap()}
}

// LoadJSON loads a preset JSON file and applies it on top of the
// defaults.
func LoadJSON(path string) (Preset, error) {
	p := Defaults()

	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	}
	if err := ApplyFile(&p, &f); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing configuration.
// Out-of-range parameter values are errors, not silently clamped, so a
// bad preset is caught at startup.
func ApplyFile(dst *Preset, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination preset")
	}
	if f == nil {
		return nil
	}

	if f.Volume != nil {
		if *f.Volume < params.MinVolume || *f.Volume > params.MaxVolume {
			return fmt.Errorf("volume must be in [%g, %g]", params.MinVolume, params.MaxVolume)
		}
		dst.Params.Volume = *f.Volume
	}
	if f.Speed != nil {
		if *f.Speed < params.MinSpeed || *f.Speed > params.MaxSpeed {
			return fmt.Errorf("speed must be in [%g, %g]", params.MinSpeed, params.MaxSpeed)
		}
		dst.Params.Speed = *f.Speed
	}
	if f.Cutoff != nil {
		if *f.Cutoff < params.MinCutoff || *f.Cutoff > params.MaxCutoff {
			return fmt.Errorf("cutoff must be in [%g, %g]", params.MinCutoff, params.MaxCutoff)
		}
		dst.Params.Cutoff = *f.Cutoff
	}
	if f.Reverb != nil {
		dst.Params.Reverb = *f.Reverb
	}

	if len(f.Keys) == 0 {
		return nil
	}
	actions := make([]string, 0, len(f.Keys))
	for k := range f.Keys {
		actions = append(actions, k)
	}
	sort.Strings(actions)
	for _, action := range actions {
		if err := dst.Keys.Set(action, f.Keys[action]); err != nil {
			return err
		}
	}
	return nil
}
