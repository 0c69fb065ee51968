package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ernestas-t/audirust/ui"
)

func TestLoadJSONAppliesParamsAndKeys(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "preset.json")
	content := `{
  "volume": 1.4,
  "speed": 0.8,
  "cutoff": 3000,
  "reverb": true,
  "keys": {
    "play_loop": "l",
    "quit": "x"
  }
}`
	if err := os.WriteFile(presetPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	p, err := LoadJSON(presetPath)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if p.Params.Volume != 1.4 || p.Params.Speed != 0.8 || p.Params.Cutoff != 3000 {
		t.Fatalf("params mismatch: %+v", p.Params)
	}
	if !p.Params.Reverb {
		t.Fatalf("reverb not applied: %+v", p.Params)
	}
	if p.Keys.PlayLoop != 'l' || p.Keys.Quit != 'x' {
		t.Fatalf("key overrides mismatch: %+v", p.Keys)
	}
	if p.Keys.PlayOnce != ui.DefaultKeymap().PlayOnce {
		t.Fatalf("unset binding changed: %+v", p.Keys)
	}
}

func TestLoadJSONPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "preset.json")
	if err := os.WriteFile(presetPath, []byte(`{"speed": 1.5}`), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	p, err := LoadJSON(presetPath)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	d := Defaults()
	if p.Params.Speed != 1.5 {
		t.Fatalf("speed mismatch: %f", p.Params.Speed)
	}
	if p.Params.Volume != d.Params.Volume || p.Params.Cutoff != d.Params.Cutoff || p.Params.Reverb != d.Params.Reverb {
		t.Fatalf("unset params changed: %+v", p.Params)
	}
	if p.Keys != d.Keys {
		t.Fatalf("keys changed without overrides: %+v", p.Keys)
	}
}

func TestLoadJSONRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "preset.json")
	if err := os.WriteFile(presetPath, []byte(`{"volume": 5.0}`), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if _, err := LoadJSON(presetPath); err == nil {
		t.Fatalf("expected error for out-of-range volume")
	}
}

func TestLoadJSONRejectsUnknownAction(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "preset.json")
	if err := os.WriteFile(presetPath, []byte(`{"keys": {"warp": "w"}}`), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if _, err := LoadJSON(presetPath); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	p, err := LoadJSON(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if p.Params != Defaults().Params {
		t.Fatalf("missing file did not return defaults: %+v", p.Params)
	}
}
