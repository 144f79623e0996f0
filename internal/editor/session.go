package editor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Session holds per-user editing preferences. Grid and visibility are UI
// state: they live beside the board file, never inside it.
type Session struct {
	GridSize     float64  `yaml:"grid_size"`
	SnapToGrid   bool     `yaml:"snap_to_grid"`
	ActiveLayer  string   `yaml:"active_layer"`
	HiddenLayers []string `yaml:"hidden_layers,omitempty"`
	Theme        string   `yaml:"theme"`
}

// DefaultSession returns the out-of-the-box preferences.
func DefaultSession() Session {
	return Session{
		GridSize:    0.25,
		SnapToGrid:  true,
		ActiveLayer: "F.Cu",
		Theme:       "classic",
	}
}

// LoadSession reads preferences from a YAML file, falling back to defaults
// when the file does not exist.
func LoadSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSession(), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("editor: read session: %w", err)
	}
	s := DefaultSession()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("editor: parse session: %w", err)
	}
	return s, nil
}

// Save writes the preferences to a YAML file.
func (s Session) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("editor: encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("editor: write session: %w", err)
	}
	return nil
}

// ApplySession configures the editor from saved preferences. Layer names not
// present on this board are skipped.
func (e *Editor) ApplySession(s Session) {
	e.SetGrid(s.GridSize, s.SnapToGrid)

	doc := e.Document()
	if layer, ok := doc.LayerByName(s.ActiveLayer); ok {
		_ = e.SetActiveLayer(layer.ID)
	}
	for _, name := range s.HiddenLayers {
		if layer, ok := doc.LayerByName(name); ok {
			e.SetLayerHidden(layer.ID, true)
		}
	}
}

// SessionState captures the current preferences for saving.
func (e *Editor) SessionState(theme string) Session {
	snap := e.Snapshot()
	s := Session{
		GridSize:   snap.GridSize,
		SnapToGrid: snap.SnapToGrid,
		Theme:      theme,
	}
	if layer, ok := snap.Doc.Layers[snap.ActiveLayer]; ok {
		s.ActiveLayer = layer.Name
	}
	for id, hidden := range snap.Hidden {
		if !hidden {
			continue
		}
		if layer, ok := snap.Doc.Layers[id]; ok {
			s.HiddenLayers = append(s.HiddenLayers, layer.Name)
		}
	}
	return s
}
