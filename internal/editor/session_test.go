package editor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	s := Session{
		GridSize:     0.5,
		SnapToGrid:   false,
		ActiveLayer:  "B.Cu",
		HiddenLayers: []string{"F.SilkS", "B.SilkS"},
		Theme:        "classic",
	}
	require.NoError(t, s.Save(path))

	got, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoadSessionMissingFileDefaults(t *testing.T) {
	got, err := LoadSession(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSession(), got)
}

func TestApplySession(t *testing.T) {
	ed, _ := newBoardEditor(t)
	doc := ed.Document()

	ed.ApplySession(Session{
		GridSize:     1.0,
		SnapToGrid:   false,
		ActiveLayer:  "B.Cu",
		HiddenLayers: []string{"F.Fab", "NoSuchLayer"},
	})

	snap := ed.Snapshot()
	assert.Equal(t, 1.0, snap.GridSize)
	assert.False(t, snap.SnapToGrid)

	bottom, ok := doc.LayerByName("B.Cu")
	require.True(t, ok)
	assert.Equal(t, bottom.ID, snap.ActiveLayer)

	fab, ok := doc.LayerByName("F.Fab")
	require.True(t, ok)
	assert.True(t, snap.Hidden[fab.ID])

	// Round-trip back out of the editor.
	state := ed.SessionState("classic")
	assert.Equal(t, "B.Cu", state.ActiveLayer)
	assert.Contains(t, state.HiddenLayers, "F.Fab")
}
