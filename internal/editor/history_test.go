package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

func TestHistoryRecordUndoRedo(t *testing.T) {
	d0 := pcb.NewDocument("h", 50, 50)
	d1 := d0.WithDesignRules(pcb.DesignRules{MinTraceWidth: 0.3})
	d2 := d1.WithNet(pcb.Net{ID: pcb.NewNetID(), Name: "GND"})

	h := NewHistory(d0)
	h.Record(d1)
	h.Record(d2)

	require.Same(t, d2, h.Present())
	require.True(t, h.Undo())
	require.Same(t, d1, h.Present())
	require.True(t, h.Undo())
	require.Same(t, d0, h.Present())

	require.True(t, h.Redo())
	require.True(t, h.Redo())
	require.Same(t, d2, h.Present())
}

func TestHistoryBoundaryNoOps(t *testing.T) {
	h := NewHistory(pcb.NewDocument("h", 50, 50))
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistoryRecordClearsFuture(t *testing.T) {
	d0 := pcb.NewDocument("h", 50, 50)
	d1 := d0.WithDesignRules(pcb.DesignRules{MinTraceWidth: 0.3})
	d2 := d0.WithDesignRules(pcb.DesignRules{MinTraceWidth: 0.4})

	h := NewHistory(d0)
	h.Record(d1)
	require.True(t, h.Undo())
	h.Record(d2)

	assert.False(t, h.CanRedo(), "record must discard the redo tail")
	assert.Same(t, d2, h.Present())
}

func TestHistoryReplaceKeepsFrames(t *testing.T) {
	d0 := pcb.NewDocument("h", 50, 50)
	d1 := d0.WithDesignRules(pcb.DesignRules{MinTraceWidth: 0.3})

	h := NewHistory(d0)
	h.Record(d1)
	h.Replace(d1.WithDrcResult(nil))

	assert.Equal(t, 1, h.Depth(), "replace must not add a frame")
	require.True(t, h.Undo())
	assert.Same(t, d0, h.Present())
}
