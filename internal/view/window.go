package view

import (
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/OpenTraceLab/OpenTracePCB/internal/editor"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// Open runs the interactive editor window until it is closed. Gio owns the
// main thread, so the event loop runs on a goroutine and app.Main blocks.
func Open(ed *editor.Editor, title, theme string) {
	go func() {
		w := new(app.Window)
		w.Option(app.Title(title))
		w.Option(app.Size(unit.Dp(1200), unit.Dp(900)))

		if err := runWindow(w, ed, theme); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func runWindow(w *app.Window, ed *editor.Editor, theme string) error {
	palette := PaletteByName(theme)
	camera := NewCamera(1200, 900)
	camera.Fit(ed.Document().BoundingBox())

	var ops op.Ops

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			ops.Reset()
			gtx := layout.Context{
				Ops:         &ops,
				Constraints: layout.Exact(e.Size),
				Metric:      e.Metric,
				Now:         e.Now,
				Source:      e.Source,
			}
			camera.ScreenWidth = e.Size.X
			camera.ScreenHeight = e.Size.Y

			for {
				ev, ok := gtx.Event(key.Filter{})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					if handleKey(ke, ed, camera) {
						return nil
					}
					w.Invalidate()
				}
			}

			for {
				ev, ok := gtx.Event(pointer.Filter{
					Kinds: pointer.Press | pointer.Scroll | pointer.Move | pointer.Drag,
				})
				if !ok {
					break
				}
				if pe, ok := ev.(pointer.Event); ok {
					handlePointer(pe, ed, camera)
					w.Invalidate()
				}
			}

			paint.Fill(&ops, palette.Background)
			PaintBoard(gtx, camera, palette, ed.Snapshot())
			e.Frame(&ops)
		}
	}
}

// handleKey translates Gio key names into the editor's keyboard contract.
// Window-level keys (quit, fit view) are handled here. Returns true to close.
func handleKey(ke key.Event, ed *editor.Editor, camera *Camera) bool {
	name := ""
	switch ke.Name {
	case "Q":
		if ke.Modifiers.Contain(key.ModShortcut) {
			return true
		}
		return false
	case key.NameHome:
		camera.Fit(ed.Document().BoundingBox())
		return false
	case key.NameReturn:
		switch ed.Mode() {
		case editor.ModeRouting:
			ed.FinishRoute()
		case editor.ModeDrawingZone:
			ed.FinishZone()
		}
		return false
	case key.NameEscape:
		name = "Escape"
	case key.NameSpace:
		name = "Space"
	case key.NameDeleteForward:
		name = "Delete"
	case key.NameDeleteBackward:
		name = "Backspace"
	default:
		name = string(ke.Name)
	}

	ed.HandleKey(editor.KeyEvent{
		Name:  name,
		Ctrl:  ke.Modifiers.Contain(key.ModShortcut),
		Shift: ke.Modifiers.Contain(key.ModShift),
	})
	return false
}

func handlePointer(pe pointer.Event, ed *editor.Editor, camera *Camera) {
	world := camera.ScreenToWorld(float64(pe.Position.X), float64(pe.Position.Y))

	switch pe.Kind {
	case pointer.Move, pointer.Drag:
		ed.SetMouse(world)

	case pointer.Scroll:
		factor := 1.0 + float64(pe.Scroll.Y)*0.1
		camera.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)

	case pointer.Press:
		switch {
		case pe.Buttons == pointer.ButtonSecondary:
			// Right click finishes the current multi-step operation.
			switch ed.Mode() {
			case editor.ModeRouting:
				ed.FinishRoute()
			case editor.ModeDrawingZone:
				ed.FinishZone()
			default:
				ed.CancelCurrent()
			}
		case pe.Buttons == pointer.ButtonPrimary:
			primaryClick(ed, world)
		}
	}
}

// primaryClick routes a left click by state machine phase: extend the active
// operation, or start one when the track tool is armed.
func primaryClick(ed *editor.Editor, world pcb.Position) {
	switch ed.Mode() {
	case editor.ModeRouting:
		ed.AddRoutePoint(world)
	case editor.ModeDrawingZone:
		ed.AddZonePoint(world)
	case editor.ModePlacing:
		_, _ = ed.FinishPlacement("", "")
	case editor.ModeIdle:
		if ed.Tool() == editor.ToolTrack {
			// New routes begin unassigned; netlist binding re-points them.
			_ = ed.StartRoute(world, pcb.NoNet)
		}
	}
}
