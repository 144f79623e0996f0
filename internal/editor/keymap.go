package editor

// KeyEvent is a normalized keyboard input. Name follows the conventions of
// the windowing layer: single characters are upper case, specials are
// "Space", "Escape", "Delete", "Backspace".
type KeyEvent struct {
	Name  string
	Ctrl  bool // Cmd on macOS
	Shift bool
}

// HandleKey dispatches the keyboard contract. V arms the select tool, or
// places a via when a route is in progress; Space switches the route layer
// mid-route; Escape cancels the current operation or clears the selection.
// Reports whether the event was consumed.
func (e *Editor) HandleKey(ev KeyEvent) bool {
	if ev.Ctrl {
		switch ev.Name {
		case "Z":
			if ev.Shift {
				e.Redo()
			} else {
				e.Undo()
			}
			return true
		case "Y":
			e.Redo()
			return true
		case "A":
			e.SelectAll()
			return true
		}
		return false
	}

	switch ev.Name {
	case "V":
		if e.Mode() == ModeRouting {
			_, err := e.PlaceViaAndSwitchLayer()
			return err == nil
		}
		e.SetTool(ToolSelect)
		return true
	case "X":
		e.SetTool(ToolTrack)
		return true
	case "Space":
		if e.Mode() == ModeRouting {
			e.SwitchRouteLayer()
			return true
		}
		return false
	case "R":
		if e.Mode() == ModePlacing {
			e.RotatePlacement()
			return true
		}
		return false
	case "F":
		if e.Mode() == ModePlacing {
			e.FlipPlacement()
			return true
		}
		return false
	case "Escape":
		return e.CancelCurrent()
	case "Delete", "Backspace":
		e.DeleteSelection()
		return true
	}
	return false
}
