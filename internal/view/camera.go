// Package view turns editor snapshots into pixels: a pan/zoom camera, layer
// palettes and a Gio paint path. It only ever reads Snapshot copies.
package view

import (
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// Camera is a viewport onto the board. World coordinates are board
// millimeters with Y increasing downward, matching the document model, so no
// axis flip is needed between model and screen.
type Camera struct {
	CenterX float64
	CenterY float64

	// Zoom is pixels per millimeter.
	Zoom float64

	ScreenWidth  int
	ScreenHeight int
}

func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         10.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts board millimeters to screen pixels.
func (c *Camera) WorldToScreen(pos pcb.Position) (float64, float64) {
	x := (pos.X-c.CenterX)*c.Zoom + float64(c.ScreenWidth)/2
	y := (pos.Y-c.CenterY)*c.Zoom + float64(c.ScreenHeight)/2
	return x, y
}

// ScreenToWorld converts screen pixels to board millimeters.
func (c *Camera) ScreenToWorld(screenX, screenY float64) pcb.Position {
	return pcb.Position{
		X: (screenX-float64(c.ScreenWidth)/2)/c.Zoom + c.CenterX,
		Y: (screenY-float64(c.ScreenHeight)/2)/c.Zoom + c.CenterY,
	}
}

// Pan moves the camera by a screen-pixel offset.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY -= deltaY / c.Zoom
}

// ZoomAt zooms about a screen position so the point under the cursor stays
// put. Factors above 1 zoom in.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	before := c.ScreenToWorld(screenX, screenY)

	c.Zoom *= factor
	if c.Zoom < 0.1 {
		c.Zoom = 0.1
	}
	if c.Zoom > 2000 {
		c.Zoom = 2000
	}

	after := c.ScreenToWorld(screenX, screenY)
	c.CenterX += before.X - after.X
	c.CenterY += before.Y - after.Y
}

// Fit centers the camera on a bounding box with a small margin.
func (c *Camera) Fit(box pcb.BoundingBox) {
	if box.IsEmpty() || box.Width() <= 0 || box.Height() <= 0 ||
		c.ScreenWidth == 0 || c.ScreenHeight == 0 {
		return
	}
	center := box.Center()
	c.CenterX = center.X
	c.CenterY = center.Y

	margin := 1.1
	zoomX := float64(c.ScreenWidth) / (box.Width() * margin)
	zoomY := float64(c.ScreenHeight) / (box.Height() * margin)
	if zoomX < zoomY {
		c.Zoom = zoomX
	} else {
		c.Zoom = zoomY
	}
}
