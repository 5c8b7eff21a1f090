package main

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/cutscene/common"
)

const (
	camHalfLife = 0.25
	camDeadZone = 48.0
)

// Camera frames a group of targets by damping toward their centroid. A small
// dead zone keeps tiny movements from shaking the view.
type Camera struct {
	viewW, viewH   float64
	worldW, worldH float64
	x, y           float64
}

func NewCamera(viewW, viewH, worldW, worldH float64) *Camera {
	return &Camera{
		viewW:  viewW,
		viewH:  viewH,
		worldW: worldW,
		worldH: worldH,
	}
}

// Update moves the camera toward the centroid of targets. No targets leaves
// the camera where it is.
func (c *Camera) Update(dt float64, targets []cp.Vector) {
	if len(targets) == 0 {
		return
	}
	var centroid cp.Vector
	for _, t := range targets {
		centroid = centroid.Add(t)
	}
	centroid = centroid.Mult(1 / float64(len(targets)))

	wantX := centroid.X - c.viewW/2
	wantY := centroid.Y - c.viewH/2
	if dx := wantX - c.x; dx > camDeadZone || dx < -camDeadZone {
		c.x = common.Damp(c.x, wantX, camHalfLife, dt)
	}
	if dy := wantY - c.y; dy > camDeadZone || dy < -camDeadZone {
		c.y = common.Damp(c.y, wantY, camHalfLife, dt)
	}

	c.x = common.Clamp(c.x, 0, c.worldW-c.viewW)
	c.y = common.Clamp(c.y, 0, c.worldH-c.viewH)
}

// Offset is the world-space position of the view's top-left corner.
func (c *Camera) Offset() (float64, float64) {
	return c.x, c.y
}
