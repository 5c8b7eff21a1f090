package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/cutscene/common"
	"github.com/milk9111/cutscene/timeline"
)

// SceneLight is the global lighting rig a light track drives. It starts at a
// neutral daylight default so the mixer has something real to capture and
// restore.
type SceneLight struct {
	Color     mgl64.Vec3
	Intensity float64
}

func NewSceneLight() *SceneLight {
	return &SceneLight{
		Color:     mgl64.Vec3{1, 1, 1},
		Intensity: 0.8,
	}
}

// Binding exposes the light to a light track.
func (l *SceneLight) Binding() *timeline.Binding {
	return &timeline.Binding{
		GetLight: func() (mgl64.Vec3, float64) { return l.Color, l.Intensity },
		SetLight: func(c mgl64.Vec3, intensity float64) {
			l.Color = c
			l.Intensity = intensity
		},
	}
}

// Shade tints a flat color by the current light, for full-surface fills.
func (l *SceneLight) Shade(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: shadeChannel(c.R, l.Color.X()*l.Intensity),
		G: shadeChannel(c.G, l.Color.Y()*l.Intensity),
		B: shadeChannel(c.B, l.Color.Z()*l.Intensity),
		A: c.A,
	}
}

// Scale folds the current light into draw options so sprites pick up the
// same tint as the ground.
func (l *SceneLight) Scale(op *ebiten.DrawImageOptions) {
	op.ColorScale.Scale(
		float32(common.Clamp(l.Color.X()*l.Intensity, 0, 1)),
		float32(common.Clamp(l.Color.Y()*l.Intensity, 0, 1)),
		float32(common.Clamp(l.Color.Z()*l.Intensity, 0, 1)),
		1,
	)
}

func shadeChannel(c uint8, scale float64) uint8 {
	return uint8(common.Clamp(float64(c)*scale, 0, 255))
}
