package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/cutscene/timeline"
)

// Probe is a stand-in binding target so any cutscene can be inspected
// without the game running. It records the most recent track writes and a
// short dispatch history.
type Probe struct {
	name string
	kind timeline.PayloadKind

	lightColor mgl64.Vec3
	intensity  float64
	position   mgl64.Vec2
	dispatched []string
}

func newProbe(name string, kind timeline.PayloadKind) *Probe {
	return &Probe{
		name: name,
		kind: kind,

		// Neutral defaults so restore-on-stop has something visible to
		// return to.
		lightColor: mgl64.Vec3{1, 1, 1},
		intensity:  1,
	}
}

func (p *Probe) binding() *timeline.Binding {
	return &timeline.Binding{
		GetLight: func() (mgl64.Vec3, float64) { return p.lightColor, p.intensity },
		SetLight: func(c mgl64.Vec3, intensity float64) {
			p.lightColor = c
			p.intensity = intensity
		},
		GetPosition: func() mgl64.Vec2 { return p.position },
		SetPosition: func(v mgl64.Vec2) { p.position = v },
		Dispatch: func(pl timeline.Payload) {
			p.dispatched = append(p.dispatched, pl.Command)
			if len(p.dispatched) > 6 {
				p.dispatched = p.dispatched[len(p.dispatched)-6:]
			}
		},
	}
}

// Readout is the one-line HUD summary for this probe.
func (p *Probe) Readout() string {
	switch p.kind {
	case timeline.PayloadLight:
		return fmt.Sprintf("%s [light] color=(%.2f %.2f %.2f) intensity=%.2f",
			p.name, p.lightColor.X(), p.lightColor.Y(), p.lightColor.Z(), p.intensity)
	case timeline.PayloadMove:
		return fmt.Sprintf("%s [move] pos=(%.1f %.1f)", p.name, p.position.X(), p.position.Y())
	case timeline.PayloadCommand:
		return fmt.Sprintf("%s [command] pos=(%.1f %.1f) fired=%v", p.name, p.position.X(), p.position.Y(), p.dispatched)
	}
	return p.name
}
