package timeline

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// lightProbe is a fake binding target for light tracks.
type lightProbe struct {
	color     mgl64.Vec3
	intensity float64
	sets      int
}

func (p *lightProbe) binding() *Binding {
	return &Binding{
		GetLight: func() (mgl64.Vec3, float64) { return p.color, p.intensity },
		SetLight: func(c mgl64.Vec3, i float64) {
			p.color = c
			p.intensity = i
			p.sets++
		},
	}
}

// moveProbe is a fake binding target for move and command tracks.
type moveProbe struct {
	pos        mgl64.Vec2
	sets       int
	dispatched []string
}

func (p *moveProbe) binding() *Binding {
	return &Binding{
		GetPosition: func() mgl64.Vec2 { return p.pos },
		SetPosition: func(v mgl64.Vec2) {
			p.pos = v
			p.sets++
		},
		Dispatch: func(pl Payload) { p.dispatched = append(p.dispatched, pl.Command) },
	}
}

func lightTrack(t *testing.T, clips ...Clip) *Track {
	t.Helper()
	tr, err := NewTrack("light", PayloadLight, "lamp", clips)
	if err != nil {
		t.Fatalf("NewTrack: %v", err)
	}
	return tr
}

func commandTrack(t *testing.T, clips ...Clip) *Track {
	t.Helper()
	tr, err := NewTrack("orders", PayloadCommand, "squad", clips)
	if err != nil {
		t.Fatalf("NewTrack: %v", err)
	}
	return tr
}

func TestMixerLifecycle(t *testing.T) {
	probe := &lightProbe{color: mgl64.Vec3{0.1, 0.2, 0.3}, intensity: 0.5}
	track := lightTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: mgl64.Vec3{1, 0, 0}, Intensity: 2}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	if m.State() != Uninitialized {
		t.Fatalf("initial state = %v, want uninitialized", m.State())
	}
	m.EvaluateFrame(Frame{Weights: []float64{1}, Times: []float64{0.5}})
	if m.State() != Evaluating {
		t.Fatalf("state after evaluate = %v, want evaluating", m.State())
	}
	if !vec3Near(probe.color, mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("full-weight clip should replace color, got %v", probe.color)
	}

	m.Stop()
	if m.State() != Stopped {
		t.Fatalf("state after stop = %v, want stopped", m.State())
	}
	if !vec3Near(probe.color, mgl64.Vec3{0.1, 0.2, 0.3}) || probe.intensity != 0.5 {
		t.Fatalf("stop must restore captured default, got %v/%v", probe.color, probe.intensity)
	}
}

func TestMixerDefaultCapturedOnce(t *testing.T) {
	probe := &lightProbe{color: mgl64.Vec3{0, 1, 0}, intensity: 1}
	track := lightTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: mgl64.Vec3{1, 0, 0}, Intensity: 0}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	m.EvaluateFrame(Frame{Weights: []float64{0.5}, Times: []float64{0}})
	// The probe now holds a mixed value. A second frame must still blend
	// against the original default, not against the mixed value.
	m.EvaluateFrame(Frame{Weights: []float64{0}, Times: []float64{0}})
	if !vec3Near(probe.color, mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("zero-weight frame should yield the original default, got %v", probe.color)
	}
}

func TestMixerMissingBinding(t *testing.T) {
	track := lightTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: mgl64.Vec3{1, 0, 0}}})
	var resolved *Binding
	m := NewMixer(track, func() *Binding { return resolved })

	m.EvaluateFrame(Frame{Weights: []float64{1}, Times: []float64{0}})
	if m.State() != Uninitialized {
		t.Fatalf("missing binding must not advance state, got %v", m.State())
	}
	m.Stop()
	if m.State() != Uninitialized {
		t.Fatalf("stop before bind must stay uninitialized, got %v", m.State())
	}

	// Target appears later; default is captured then.
	probe := &lightProbe{color: mgl64.Vec3{0.5, 0.5, 0.5}}
	resolved = probe.binding()
	m.EvaluateFrame(Frame{Weights: []float64{0}, Times: []float64{0}})
	if !vec3Near(probe.color, mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("late bind should capture and hold default, got %v", probe.color)
	}
}

func TestMixerTwoClipConvexBlend(t *testing.T) {
	red := mgl64.Vec3{1, 0, 0}
	blue := mgl64.Vec3{0, 0, 1}
	probe := &lightProbe{color: mgl64.Vec3{0.9, 0.9, 0.9}}
	track := lightTrack(t,
		Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: red}},
		Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: blue}},
	)
	m := NewMixer(track, func() *Binding { return probe.binding() })

	m.EvaluateFrame(Frame{Weights: []float64{0.3, 0.7}, Times: []float64{0, 0}})
	want := red.Mul(0.3).Add(blue.Mul(0.7))
	if !vec3Near(probe.color, want) {
		t.Fatalf("output = %v, want 0.3*red + 0.7*blue = %v with zero default share", probe.color, want)
	}
}

func TestMixerIdempotentFrame(t *testing.T) {
	probe := &moveProbe{pos: mgl64.Vec2{0, 0}}
	track := commandTrack(t, Clip{Start: 0, Duration: 2, Payload: Payload{Kind: PayloadCommand, Command: "move_to", Position: mgl64.Vec2{10, 0}}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	frame := Frame{Weights: []float64{1}, Times: []float64{1}}
	m.EvaluateFrame(frame)
	first := probe.pos
	m.EvaluateFrame(frame)
	if !vec2Near(probe.pos, first) {
		t.Fatalf("identical frames must produce identical output: %v then %v", first, probe.pos)
	}
}

func TestMixerHandOffInterpolation(t *testing.T) {
	probe := &moveProbe{pos: mgl64.Vec2{0, 0}}
	track := commandTrack(t,
		Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "move_to", Position: mgl64.Vec2{4, 0}}},
		Clip{Start: 2, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "move_to", Position: mgl64.Vec2{4, 8}}},
	)
	m := NewMixer(track, func() *Binding { return probe.binding() })

	// First clip fully played out.
	m.EvaluateFrame(Frame{Weights: []float64{1, 0}, Times: []float64{1, -1}})
	if !vec2Near(probe.pos, mgl64.Vec2{4, 0}) {
		t.Fatalf("first clip end position = %v, want {4 0}", probe.pos)
	}

	// Gap: no clip active, previous destination carries forward untouched.
	sets := probe.sets
	m.EvaluateFrame(Frame{Weights: []float64{0, 0}, Times: []float64{1.5, -0.5}})
	if probe.sets != sets {
		t.Fatalf("no active clip must not write the target")
	}

	// Second clip at local fraction 0.5 interpolates from the previous
	// clip's final payload.
	m.EvaluateFrame(Frame{Weights: []float64{0, 1}, Times: []float64{2.5, 0.5}})
	want := lerpVec2(mgl64.Vec2{4, 0}, mgl64.Vec2{4, 8}, 0.5)
	if !vec2Near(probe.pos, want) {
		t.Fatalf("hand-off output = %v, want %v", probe.pos, want)
	}

	// Simulation mode never dispatches.
	if len(probe.dispatched) != 0 {
		t.Fatalf("simulation fired %v", probe.dispatched)
	}
}

func TestMixerHandOffFromDefault(t *testing.T) {
	probe := &moveProbe{pos: mgl64.Vec2{-2, -2}}
	track := commandTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "move_to", Position: mgl64.Vec2{2, 2}}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	m.EvaluateFrame(Frame{Weights: []float64{1}, Times: []float64{0.5}})
	want := lerpVec2(mgl64.Vec2{-2, -2}, mgl64.Vec2{2, 2}, 0.5)
	if !vec2Near(probe.pos, want) {
		t.Fatalf("first clip should interpolate from captured default, got %v want %v", probe.pos, want)
	}
}

func TestMixerOneShotDispatch(t *testing.T) {
	probe := &moveProbe{}
	track := commandTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "charge", Position: mgl64.Vec2{1, 1}}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	frames := []float64{0, 0.5, 0.5, 0.5, 0}
	for _, w := range frames {
		m.EvaluateFrame(Frame{Weights: []float64{w}, Times: []float64{0}, Live: true})
	}
	if len(probe.dispatched) != 1 || probe.dispatched[0] != "charge" {
		t.Fatalf("dispatch across %v = %v, want exactly one", frames, probe.dispatched)
	}

	// Re-entering from weight 0 fires again.
	m.EvaluateFrame(Frame{Weights: []float64{0.7}, Times: []float64{0}, Live: true})
	if len(probe.dispatched) != 2 {
		t.Fatalf("second activation interval should fire again, got %v", probe.dispatched)
	}

	// Live mode never writes positions.
	if probe.sets != 0 {
		t.Fatalf("live command mixing wrote the target %d times", probe.sets)
	}
}

func TestMixerOneShotTieBreaksByIndex(t *testing.T) {
	probe := &moveProbe{}
	track := commandTrack(t,
		Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "first", Position: mgl64.Vec2{}}},
		Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "second", Position: mgl64.Vec2{}}},
	)
	m := NewMixer(track, func() *Binding { return probe.binding() })

	m.EvaluateFrame(Frame{Weights: []float64{0.5, 0.5}, Times: []float64{0, 0}, Live: true})
	if len(probe.dispatched) != 2 || probe.dispatched[0] != "first" {
		t.Fatalf("equal weights must dispatch in index order, got %v", probe.dispatched)
	}
}

func TestMixerStopClearsFiredFlags(t *testing.T) {
	probe := &moveProbe{}
	track := commandTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadCommand, Command: "go", Position: mgl64.Vec2{}}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	m.EvaluateFrame(Frame{Weights: []float64{1}, Times: []float64{0}, Live: true})
	m.Stop()
	m.EvaluateFrame(Frame{Weights: []float64{1}, Times: []float64{0}, Live: true})
	if len(probe.dispatched) != 2 {
		t.Fatalf("restart after stop should allow a new dispatch, got %v", probe.dispatched)
	}
}

func TestMixerInvalidNumericSkipsFrame(t *testing.T) {
	probe := &lightProbe{color: mgl64.Vec3{0.5, 0.5, 0.5}}
	track := lightTrack(t, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: mgl64.Vec3{math.Inf(1), 0, 0}}})
	m := NewMixer(track, func() *Binding { return probe.binding() })

	m.EvaluateFrame(Frame{Weights: []float64{1}, Times: []float64{0}})
	if probe.sets != 0 {
		t.Fatalf("non-finite output must not be written")
	}
	if !vec3Near(probe.color, mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("previous output must be retained, got %v", probe.color)
	}
}
