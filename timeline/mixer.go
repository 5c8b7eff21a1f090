package timeline

import (
	"github.com/go-gl/mathgl/mgl64"
)

// State is the mixer lifecycle. A stopped mixer recaptures its default the
// next time a binding resolves, so a host may scrub back in after a stop.
type State int

const (
	Uninitialized State = iota
	Bound
	Evaluating
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Bound:
		return "bound"
	case Evaluating:
		return "evaluating"
	case Stopped:
		return "stopped"
	default:
		return "invalid"
	}
}

// Binding is the statically-typed closure table a mixer writes through.
// It is built at configuration time and re-resolved every frame; closures the
// track kind does not use may stay nil. A nil binding makes the frame a no-op.
type Binding struct {
	GetLight func() (mgl64.Vec3, float64)
	SetLight func(mgl64.Vec3, float64)

	GetPosition func() mgl64.Vec2
	SetPosition func(mgl64.Vec2)

	// Dispatch receives a command payload once per activation interval in
	// live mode.
	Dispatch func(Payload)
}

// Frame is the per-tick input supplied by the frame driver: one weight and
// one clip-local time per clip, in clip index order, plus the mode flag.
type Frame struct {
	Weights []float64
	Times   []float64
	Live    bool
}

// Mixer combines all clips of one track into a single output applied to the
// resolved binding. It owns no clips and shares no state with other mixers.
type Mixer struct {
	track   *Track
	resolve func() *Binding

	state State

	defColor     mgl64.Vec3
	defIntensity float64
	defPosition  mgl64.Vec2

	// lastPlayed is the index of the most recent active clip; its payload is
	// the hand-off origin for the next active clip. -1 before any clip plays.
	lastPlayed int

	// origin is the hand-off start point of the currently active clip,
	// captured on the frame the clip takes over.
	origin mgl64.Vec2

	// fired marks clips whose one-shot side effect ran for the current
	// activation interval. Cleared only when the clip weight returns to 0.
	fired []bool
}

// NewMixer creates a mixer for a track. resolve is queried every frame and
// may return a different binding identity, or nil for a lost target.
func NewMixer(track *Track, resolve func() *Binding) *Mixer {
	return &Mixer{
		track:      track,
		resolve:    resolve,
		lastPlayed: -1,
		fired:      make([]bool, len(track.Clips)),
	}
}

// State reports the current lifecycle state.
func (m *Mixer) State() State {
	if m == nil {
		return Uninitialized
	}
	return m.state
}

// Track returns the track this mixer evaluates.
func (m *Mixer) Track() *Track {
	if m == nil {
		return nil
	}
	return m.track
}

// EvaluateFrame applies one frame of weights to the binding. A missing
// binding, or one lacking the closures this track kind needs, makes the call
// a no-op. Evaluating the same frame twice produces the same output and
// fires no additional side effects.
func (m *Mixer) EvaluateFrame(f Frame) {
	if m == nil || m.track == nil || m.resolve == nil {
		return
	}
	b := m.resolve()
	if b == nil {
		return
	}

	if m.state == Uninitialized || m.state == Stopped {
		m.captureDefault(b)
		m.state = Bound
	}
	m.state = Evaluating

	switch m.track.Kind {
	case PayloadLight:
		m.evaluateLight(b, f)
	case PayloadMove:
		m.evaluateHandOff(b, f)
	case PayloadCommand:
		if f.Live {
			m.dispatchOneShots(b, f)
		} else {
			m.evaluateHandOff(b, f)
		}
	}
}

// Stop restores the captured default to the binding and resets per-clip
// state. Restoration happens at most once per capture; a mixer that never
// bound does nothing.
func (m *Mixer) Stop() {
	if m == nil || m.state == Uninitialized || m.state == Stopped {
		return
	}
	if b := m.resolve(); b != nil {
		switch m.track.Kind {
		case PayloadLight:
			if b.SetLight != nil {
				b.SetLight(m.defColor, m.defIntensity)
			}
		case PayloadMove, PayloadCommand:
			if b.SetPosition != nil {
				b.SetPosition(m.defPosition)
			}
		}
	}
	m.lastPlayed = -1
	for i := range m.fired {
		m.fired[i] = false
	}
	m.state = Stopped
}

func (m *Mixer) captureDefault(b *Binding) {
	switch m.track.Kind {
	case PayloadLight:
		if b.GetLight != nil {
			m.defColor, m.defIntensity = b.GetLight()
		}
	case PayloadMove, PayloadCommand:
		if b.GetPosition != nil {
			m.defPosition = b.GetPosition()
		}
	}
}

func (m *Mixer) evaluateLight(b *Binding, f Frame) {
	if b.SetLight == nil {
		return
	}
	color, intensity := accumulateLight(m.track.Clips, f.Weights, m.defColor, m.defIntensity)
	if !finiteVec3(color) || !finite(intensity) {
		// Discard this frame's update; the target keeps its previous value.
		return
	}
	b.SetLight(color, intensity)
}

// evaluateHandOff interpolates from the previous clip's final payload to the
// active clip's payload by the clip-local fraction. With no active clip the
// previous destination simply carries forward, so nothing is written.
// Simulation never fires side effects.
func (m *Mixer) evaluateHandOff(b *Binding, f Frame) {
	active := -1
	for i := range m.track.Clips {
		w := sanitizeWeight(weightAt(f.Weights, i))
		if w == 0 {
			m.fired[i] = false
			continue
		}
		if active == -1 {
			// Index precedence: first-declared wins on weight ties.
			active = i
		}
	}
	if active == -1 || b.SetPosition == nil {
		return
	}

	if m.lastPlayed != active {
		if m.lastPlayed >= 0 {
			m.origin = m.track.Clips[m.lastPlayed].Payload.Position
		} else {
			m.origin = m.defPosition
		}
		m.lastPlayed = active
	}

	clip := m.track.Clips[active]
	frac := localFraction(timeAt(f.Times, active), clip.Duration)
	out := lerpVec2(m.origin, clip.Payload.Position, frac)
	if !finiteVec2(out) {
		return
	}
	b.SetPosition(out)
}

func (m *Mixer) dispatchOneShots(b *Binding, f Frame) {
	for i, clip := range m.track.Clips {
		w := sanitizeWeight(weightAt(f.Weights, i))
		if w == 0 {
			m.fired[i] = false
			continue
		}
		if m.fired[i] {
			continue
		}
		m.fired[i] = true
		m.lastPlayed = i
		if b.Dispatch != nil {
			b.Dispatch(clip.Payload)
		}
	}
}
