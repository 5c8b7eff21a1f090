package timeline

import (
	"fmt"
)

// Sequence is the frame driver: it owns tracks and their mixers, computes
// per-clip weights and local times for the current playhead, and pushes one
// Frame per track into its mixer. All methods are single-threaded; the host
// calls them from its own frame loop.
type Sequence struct {
	Name     string
	Duration float64

	tracks   []*Track
	mixers   []*Mixer
	bindings map[string]func() *Binding

	time    float64
	playing bool
	live    bool
}

// NewSequence creates an empty sequence. Duration 0 means "until the last
// clip ends".
func NewSequence(name string, duration float64) *Sequence {
	return &Sequence{
		Name:     name,
		Duration: duration,
		bindings: make(map[string]func() *Binding),
	}
}

// AddTrack appends a track and creates its mixer. Track names are unique.
func (s *Sequence) AddTrack(t *Track) error {
	if t == nil {
		return fmt.Errorf("%w: nil track", ErrBadClip)
	}
	for _, existing := range s.tracks {
		if existing.Name == t.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateTrack, t.Name)
		}
	}
	target := t.Target
	s.tracks = append(s.tracks, t)
	s.mixers = append(s.mixers, NewMixer(t, func() *Binding {
		resolve := s.bindings[target]
		if resolve == nil {
			return nil
		}
		return resolve()
	}))
	return nil
}

// Bind registers a binding resolver for a target name. The resolver runs
// every evaluated frame, so the returned binding identity may change between
// frames; returning nil marks the target as lost.
func (s *Sequence) Bind(target string, resolve func() *Binding) {
	if target == "" || resolve == nil {
		return
	}
	s.bindings[target] = resolve
}

// Tracks returns the track list in evaluation order.
func (s *Sequence) Tracks() []*Track {
	return s.tracks
}

// End returns the effective end time of the sequence.
func (s *Sequence) End() float64 {
	if s.Duration > 0 {
		return s.Duration
	}
	end := 0.0
	for _, t := range s.tracks {
		if t.End() > end {
			end = t.End()
		}
	}
	return end
}

// SetLive switches between live dispatch and simulation preview.
func (s *Sequence) SetLive(live bool) { s.live = live }

// Live reports the current mode.
func (s *Sequence) Live() bool { return s.live }

// Play starts advancing time on Advance calls.
func (s *Sequence) Play() { s.playing = true }

// Pause halts time without stopping the graph; evaluation may continue.
func (s *Sequence) Pause() { s.playing = false }

// Playing reports whether Advance moves the playhead.
func (s *Sequence) Playing() bool { return s.playing }

// Time returns the current playhead.
func (s *Sequence) Time() float64 { return s.time }

// SetTime scrubs the playhead. Time is clamped to [0, End]; moving backward
// is allowed and the next Evaluate re-derives every output from scratch.
func (s *Sequence) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	if end := s.End(); t > end {
		t = end
	}
	s.time = t
}

// Finished reports whether the playhead reached the end while playing.
func (s *Sequence) Finished() bool {
	return s.time >= s.End()
}

// Advance moves the playhead by dt when playing, then evaluates the frame.
// Reaching the end pauses playback but does not stop the graph; the host
// decides when to call Stop.
func (s *Sequence) Advance(dt float64) {
	if s.playing {
		s.time += dt
		if end := s.End(); s.time >= end {
			s.time = end
			s.playing = false
		}
	}
	s.Evaluate()
}

// Evaluate runs one frame of every mixer at the current playhead.
func (s *Sequence) Evaluate() {
	for i, t := range s.tracks {
		end := t.End()
		weights := make([]float64, len(t.Clips))
		times := make([]float64, len(t.Clips))
		for j, c := range t.Clips {
			w := clipWeight(c, s.time)
			// The clip window is half-open, so a clip that closes the track
			// would drop to weight 0 on the final frame and snap the output
			// back to the captured default. Hold it at full weight instead,
			// unless it blends out anyway.
			if w == 0 && s.time == end && c.End() == end && c.BlendOut == 0 {
				w = 1
			}
			weights[j] = w
			times[j] = s.time - c.Start
		}
		s.mixers[i].EvaluateFrame(Frame{Weights: weights, Times: times, Live: s.live})
	}
}

// Stop halts playback and restores every bound target to its captured
// default. The sequence can be evaluated again afterwards; defaults are then
// recaptured.
func (s *Sequence) Stop() {
	s.playing = false
	for _, m := range s.mixers {
		m.Stop()
	}
}

// Rewind is a convenience for restarting from the top without restoring
// defaults.
func (s *Sequence) Rewind() {
	s.time = 0
}
