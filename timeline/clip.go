// Package timeline implements a weighted multi-input track mixer: authored
// clips are combined every frame into one output value per track, either by
// weighted accumulation (continuous properties like light color) or by
// interpolated hand-off (discrete move/command targets). The host drives
// evaluation once per tick through a Sequence.
package timeline

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrEmptyTrack     = errors.New("timeline: track has no clips")
	ErrBadClip        = errors.New("timeline: invalid clip")
	ErrKindMismatch   = errors.New("timeline: payload kind does not match track kind")
	ErrDuplicateTrack = errors.New("timeline: duplicate track name")
)

// PayloadKind selects the mixing discipline for a clip payload.
type PayloadKind int

const (
	// PayloadLight carries a color and intensity, mixed by weighted accumulation.
	PayloadLight PayloadKind = iota + 1
	// PayloadMove carries a position, mixed by interpolated hand-off.
	PayloadMove
	// PayloadCommand carries a named command and a destination point.
	// Live mode dispatches it once per activation; simulation mode previews
	// the hand-off motion instead.
	PayloadCommand
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadLight:
		return "light"
	case PayloadMove:
		return "move"
	case PayloadCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Payload is the closed set of clip variants. Kind decides which fields are
// meaningful; the rest stay zero.
type Payload struct {
	Kind PayloadKind

	// Light fields
	Color     mgl64.Vec3
	Intensity float64

	// Move and command fields
	Position mgl64.Vec2

	// Command fields
	Command string
}

// Clip is a time-bounded unit of authored data driving one mixer input.
// Clips are immutable once a track is built.
type Clip struct {
	Start    float64
	Duration float64

	// BlendIn and BlendOut are ramp lengths in seconds at the edges of the
	// clip. Overlapping ramps on neighboring clips crossfade.
	BlendIn  float64
	BlendOut float64

	Payload Payload
}

// End returns the absolute end time of the clip.
func (c Clip) End() float64 {
	return c.Start + c.Duration
}

func (c Clip) validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration %v", ErrBadClip, c.Duration)
	}
	if c.Start < 0 {
		return fmt.Errorf("%w: start %v", ErrBadClip, c.Start)
	}
	if c.BlendIn < 0 || c.BlendOut < 0 {
		return fmt.Errorf("%w: negative blend", ErrBadClip)
	}
	if c.BlendIn+c.BlendOut > c.Duration {
		return fmt.Errorf("%w: blends %v+%v exceed duration %v", ErrBadClip, c.BlendIn, c.BlendOut, c.Duration)
	}
	if c.Payload.Kind == PayloadCommand && c.Payload.Command == "" {
		return fmt.Errorf("%w: empty command", ErrBadClip)
	}
	return nil
}

// Track is an ordered list of clips applied to one binding target.
// Clip order is authoring order; mixers evaluate clips in index order,
// never in time order.
type Track struct {
	Name   string
	Kind   PayloadKind
	Target string
	Clips  []Clip
}

// NewTrack builds a validated track. The clip slice is copied.
func NewTrack(name string, kind PayloadKind, target string, clips []Clip) (*Track, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyTrack, name)
	}
	for i, c := range clips {
		if c.Payload.Kind != kind {
			return nil, fmt.Errorf("%w: track %q clip %d is %v", ErrKindMismatch, name, i, c.Payload.Kind)
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("track %q clip %d: %w", name, i, err)
		}
	}
	return &Track{
		Name:   name,
		Kind:   kind,
		Target: target,
		Clips:  append([]Clip(nil), clips...),
	}, nil
}

// End returns the end time of the last-ending clip on the track.
func (t *Track) End() float64 {
	end := 0.0
	for _, c := range t.Clips {
		if c.End() > end {
			end = c.End()
		}
	}
	return end
}
