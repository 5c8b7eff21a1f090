package timeline

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// RawCutscene mirrors the authored YAML document before validation.
type RawCutscene struct {
	Name     string     `yaml:"name"`
	Duration float64    `yaml:"duration"`
	Tracks   []RawTrack `yaml:"tracks"`
}

type RawTrack struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Target string    `yaml:"target"`
	Clips  []RawClip `yaml:"clips"`
}

type RawClip struct {
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
	BlendIn  float64 `yaml:"blend_in"`
	BlendOut float64 `yaml:"blend_out"`

	// light
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`

	// move and command
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	// command
	Command string `yaml:"command"`
}

// Load parses an authored cutscene document into a ready Sequence.
func Load(data []byte) (*Sequence, error) {
	var raw RawCutscene
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("timeline: parse cutscene: %w", err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("timeline: cutscene has no name")
	}

	seq := NewSequence(raw.Name, raw.Duration)
	for ti, rt := range raw.Tracks {
		kind, err := parseKind(rt.Kind)
		if err != nil {
			return nil, fmt.Errorf("timeline: track %d (%q): %w", ti, rt.Name, err)
		}
		clips := make([]Clip, 0, len(rt.Clips))
		for ci, rc := range rt.Clips {
			clip, err := buildClip(kind, rc)
			if err != nil {
				return nil, fmt.Errorf("timeline: track %q clip %d: %w", rt.Name, ci, err)
			}
			clips = append(clips, clip)
		}
		track, err := NewTrack(rt.Name, kind, rt.Target, clips)
		if err != nil {
			return nil, err
		}
		if err := seq.AddTrack(track); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

// LoadFile reads and parses a cutscene YAML file from disk.
func LoadFile(path string) (*Sequence, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("timeline: read %s: %w", path, err)
	}
	return Load(b)
}

func parseKind(s string) (PayloadKind, error) {
	switch s {
	case "light":
		return PayloadLight, nil
	case "move":
		return PayloadMove, nil
	case "command":
		return PayloadCommand, nil
	default:
		return 0, fmt.Errorf("unknown track kind %q", s)
	}
}

func buildClip(kind PayloadKind, rc RawClip) (Clip, error) {
	p := Payload{Kind: kind}
	switch kind {
	case PayloadLight:
		c, err := parseHexColor(rc.Color)
		if err != nil {
			return Clip{}, err
		}
		p.Color = c
		p.Intensity = rc.Intensity
	case PayloadMove:
		p.Position = mgl64.Vec2{rc.X, rc.Y}
	case PayloadCommand:
		p.Command = rc.Command
		p.Position = mgl64.Vec2{rc.X, rc.Y}
	}
	return Clip{
		Start:    rc.Start,
		Duration: rc.Duration,
		BlendIn:  rc.BlendIn,
		BlendOut: rc.BlendOut,
		Payload:  p,
	}, nil
}

// parseHexColor parses "#rrggbb" into a unit-range color vector.
func parseHexColor(s string) (mgl64.Vec3, error) {
	if len(s) != 7 || s[0] != '#' {
		return mgl64.Vec3{}, fmt.Errorf("bad color %q, want #rrggbb", s)
	}
	var r, g, b uint32
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return mgl64.Vec3{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return mgl64.Vec3{float64(r) / 255, float64(g) / 255, float64(b) / 255}, nil
}
