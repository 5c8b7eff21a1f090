package timeline

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSanitizeWeight(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"in_range", 0.5, 0.5},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"negative", -0.25, 0},
		{"above_one", 3.5, 1},
		{"nan", math.NaN(), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sanitizeWeight(c.in); got != c.want {
				t.Fatalf("sanitizeWeight(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestClipWeightRamps(t *testing.T) {
	clip := Clip{Start: 2, Duration: 4, BlendIn: 1, BlendOut: 2, Payload: Payload{Kind: PayloadLight}}
	cases := []struct {
		name string
		time float64
		want float64
	}{
		{"before", 1.5, 0},
		{"at_start", 2, 0},
		{"mid_blend_in", 2.5, 0.5},
		{"plateau", 3.5, 1},
		{"mid_blend_out", 5, 0.5},
		{"at_end", 6, 0},
		{"after", 7, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := clipWeight(clip, c.time); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("clipWeight at %v = %v, want %v", c.time, got, c.want)
			}
		})
	}
}

func TestClipWeightNoBlends(t *testing.T) {
	clip := Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadMove}}
	if w := clipWeight(clip, 0); w != 1 {
		t.Fatalf("weight at start = %v, want 1", w)
	}
	if w := clipWeight(clip, 0.999); w != 1 {
		t.Fatalf("weight inside = %v, want 1", w)
	}
	if w := clipWeight(clip, 1); w != 0 {
		t.Fatalf("weight at end = %v, want 0 (end exclusive)", w)
	}
}

func TestAccumulateLightConvexCombination(t *testing.T) {
	red := mgl64.Vec3{1, 0, 0}
	blue := mgl64.Vec3{0, 0, 1}
	def := mgl64.Vec3{0.5, 0.5, 0.5}
	clips := []Clip{
		{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: red, Intensity: 1}},
		{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: blue, Intensity: 3}},
	}

	// Weights summing to 1 contribute no default share at all.
	color, intensity := accumulateLight(clips, []float64{0.3, 0.7}, def, 10)
	want := red.Mul(0.3).Add(blue.Mul(0.7))
	if !vec3Near(color, want) {
		t.Fatalf("color = %v, want %v", color, want)
	}
	if math.Abs(intensity-(0.3*1+0.7*3)) > 1e-9 {
		t.Fatalf("intensity = %v, want %v", intensity, 0.3*1+0.7*3)
	}
}

func TestAccumulateLightDefaultRestore(t *testing.T) {
	def := mgl64.Vec3{0.2, 0.4, 0.6}
	clips := []Clip{
		{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: mgl64.Vec3{1, 1, 1}, Intensity: 2}},
	}

	t.Run("zero_total_is_exact_default", func(t *testing.T) {
		color, intensity := accumulateLight(clips, []float64{0}, def, 0.75)
		if color != def || intensity != 0.75 {
			t.Fatalf("got %v/%v, want exact default %v/0.75", color, intensity, def)
		}
	})

	t.Run("partial_weight_blends_with_default", func(t *testing.T) {
		color, _ := accumulateLight(clips, []float64{0.25}, def, 0)
		want := mgl64.Vec3{1, 1, 1}.Mul(0.25).Add(def.Mul(0.75))
		if !vec3Near(color, want) {
			t.Fatalf("color = %v, want %v", color, want)
		}
	})

	t.Run("overweight_drops_default_term", func(t *testing.T) {
		// Weights above 1 per clip are clamped; several full-weight clips
		// must not go unbounded through the default share.
		more := append(clips, Clip{Start: 0, Duration: 1, Payload: Payload{Kind: PayloadLight, Color: mgl64.Vec3{1, 0, 0}}})
		color, _ := accumulateLight(more, []float64{5, 1}, def, 0)
		want := mgl64.Vec3{2, 1, 1}
		if !vec3Near(color, want) {
			t.Fatalf("color = %v, want %v", color, want)
		}
	})

	t.Run("nan_weight_treated_as_zero", func(t *testing.T) {
		color, _ := accumulateLight(clips, []float64{math.NaN()}, def, 0)
		if color != def {
			t.Fatalf("color = %v, want default %v", color, def)
		}
	})
}

func TestLocalFraction(t *testing.T) {
	if f := localFraction(0.5, 1); f != 0.5 {
		t.Fatalf("got %v, want 0.5", f)
	}
	if f := localFraction(2, 1); f != 1 {
		t.Fatalf("overrun should clamp to 1, got %v", f)
	}
	if f := localFraction(-1, 1); f != 0 {
		t.Fatalf("underrun should clamp to 0, got %v", f)
	}
	if f := localFraction(3, 0); f != 1 {
		t.Fatalf("zero duration should short-circuit to 1, got %v", f)
	}
}

func vec3Near(a, b mgl64.Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps && math.Abs(a.Z()-b.Z()) < eps
}

func vec2Near(a, b mgl64.Vec2) bool {
	const eps = 1e-9
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps
}
