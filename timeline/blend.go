package timeline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// sanitizeWeight clamps a per-clip weight into [0, 1]. NaN, negative and
// out-of-range values are authored-data or host errors and degrade silently.
func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// clipWeight computes the driver-side weight of a clip at sequence time t.
// Weight is 0 outside the half-open window [Start, End), ramps linearly over
// BlendIn and BlendOut, and is 1 in between. Overlapping ramps on adjacent
// clips crossfade. The driver holds a track's closing clip at the exact end
// time so the final frame keeps its value; see Sequence.Evaluate.
func clipWeight(c Clip, t float64) float64 {
	if t < c.Start || t >= c.End() {
		return 0
	}
	w := 1.0
	if c.BlendIn > 0 && t < c.Start+c.BlendIn {
		w = (t - c.Start) / c.BlendIn
	}
	if c.BlendOut > 0 && t > c.End()-c.BlendOut {
		out := (c.End() - t) / c.BlendOut
		if out < w {
			w = out
		}
	}
	return sanitizeWeight(w)
}

// localFraction maps a clip-local time to [0, 1] of the clip duration.
func localFraction(localTime, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	f := localTime / duration
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func lerpVec2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec2(v mgl64.Vec2) bool {
	return finite(v.X(), v.Y())
}

func finiteVec3(v mgl64.Vec3) bool {
	return finite(v.X(), v.Y(), v.Z())
}

// accumulateLight folds every clip contribution into one output color and
// intensity. The leftover share of the default value restores untouched
// inputs; with total weight 0 the default is returned exactly so no floating
// point residue drifts the output.
func accumulateLight(clips []Clip, weights []float64, defColor mgl64.Vec3, defIntensity float64) (mgl64.Vec3, float64) {
	var (
		color     mgl64.Vec3
		intensity float64
		total     float64
	)
	for i, c := range clips {
		w := sanitizeWeight(weightAt(weights, i))
		if w == 0 {
			continue
		}
		color = color.Add(c.Payload.Color.Mul(w))
		intensity += c.Payload.Intensity * w
		total += w
	}
	if total == 0 {
		return defColor, defIntensity
	}
	leftover := 1 - total
	if leftover < 0 {
		leftover = 0
	}
	return color.Add(defColor.Mul(leftover)), intensity + defIntensity*leftover
}

// weightAt reads a weight by clip index, treating missing entries as 0.
func weightAt(weights []float64, i int) float64 {
	if i < 0 || i >= len(weights) {
		return 0
	}
	return weights[i]
}

// timeAt reads a clip-local time by index, treating missing entries as 0.
func timeAt(times []float64, i int) float64 {
	if i < 0 || i >= len(times) {
		return 0
	}
	return times[i]
}
