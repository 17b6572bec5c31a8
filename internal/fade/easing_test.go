package fade

import (
	"math"
	"testing"
)

func TestEasingCurves(t *testing.T) {
	const tol = 1e-6

	tests := []struct {
		easing   Easing
		progress float64
		want     float64
	}{
		{EasingLinear, 0, 0},
		{EasingLinear, 0.25, 0.25},
		{EasingLinear, 1, 1},

		{EasingInOutCubic, 0, 0},
		{EasingInOutCubic, 0.5, 0.5},
		{EasingInOutCubic, 0.25, 4 * 0.25 * 0.25 * 0.25},
		{EasingInOutCubic, 1, 1},

		{EasingInOutSine, 0, 0},
		{EasingInOutSine, 0.5, 0.5},
		{EasingInOutSine, 1, 1},

		{EasingOutExponential, 0, 0},
		{EasingOutExponential, 0.5, 1 - math.Pow(2, -5)},
		{EasingOutExponential, 1, 1},

		{EasingBezier, 0, 0},
		{EasingBezier, 1, 1},

		{EasingSCurve, 0.5, 0.5},
	}

	for _, tt := range tests {
		got := easingFunc(tt.easing)(tt.progress)
		if math.Abs(got-tt.want) > tol {
			t.Errorf("%s(%v) = %v, want %v", tt.easing, tt.progress, got, tt.want)
		}
	}
}

func TestEasingBezier_SymmetricMidpoint(t *testing.T) {
	// Control points mirror each other, so the curve passes through
	// (0.5, 0.5).
	got := easeBezier(0.5)
	if math.Abs(got-0.5) > 1e-4 {
		t.Errorf("bezier(0.5) = %v, want 0.5", got)
	}
}

func TestEasingCurves_Monotonic(t *testing.T) {
	easings := []Easing{
		EasingLinear,
		EasingInOutCubic,
		EasingInOutSine,
		EasingOutExponential,
		EasingBezier,
		EasingSCurve,
	}

	for _, e := range easings {
		fn := easingFunc(e)
		prev := fn(0)
		for p := 0.01; p <= 1.0001; p += 0.01 {
			cur := fn(p)
			if cur < prev-1e-9 {
				t.Errorf("%s not monotonic at p=%.2f: %v < %v", e, p, cur, prev)
				break
			}
			prev = cur
		}
	}
}

func TestEasingFunc_UnknownFallsBackToSine(t *testing.T) {
	got := easingFunc("wobble")(0.25)
	want := easeInOutSine(0.25)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("unknown easing at 0.25 = %v, want sine %v", got, want)
	}
}
