package fade

import "math"

// Easing selects the curve applied to a fade's time progress. Stored cue
// data carries these as strings, so the constants double as the wire and
// database representation.
type Easing string

const (
	// EasingLinear maps progress straight through.
	EasingLinear Easing = "linear"

	// EasingInOutCubic accelerates then decelerates with a cubic curve.
	EasingInOutCubic Easing = "ease_in_out_cubic"

	// EasingInOutSine accelerates then decelerates with a sine curve.
	// This is the default for fades that do not specify an easing.
	EasingInOutSine Easing = "ease_in_out_sine"

	// EasingOutExponential starts fast and settles exponentially.
	EasingOutExponential Easing = "ease_out_exponential"

	// EasingBezier follows a cubic Bezier with control points
	// (0.42, 0) and (0.58, 1).
	EasingBezier Easing = "bezier"

	// EasingSCurve follows a logistic sigmoid with steepness 10
	// centered at the fade midpoint.
	EasingSCurve Easing = "s_curve"
)

// DefaultEasing is used when a fade request leaves the easing unset.
const DefaultEasing = EasingInOutSine

// easingFunc maps progress in [0,1] to eased progress. Unknown names fall
// back to the default curve rather than erroring, matching the tolerance
// of the channel-write path.
func easingFunc(e Easing) func(float64) float64 {
	switch e {
	case EasingLinear:
		return easeLinear
	case EasingInOutCubic:
		return easeInOutCubic
	case EasingInOutSine:
		return easeInOutSine
	case EasingOutExponential:
		return easeOutExponential
	case EasingBezier:
		return easeBezier
	case EasingSCurve:
		return easeSCurve
	default:
		return easeInOutSine
	}
}

func easeLinear(p float64) float64 { return p }

func easeInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

func easeInOutSine(p float64) float64 {
	return -(math.Cos(math.Pi*p) - 1) / 2
}

func easeOutExponential(p float64) float64 {
	if p >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*p)
}

// easeSCurve is a raw logistic sigmoid. Its endpoints are a fraction short
// of 0 and 1 (about 0.007), which is invisible at DMX resolution and the
// completion tick writes exact targets anyway.
func easeSCurve(p float64) float64 {
	return 1 / (1 + math.Exp(-10*(p-0.5)))
}

// Bezier control points. P0 is fixed at (0,0) and P3 at (1,1).
const (
	bezierX1 = 0.42
	bezierY1 = 0.0
	bezierX2 = 0.58
	bezierY2 = 1.0
)

// easeBezier evaluates the cubic Bezier curve at time progress p. The
// curve is parametric, so the t that yields x=p is found with Newton's
// method before sampling the y axis.
func easeBezier(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}

	t := p
	for i := 0; i < 8; i++ {
		x := bezierAxis(t, bezierX1, bezierX2) - p
		if math.Abs(x) < 1e-7 {
			break
		}
		d := bezierAxisDeriv(t, bezierX1, bezierX2)
		if math.Abs(d) < 1e-7 {
			break
		}
		t -= x / d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return bezierAxis(t, bezierY1, bezierY2)
}

func bezierAxis(t, c1, c2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*c1 + 3*u*t*t*c2 + t*t*t
}

func bezierAxisDeriv(t, c1, c2 float64) float64 {
	u := 1 - t
	return 3*u*u*c1 + 6*u*t*(c2-c1) + 3*t*t*(1-c2)
}
