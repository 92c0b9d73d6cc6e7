package domain

// Guidance scale bounds accepted from callers. Values outside the range are
// clamped rather than rejected.
const (
	GuidanceMin = 1.0
	GuidanceMax = 10.0
)

// TuningOptions are the user-adjustable generation parameters. Each backend
// declares which fields it honors; unsupported fields are silently dropped
// when the payload is built.
type TuningOptions struct {
	// GuidanceScale steers how closely the model follows the prompt.
	// Zero means "use the backend default".
	GuidanceScale float64
	// PromptEnhance asks the backend to rewrite the prompt before
	// generation. Only meaningful to backends that support it.
	PromptEnhance bool
}

// Clamp returns a copy with the guidance scale bounded to the supported
// range. A zero guidance scale is preserved so the backend default applies.
func (t TuningOptions) Clamp() TuningOptions {
	if t.GuidanceScale == 0 {
		return t
	}
	if t.GuidanceScale < GuidanceMin {
		t.GuidanceScale = GuidanceMin
	}
	if t.GuidanceScale > GuidanceMax {
		t.GuidanceScale = GuidanceMax
	}
	return t
}
