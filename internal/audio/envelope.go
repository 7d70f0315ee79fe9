package audio

// Parameter bounds applied at set time.
const (
	MinGain  = 0.0
	MaxGain  = 1.0
	MinPan   = -1.0
	MaxPan   = 1.0
	MaxSpeed = 1.0 // Speed must be above zero

	DefaultGain  = 1.0
	DefaultPan   = 0.0
	DefaultSpeed = 1.0
)

// Envelope moves a value linearly from where it was to a target over a
// fixed duration, one Step per tick.
type Envelope struct {
	Current  float64
	Target   float64
	From     float64
	Duration float64
	Elapsed  float64
}

// settle absorbs the rounding left over from summing tick deltas.
const settle = 1e-9

// NewEnvelope returns an envelope at rest on v.
func NewEnvelope(v float64) Envelope {
	return Envelope{Current: v, Target: v, From: v}
}

// Set schedules a ramp to v over duration seconds. A duration of zero or
// less applies v immediately.
func (e *Envelope) Set(v, duration float64) {
	if duration <= 0 {
		e.Current, e.Target, e.From, e.Duration, e.Elapsed = v, v, v, 0, 0
		return
	}
	e.From = e.Current
	e.Target = v
	e.Duration = duration
	e.Elapsed = 0
}

// Active reports whether the envelope still has distance to cover.
func (e *Envelope) Active() bool {
	return e.Current != e.Target
}

// Step advances the envelope by delta seconds and reports whether Current
// changed. It never steps past Target.
func (e *Envelope) Step(delta float64) bool {
	if !e.Active() {
		return false
	}
	if e.Duration <= 0 {
		e.Current = e.Target
		return true
	}

	if delta <= 0 {
		return false
	}

	// Current is derived from elapsed time rather than summed steps so the
	// ramp lands on Target exactly when Duration has passed.
	e.Elapsed += delta
	if e.Elapsed >= e.Duration-settle {
		e.Current = e.Target
		return true
	}
	next := e.From + (e.Target-e.From)/e.Duration*e.Elapsed
	if (e.Target > e.From && next > e.Target) || (e.Target < e.From && next < e.Target) {
		next = e.Target
	}
	e.Current = next
	return true
}

func validGain(v float64) bool  { return v >= MinGain && v <= MaxGain }
func validPan(v float64) bool   { return v >= MinPan && v <= MaxPan }
func validSpeed(v float64) bool { return v > 0 && v <= MaxSpeed }
