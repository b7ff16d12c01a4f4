package graph

// paramEvent is one point on a parameter's scheduled trajectory.
// If ramp is set, the value is approached linearly from the previous event;
// otherwise it takes effect as a step at its time.
type paramEvent struct {
	time  float64 // seconds on the graph clock
	value float64
	ramp  bool
}

// Param is an automatable scalar. All changes are expressed as value-at-time
// events against the graph clock, so the renderer applies them sample-
// accurately regardless of when the control thread issued them.
//
// Scheduling a new trajectory overrides whatever was previously scheduled
// from the anchor time onward; an in-flight ramp is simply abandoned at its
// current value.
//
// Param is not safe for concurrent use; the voice engine serializes access.
type Param struct {
	events []paramEvent
}

// NewParam returns a Param holding the initial value from time zero.
func NewParam(initial float64) *Param {
	return &Param{events: []paramEvent{{time: 0, value: initial}}}
}

// ValueAt evaluates the trajectory at time t.
func (p *Param) ValueAt(t float64) float64 {
	events := p.events

	// Index of the last event at or before t.
	idx := -1
	for i := range events {
		if events[i].time <= t {
			idx = i
		} else {
			break
		}
	}

	if idx < 0 {
		return events[0].value
	}

	if idx+1 < len(events) && events[idx+1].ramp {
		prev, next := events[idx], events[idx+1]
		span := next.time - prev.time
		if span <= 0 {
			return next.value
		}

		frac := (t - prev.time) / span

		return prev.value + (next.value-prev.value)*frac
	}

	return events[idx].value
}

// SetValueAtTime schedules a step to v at time t, discarding any previously
// scheduled trajectory from t onward.
func (p *Param) SetValueAtTime(v, t float64) {
	p.anchor(t)
	p.events = append(p.events, paramEvent{time: t, value: v})
}

// LinearRampTo schedules a linear ramp from the value at now to v at end.
// A non-positive ramp window degenerates to an immediate step.
func (p *Param) LinearRampTo(v, now, end float64) {
	if end <= now {
		p.SetValueAtTime(v, now)
		return
	}

	p.anchor(now)
	p.events = append(p.events, paramEvent{time: end, value: v, ramp: true})
}

// anchor freezes the current value at time t and drops all events at or
// after t, so a following append replaces the future trajectory. Events
// fully in the past are pruned.
func (p *Param) anchor(t float64) {
	v := p.ValueAt(t)

	keep := p.events[:0]
	for _, e := range p.events {
		if e.time < t {
			keep = append(keep, e)
		}
	}

	// Only the most recent past segment matters once the value is anchored.
	if len(keep) > 1 {
		keep = append(keep[:0], keep[len(keep)-1])
	}

	p.events = append(keep, paramEvent{time: t, value: v})
}

// Fill evaluates the trajectory into dst for a block starting at t0 with
// sample spacing dt.
func (p *Param) Fill(dst []float64, t0, dt float64) {
	for i := range dst {
		dst[i] = p.ValueAt(t0 + float64(i)*dt)
	}
}
