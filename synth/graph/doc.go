// Package graph implements the fixed signal topology of one synthesized
// voice and its render clock.
//
// The graph never blocks: control code schedules value-at-time events on
// [Param] automations and start/stop times on [BufferSource] nodes, and
// Render applies them sample-accurately as the clock advances. Node pair
// lifecycle is event driven: every source carries a scheduled stop time and
// an OnEnded handler that runs exactly once when the clock passes it.
package graph
