package semlog

import (
	"cmp"
	"slices"
)

type bufferedEvent struct {
	seq   uint64
	tick  uint64
	event Event
}

// EventBuffer collects events for consumers that poll once per tick instead of
// observing each emission. Events stay readable for the tick they were sent in and
// the following one. Call Update at the end of each tick.
type EventBuffer struct {
	_ noCopy

	seq  uint64
	tick uint64

	// ordered by seq
	events []bufferedEvent
}

// Observer returns an observer that sends all events it receives into this buffer.
func (b *EventBuffer) Observer() Observer {
	return NewObserver(b.Send)
}

func (b *EventBuffer) Send(ev Event) {
	b.seq += 1

	b.events = append(b.events, bufferedEvent{
		seq:   b.seq,
		tick:  b.tick,
		event: ev,
	})
}

// Update ends the current tick. Events sent two ticks ago are dropped.
func (b *EventBuffer) Update() {
	b.tick += 1

	expired := 0
	for expired < len(b.events) && b.events[expired].tick+1 < b.tick {
		expired++
	}

	b.events = slices.Delete(b.events, 0, expired)
}

func (b *EventBuffer) Len() int {
	return len(b.events)
}

// Reader returns a new reader for this buffer. If kinds are given, the reader only
// returns events of those kinds.
func (b *EventBuffer) Reader(kinds ...EventKind) *EventReader {
	return &EventReader{
		buffer: b,
		kinds:  slices.Clone(kinds),
	}
}

// EventReader reads events from an EventBuffer. Each reader keeps its own cursor.
type EventReader struct {
	_ noCopy

	buffer  *EventBuffer
	kinds   []EventKind
	lastSeq uint64

	scratch []Event
}

// Read returns all events that this reader has not seen yet. The returned slice is
// only valid until the next call to Read.
func (r *EventReader) Read() []Event {
	buffered := r.buffer.events

	// skip the events we've already read
	idx, _ := slices.BinarySearchFunc(buffered, r.lastSeq+1, func(ev bufferedEvent, seq uint64) int {
		return cmp.Compare(ev.seq, seq)
	})

	buffered = buffered[idx:]

	if len(buffered) > 0 {
		r.lastSeq = buffered[len(buffered)-1].seq
	}

	events := r.scratch[:0]
	for _, ev := range buffered {
		if r.accepts(ev.event.Kind) {
			events = append(events, ev.event)
		}
	}

	r.scratch = events

	return events
}

func (r *EventReader) accepts(kind EventKind) bool {
	return len(r.kinds) == 0 || slices.Contains(r.kinds, kind)
}
