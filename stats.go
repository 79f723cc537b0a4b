package semlog

import (
	"log/slog"
	"time"
)

// Timings tracks the duration of a repeated operation.
type Timings struct {
	Count         int
	Latest        time.Duration
	MovingAverage time.Duration
	Min, Max      time.Duration
}

func (t Timings) Add(d time.Duration) Timings {
	t.Latest = d

	if t.Count == 0 {
		t.Min = d
		t.Max = d
		t.MovingAverage = d
	} else {
		t.Min = min(t.Min, d)
		t.Max = max(t.Max, d)
		t.MovingAverage = (95*t.MovingAverage + 5*d) / 100
	}

	t.Count += 1

	return t
}

// Stats counts what an Engine did with the notifications it received.
type Stats struct {
	RawBegins int
	RawEnds   int

	// notifications dropped because an entity could not be resolved
	Unresolved int

	// begin notifications merged into an already open episode
	MergedBegins int

	// end notifications without an active record
	Underflows int

	ContactsOpened int
	ContactsClosed int
	SupportsOpened int
	SupportsClosed int

	// contact episodes closed by teardown or shutdown
	ForcedCloses int

	// time spent delivering events to observers
	Dispatch Timings
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("rawBegins", s.RawBegins),
		slog.Int("rawEnds", s.RawEnds),
		slog.Int("unresolved", s.Unresolved),
		slog.Int("merged", s.MergedBegins),
		slog.Int("underflows", s.Underflows),
		slog.Int("contactsOpened", s.ContactsOpened),
		slog.Int("contactsClosed", s.ContactsClosed),
		slog.Int("supportsOpened", s.SupportsOpened),
		slog.Int("supportsClosed", s.SupportsClosed),
		slog.Int("forcedCloses", s.ForcedCloses),
		slog.Duration("dispatchAvg", s.Dispatch.MovingAverage),
	)
}

type stopwatch struct {
	Stop func()
}

func (s *Stats) measureDispatch() stopwatch {
	startTime := time.Now()

	return stopwatch{
		Stop: func() {
			s.Dispatch = s.Dispatch.Add(time.Since(startTime))
		},
	}
}
