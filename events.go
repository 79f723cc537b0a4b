package semlog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type EventKind uint8

const (
	ContactBegin EventKind = iota + 1
	ContactEnd
	SupportBegin
	SupportEnd
)

var eventKindNames = map[EventKind]string{
	ContactBegin: "contact-begin",
	ContactEnd:   "contact-end",
	SupportBegin: "support-begin",
	SupportEnd:   "support-end",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	if _, ok := eventKindNames[k]; !ok {
		return nil, fmt.Errorf("unknown event kind %d", uint8(k))
	}

	return []byte(k.String()), nil
}

// IsContact returns true for ContactBegin and ContactEnd.
func (k EventKind) IsContact() bool {
	return k == ContactBegin || k == ContactEnd
}

// Event is the single payload handed to observers.
//
// For contact events, A and B are the two participants in the order in which the
// contact was first reported. For support events, A is the supporter and B is the
// supported entity, see Supporter and Supported.
type Event struct {
	Kind    EventKind `json:"kind"`
	Pair    PairKey   `json:"pair"`
	Episode uuid.UUID `json:"episode"`

	A EntityRef `json:"a"`
	B EntityRef `json:"b"`

	// Time of the event in simulation seconds.
	Time float64 `json:"time"`

	// RelationVolume is set if either participant is a detection volume itself, not only B.
	// Consumers use this to tell contacts of detection volumes apart from ordinary contacts.
	RelationVolume bool `json:"relation_volume,omitempty"`
}

func (ev Event) Supporter() EntityRef {
	return ev.A
}

func (ev Event) Supported() EntityRef {
	return ev.B
}

func (ev Event) String() string {
	var sb strings.Builder

	relation := "<->"
	if !ev.Kind.IsContact() {
		relation = "supports"
	}

	_, _ = fmt.Fprintf(&sb, "%.3f %s pair=%d %s %s %s", ev.Time, ev.Kind, ev.Pair, ev.A, relation, ev.B)

	if ev.RelationVolume {
		sb.WriteString(" volume")
	}

	return sb.String()
}

func (ev Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", ev.Kind.String()),
		slog.Any("pair", ev.Pair),
		slog.String("episode", ev.Episode.String()),
		slog.Any("a", ev.A),
		slog.Any("b", ev.B),
		slog.Float64("time", ev.Time),
	)
}
