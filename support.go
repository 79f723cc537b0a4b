package semlog

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// GeometryQuery answers whether one entity rests on top of another one,
// with respect to the direction of gravity. If the query can not decide, it
// must return false.
type GeometryQuery interface {
	IsResting(supported, supporter RawId) bool
}

// SupportEpisode is a "supported by" relation nested inside a contact episode.
type SupportEpisode struct {
	Id   uuid.UUID
	Pair PairKey

	Supporter EntityRef
	Supported EntityRef

	StartTime float64
	EndTime   float64
	Closed    bool
}

func (e SupportEpisode) String() string {
	return fmt.Sprintf("Id:%s Pair:%d Supporter:%s Supported:%s StartTime:%f Closed:%t",
		e.Id, e.Pair, e.Supporter, e.Supported, e.StartTime, e.Closed)
}

// SupportClassifier decides at the start of a contact, whether one participant
// rests on the other one. The decision is sampled once per contact episode.
type SupportClassifier struct {
	geometry GeometryQuery
	newId    func() uuid.UUID
	stats    *Stats
	logger   *slog.Logger

	open map[PairKey]*SupportEpisode
}

// NewSupportClassifier creates a classifier. Without a GeometryQuery, no contact
// ever qualifies as support. newId, stats and logger are optional.
func NewSupportClassifier(geometry GeometryQuery, newId func() uuid.UUID, stats *Stats, logger *slog.Logger) *SupportClassifier {
	if newId == nil {
		newId = uuid.New
	}

	if stats == nil {
		stats = &Stats{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SupportClassifier{
		geometry: geometry,
		newId:    newId,
		stats:    stats,
		logger:   logger,
		open:     map[PairKey]*SupportEpisode{},
	}
}

// ContactBegan samples the support condition for a freshly opened contact and returns
// a SupportBegin event if one participant rests on the other one.
func (s *SupportClassifier) ContactBegan(contact Event) (Event, bool) {
	if contact.Kind != ContactBegin || contact.RelationVolume || s.geometry == nil {
		return Event{}, false
	}

	if _, exists := s.open[contact.Pair]; exists {
		return Event{}, false
	}

	aOnB := s.geometry.IsResting(contact.A.RawId, contact.B.RawId)
	bOnA := s.geometry.IsResting(contact.B.RawId, contact.A.RawId)

	var supporter, supported EntityRef

	switch {
	case aOnB && !bOnA:
		supporter, supported = contact.B, contact.A

	case bOnA && !aOnB:
		supporter, supported = contact.A, contact.B

	default:
		if aOnB && bOnA {
			s.logger.Debug("Ignore ambiguous support geometry", slog.Any("pair", contact.Pair))
		}

		return Event{}, false
	}

	episode := &SupportEpisode{
		Id:        s.newId(),
		Pair:      contact.Pair,
		Supporter: supporter,
		Supported: supported,
		StartTime: contact.Time,
	}

	s.open[contact.Pair] = episode
	s.stats.SupportsOpened += 1

	return supportEventOf(SupportBegin, episode, contact.Time), true
}

// ContactEnded closes the support episode nested in the contact, if any, and returns
// the SupportEnd event. It must be called before the ContactEnd is published.
func (s *SupportClassifier) ContactEnded(contact Event) (Event, bool) {
	if contact.Kind != ContactEnd {
		return Event{}, false
	}

	episode, ok := s.open[contact.Pair]
	if !ok {
		return Event{}, false
	}

	delete(s.open, contact.Pair)

	episode.EndTime = contact.Time
	episode.Closed = true

	s.stats.SupportsClosed += 1

	return supportEventOf(SupportEnd, episode, contact.Time), true
}

// Open returns a copy of the open support episode for the given pair.
func (s *SupportClassifier) Open(pair PairKey) (SupportEpisode, bool) {
	episode, ok := s.open[pair]
	if !ok {
		return SupportEpisode{}, false
	}

	return *episode, true
}

func (s *SupportClassifier) OpenEpisodes() int {
	return len(s.open)
}

func supportEventOf(kind EventKind, episode *SupportEpisode, time float64) Event {
	return Event{
		Kind:    kind,
		Pair:    episode.Pair,
		Episode: episode.Id,
		A:       episode.Supporter,
		B:       episode.Supported,
		Time:    time,
	}
}
