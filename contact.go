package semlog

import (
	"log/slog"
)

// ContactCorrelator turns directional raw overlap notifications into contact events,
// one ContactBegin and one ContactEnd per logical contact episode.
type ContactCorrelator struct {
	ledger   *Ledger
	resolver SemanticResolver
	stats    *Stats
	logger   *slog.Logger
}

// NewContactCorrelator creates a correlator on top of the given ledger. stats and
// logger are optional.
func NewContactCorrelator(ledger *Ledger, resolver SemanticResolver, stats *Stats, logger *slog.Logger) *ContactCorrelator {
	if ledger == nil || resolver == nil {
		panic("ContactCorrelator requires a Ledger and a SemanticResolver")
	}

	if stats == nil {
		stats = &Stats{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContactCorrelator{
		ledger:   ledger,
		resolver: resolver,
		stats:    stats,
		logger:   logger,
	}
}

// HandleBegin processes the detection of other by the volume of self. It returns
// a ContactBegin event if this opened a new contact episode.
func (c *ContactCorrelator) HandleBegin(self, other RawId, otherRef any, time float64) (Event, bool) {
	c.stats.RawBegins += 1

	selfRef, selfOk := c.resolver.Resolve(self)
	otherEntity, otherOk := c.resolver.Resolve(other)

	if !selfOk || !otherOk {
		c.stats.Unresolved += 1

		c.logger.Debug("Ignore overlap with unannotated entity",
			slog.Any("self", self),
			slog.Any("other", other),
			slog.Bool("selfResolved", selfOk),
			slog.Bool("otherResolved", otherOk),
		)

		return Event{}, false
	}

	pair, isNewEpisode := c.ledger.OnRawBegin(selfRef, otherEntity, otherRef, time)
	if !isNewEpisode {
		c.stats.MergedBegins += 1
		return Event{}, false
	}

	episode, _ := c.ledger.Episode(pair)

	c.stats.ContactsOpened += 1

	return Event{
		Kind:           ContactBegin,
		Pair:           pair,
		Episode:        episode.Id,
		A:              episode.A,
		B:              episode.B,
		Time:           time,
		RelationVolume: episode.involvesVolume(),
	}, true
}

// HandleEnd processes the end of the overlap self -> other. It returns a ContactEnd
// event if no participant reports the contact anymore.
func (c *ContactCorrelator) HandleEnd(self, other RawId, time float64) (Event, bool) {
	c.stats.RawEnds += 1

	if _, ok := c.ledger.Record(self, other); !ok {
		if !c.resolvable(self, other) {
			// the begin was dropped already
			c.stats.Unresolved += 1
			return Event{}, false
		}

		c.stats.Underflows += 1

		c.logger.Debug("Ignore end of unknown overlap",
			slog.Any("self", self),
			slog.Any("other", other),
		)

		return Event{}, false
	}

	// take a copy before the ledger forgets about the episode
	episode, _ := c.ledger.Episode(ComputeKey(self, other))

	if _, closed := c.ledger.OnRawEnd(self, other, time); !closed {
		return Event{}, false
	}

	c.stats.ContactsClosed += 1

	return contactEndOf(episode, time), true
}

// ForceClose closes the contact episode of the given pair, no matter how many
// participants still report the overlap.
func (c *ContactCorrelator) ForceClose(pair PairKey, time float64) (Event, bool) {
	episode, ok := c.ledger.ForceClose(pair, time)
	if !ok {
		return Event{}, false
	}

	c.stats.ContactsClosed += 1
	c.stats.ForcedCloses += 1

	return contactEndOf(episode, time), true
}

// CloseAll force closes every contact episode the entity takes part in and returns
// the ContactEnd events, ordered by pair.
func (c *ContactCorrelator) CloseAll(id RawId, time float64) []Event {
	var events []Event

	for _, pair := range c.ledger.PairsOf(id) {
		if ev, ok := c.ForceClose(pair, time); ok {
			events = append(events, ev)
		}
	}

	return events
}

func contactEndOf(episode ContactEpisode, time float64) Event {
	return Event{
		Kind:           ContactEnd,
		Pair:           episode.Pair,
		Episode:        episode.Id,
		A:              episode.A,
		B:              episode.B,
		Time:           time,
		RelationVolume: episode.involvesVolume(),
	}
}

func (e ContactEpisode) involvesVolume() bool {
	return e.A.IsRelationVolume || e.B.IsRelationVolume
}

func (c *ContactCorrelator) resolvable(ids ...RawId) bool {
	for _, id := range ids {
		if _, ok := c.resolver.Resolve(id); !ok {
			return false
		}
	}

	return true
}
