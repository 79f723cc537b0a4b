package semlog

import (
	"cmp"
	"fmt"

	"github.com/google/uuid"
	"github.com/oliverbestmann/semlog/internal/set"
)

// OverlapRecord is a single directional overlap: the detection volume of Self
// reported Other entering it.
type OverlapRecord struct {
	Pair  PairKey
	Self  EntityRef
	Other EntityRef

	// OtherRef is the opaque reference to the overlapping component,
	// as handed over by the physics collaborator.
	OtherRef any

	StartTime float64
	Active    bool
}

func (r OverlapRecord) String() string {
	return fmt.Sprintf("Self:%s Other:%s Pair:%d StartTime:%f Active:%t",
		r.Self, r.Other, r.Pair, r.StartTime, r.Active)
}

// ContactEpisode is a single logical contact between two entities. It stays open
// as long as at least one of the participants reports the overlap.
type ContactEpisode struct {
	Id   uuid.UUID
	Pair PairKey

	// A is the entity that reported first, B the entity it detected.
	A, B EntityRef

	StartTime float64
	EndTime   float64
	Closed    bool

	OpenRecords int
}

func (e ContactEpisode) String() string {
	end := "open"
	if e.Closed {
		end = fmt.Sprintf("%f", e.EndTime)
	}

	return fmt.Sprintf("Id:%s Pair:%d A:%s B:%s StartTime:%f EndTime:%s OpenRecords:%d",
		e.Id, e.Pair, e.A, e.B, e.StartTime, end, e.OpenRecords)
}

type recordKey struct {
	Self, Other RawId
}

// Ledger keeps book of the currently active directional overlaps and the
// contact episodes they contribute to.
type Ledger struct {
	newId func() uuid.UUID

	records  map[recordKey]*OverlapRecord
	episodes map[PairKey]*ContactEpisode

	// all pairs with an open episode an entity takes part in
	byEntity map[RawId]*set.Set[PairKey]
}

// NewLedger creates an empty ledger. newId generates episode ids, uuid.New is used if nil.
func NewLedger(newId func() uuid.UUID) *Ledger {
	if newId == nil {
		newId = uuid.New
	}

	return &Ledger{
		newId:    newId,
		records:  map[recordKey]*OverlapRecord{},
		episodes: map[PairKey]*ContactEpisode{},
		byEntity: map[RawId]*set.Set[PairKey]{},
	}
}

// OnRawBegin activates the directional record self -> other and reports whether
// this opened a new contact episode for the pair. A begin for a direction that is
// already active is merged into the existing record.
func (l *Ledger) OnRawBegin(self, other EntityRef, otherRef any, time float64) (PairKey, bool) {
	pair := ComputeKey(self.RawId, other.RawId)

	key := recordKey{Self: self.RawId, Other: other.RawId}
	if record, ok := l.records[key]; ok && record.Active {
		return pair, false
	}

	l.records[key] = &OverlapRecord{
		Pair:      pair,
		Self:      self,
		Other:     other,
		OtherRef:  otherRef,
		StartTime: time,
		Active:    true,
	}

	episode, exists := l.episodes[pair]
	if !exists {
		episode = &ContactEpisode{
			Id:        l.newId(),
			Pair:      pair,
			A:         self,
			B:         other,
			StartTime: time,
		}

		l.episodes[pair] = episode
		l.index(self.RawId, pair)
		l.index(other.RawId, pair)
	}

	episode.OpenRecords += 1

	return pair, !exists
}

// OnRawEnd deactivates the directional record self -> other and reports whether
// the pairs contact episode is now closed. Ending a record that is not active is a no-op.
func (l *Ledger) OnRawEnd(self, other RawId, time float64) (PairKey, bool) {
	pair := ComputeKey(self, other)

	key := recordKey{Self: self, Other: other}
	if _, ok := l.records[key]; !ok {
		return pair, false
	}

	delete(l.records, key)

	episode, ok := l.episodes[pair]
	if !ok {
		return pair, false
	}

	episode.OpenRecords = max(0, episode.OpenRecords-1)
	if episode.OpenRecords > 0 {
		return pair, false
	}

	l.close(episode, time)

	return pair, true
}

// ForceClose closes the episode of the given pair, including all of its
// directional records. It returns the closed episode.
func (l *Ledger) ForceClose(pair PairKey, time float64) (ContactEpisode, bool) {
	episode, ok := l.episodes[pair]
	if !ok {
		return ContactEpisode{}, false
	}

	l.close(episode, time)

	return *episode, true
}

func (l *Ledger) close(episode *ContactEpisode, time float64) {
	episode.OpenRecords = 0
	episode.EndTime = time
	episode.Closed = true

	delete(l.episodes, episode.Pair)

	a, b := episode.A.RawId, episode.B.RawId
	delete(l.records, recordKey{Self: a, Other: b})
	delete(l.records, recordKey{Self: b, Other: a})

	l.unindex(a, episode.Pair)
	l.unindex(b, episode.Pair)
}

// Episode returns a copy of the open episode of the given pair.
func (l *Ledger) Episode(pair PairKey) (ContactEpisode, bool) {
	episode, ok := l.episodes[pair]
	if !ok {
		return ContactEpisode{}, false
	}

	return *episode, true
}

// Record returns a copy of the active directional record self -> other.
func (l *Ledger) Record(self, other RawId) (OverlapRecord, bool) {
	record, ok := l.records[recordKey{Self: self, Other: other}]
	if !ok {
		return OverlapRecord{}, false
	}

	return *record, true
}

// PairsOf returns the pairs with an open episode that the entity takes part in,
// in ascending order.
func (l *Ledger) PairsOf(id RawId) []PairKey {
	pairs, ok := l.byEntity[id]
	if !ok {
		return nil
	}

	return set.Sorted(pairs, cmp.Compare[PairKey])
}

// OpenPairs returns all pairs with an open episode in ascending order.
func (l *Ledger) OpenPairs() []PairKey {
	var pairs set.Set[PairKey]
	for pair := range l.episodes {
		pairs.Insert(pair)
	}

	return set.Sorted(&pairs, cmp.Compare[PairKey])
}

func (l *Ledger) OpenEpisodes() int {
	return len(l.episodes)
}

func (l *Ledger) index(id RawId, pair PairKey) {
	pairs, ok := l.byEntity[id]
	if !ok {
		pairs = &set.Set[PairKey]{}
		l.byEntity[id] = pairs
	}

	pairs.Insert(pair)
}

func (l *Ledger) unindex(id RawId, pair PairKey) {
	pairs, ok := l.byEntity[id]
	if !ok {
		return
	}

	pairs.Remove(pair)

	if pairs.Len() == 0 {
		delete(l.byEntity, id)
	}
}
