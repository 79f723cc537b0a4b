package semlog

import (
	"log/slog"
	"math"
	"strconv"
)

// RawId identifies an entity (or one of its detection volumes) inside the
// physics collaborator.
type RawId uint32

func (id RawId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id RawId) LogValue() slog.Value {
	return slog.StringValue(id.String())
}

// PairKey identifies an unordered pair of entities. Both participants of a
// contact compute the same key, no matter who reports the overlap.
type PairKey uint64

// ComputeKey combines two raw ids into a PairKey. ComputeKey(a, b) equals ComputeKey(b, a).
//
// The key is the elegant pairing of the sorted pair, hi*hi + lo. With 32 bit
// inputs the result always fits into 64 bits, so every unordered pair of ids
// maps to its own key.
func ComputeKey(a, b RawId) PairKey {
	lo, hi := uint64(min(a, b)), uint64(max(a, b))
	return PairKey(hi*hi + lo)
}

// Ids returns the sorted pair of ids the key was computed from.
func (k PairKey) Ids() (lo, hi RawId) {
	value := uint64(k)

	root := min(uint64(math.Sqrt(float64(value))), math.MaxUint32)

	// the float square root may be off by one in either direction
	for root*root > value {
		root--
	}

	for root < math.MaxUint32 && (root+1)*(root+1) <= value {
		root++
	}

	return RawId(value - root*root), RawId(root)
}

func (k PairKey) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

func (k PairKey) LogValue() slog.Value {
	lo, hi := k.Ids()
	return slog.GroupValue(
		slog.String("key", k.String()),
		slog.Any("lo", lo),
		slog.Any("hi", hi),
	)
}
