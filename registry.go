package semlog

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotAnnotated is returned when registering an entity without a semantic id.
var ErrNotAnnotated = errors.New("entity has no semantic annotation")

// EntityRef is the semantic identity of a raw entity. It is resolved once, when an
// overlap first references the entity, and stays fixed for the episode it takes part in.
type EntityRef struct {
	RawId         RawId  `json:"raw_id" yaml:"raw_id"`
	SemanticId    string `json:"semantic_id" yaml:"semantic_id"`
	SemanticClass string `json:"semantic_class" yaml:"semantic_class"`

	// IsRelationVolume is set if the entity is itself a detection volume
	// and not the annotated object it belongs to.
	IsRelationVolume bool `json:"relation_volume,omitempty" yaml:"relation_volume"`
}

func (e EntityRef) String() string {
	return fmt.Sprintf("%s#%d", e.SemanticId, e.RawId)
}

func (e EntityRef) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("id", e.RawId),
		slog.String("semId", e.SemanticId),
		slog.String("semClass", e.SemanticClass),
		slog.Bool("volume", e.IsRelationVolume),
	)
}

// SemanticResolver maps a raw id to its semantic identity. Entities that carry no
// semantic annotation are reported as unresolved and never take part in a relation.
type SemanticResolver interface {
	Resolve(id RawId) (EntityRef, bool)
}

// Registry is a SemanticResolver backed by a map.
type Registry struct {
	entries map[RawId]EntityRef
}

func NewRegistry() *Registry {
	return &Registry{entries: map[RawId]EntityRef{}}
}

// Register adds or replaces the semantic identity of ref.RawId.
func (r *Registry) Register(ref EntityRef) error {
	if ref.SemanticId == "" {
		return fmt.Errorf("register entity %d: %w", ref.RawId, ErrNotAnnotated)
	}

	r.entries[ref.RawId] = ref
	return nil
}

func (r *Registry) Resolve(id RawId) (EntityRef, bool) {
	ref, ok := r.entries[id]
	return ref, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}
