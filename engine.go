package semlog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrAlreadyInitialized = errors.New("engine already initialized")
	ErrNotInitialized     = errors.New("engine not initialized")
)

// OverlapHandler receives the raw notifications of the physics collaborator.
// Notifications are pushed synchronously from the thread stepping the simulation.
type OverlapHandler interface {
	// OnOverlapBegin is called when other enters the detection volume of self.
	// otherRef is an opaque reference to the overlapping component.
	OnOverlapBegin(self, other RawId, otherRef any, time float64)

	// OnOverlapEnd is called when other leaves the detection volume of self.
	OnOverlapEnd(self, other RawId, time float64)

	// OnEntityRemoved is called before an entity is removed from the simulation.
	OnEntityRemoved(id RawId, time float64)
}

// OverlapSource pushes raw notifications to a single handler.
// Subscribing nil removes the current handler.
type OverlapSource interface {
	Subscribe(handler OverlapHandler)
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEpisodeIds replaces the generator for episode ids, which defaults to uuid.New.
func WithEpisodeIds(newId func() uuid.UUID) Option {
	return func(e *Engine) {
		e.newId = newId
	}
}

// Engine derives contact and support relations from the raw overlap notifications
// of an OverlapSource and publishes them to its observers.
//
// The Engine is not safe for concurrent use. It expects all calls to be made from
// the thread that steps the simulation.
type Engine struct {
	source   OverlapSource
	geometry GeometryQuery
	resolver SemanticResolver

	logger *slog.Logger
	newId  func() uuid.UUID

	config   Config
	running  bool
	ledger   *Ledger
	contacts *ContactCorrelator
	supports *SupportClassifier
	stats    Stats

	observers     []registeredObserver
	observerIdSeq ObserverId
	dispatchDepth int
	deferredCalls []func()
}

// NewEngine creates a new engine. source and geometry may be nil: without a source, raw
// notifications need to be delivered by calling the OverlapHandler methods directly,
// without geometry, no contact is ever classified as support.
func NewEngine(source OverlapSource, geometry GeometryQuery, resolver SemanticResolver, options ...Option) *Engine {
	if resolver == nil {
		panic("Engine requires a SemanticResolver")
	}

	e := &Engine{
		source:   source,
		geometry: geometry,
		resolver: resolver,
		logger:   slog.Default(),
		newId:    uuid.New,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// Initialize resets all relation state, applies the config and subscribes to the source.
func (e *Engine) Initialize(config Config) error {
	if e.running {
		return ErrAlreadyInitialized
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	e.config = config
	e.stats = Stats{}
	e.ledger = NewLedger(e.newId)
	e.contacts = NewContactCorrelator(e.ledger, e.resolver, &e.stats, e.logger)
	e.supports = NewSupportClassifier(e.geometry, e.newId, &e.stats, e.logger)
	e.running = true

	if e.source != nil {
		e.source.Subscribe(e)
	}

	e.logger.Info("Semantic relation engine initialized",
		slog.Bool("contacts", config.ListenForContacts),
		slog.Bool("support", config.ListenForSupport),
	)

	return nil
}

// Shutdown closes all open episodes at the given time, publishing their end events,
// and unsubscribes from the source. If called by an observer, the engine shuts down
// once the current event has been delivered to all observers.
func (e *Engine) Shutdown(time float64) error {
	if !e.running {
		return ErrNotInitialized
	}

	e.exec(func() {
		// a second call queued during the same dispatch
		if !e.running {
			return
		}

		pairs := e.ledger.OpenPairs()
		if len(pairs) > 0 {
			e.logger.Warn("Closing open contacts on shutdown", slog.Int("count", len(pairs)))
		}

		for _, pair := range pairs {
			e.forceClose(pair, time)
		}

		if e.source != nil {
			e.source.Subscribe(nil)
		}

		e.running = false

		e.logger.Info("Semantic relation engine shut down", slog.Any("stats", e.stats))
	})

	return nil
}

func (e *Engine) Running() bool {
	return e.running
}

// AddObserver registers an observer for all future events.
func (e *Engine) AddObserver(observer Observer) ObserverId {
	e.observerIdSeq += 1

	e.observers = append(e.observers, registeredObserver{
		id:       e.observerIdSeq,
		observer: observer,
	})

	return e.observerIdSeq
}

func (e *Engine) RemoveObserver(id ObserverId) bool {
	idx := slices.IndexFunc(e.observers, func(r registeredObserver) bool { return r.id == id })
	if idx < 0 {
		return false
	}

	e.observers = slices.Delete(slices.Clone(e.observers), idx, idx+1)
	return true
}

func (e *Engine) OnOverlapBegin(self, other RawId, otherRef any, time float64) {
	e.exec(func() {
		if !e.accepts() {
			return
		}

		contact, ok := e.contacts.HandleBegin(self, other, otherRef, time)
		if !ok {
			return
		}

		e.publishContact(contact)

		if !e.config.ListenForSupport {
			return
		}

		if support, ok := e.supports.ContactBegan(contact); ok {
			e.publish(support)
		}
	})
}

func (e *Engine) OnOverlapEnd(self, other RawId, time float64) {
	e.exec(func() {
		if !e.accepts() {
			return
		}

		if contact, ok := e.contacts.HandleEnd(self, other, time); ok {
			e.closeContact(contact)
		}
	})
}

func (e *Engine) OnEntityRemoved(id RawId, time float64) {
	e.Remove(id, time)
}

// Remove closes all episodes the entity takes part in. Call this before the entity
// becomes invalid. Removing an entity twice is a no-op.
func (e *Engine) Remove(id RawId, time float64) {
	e.exec(func() {
		if !e.accepts() {
			return
		}

		for _, contact := range e.contacts.CloseAll(id, time) {
			e.closeContact(contact)
		}
	})
}

// Contact returns the open contact episode of the pair.
func (e *Engine) Contact(pair PairKey) (ContactEpisode, bool) {
	if e.ledger == nil {
		return ContactEpisode{}, false
	}

	return e.ledger.Episode(pair)
}

// Support returns the open support episode of the pair.
func (e *Engine) Support(pair PairKey) (SupportEpisode, bool) {
	if e.supports == nil {
		return SupportEpisode{}, false
	}

	return e.supports.Open(pair)
}

func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) accepts() bool {
	if !e.running {
		e.logger.Debug("Ignore notification, engine not running")
		return false
	}

	return true
}

func (e *Engine) forceClose(pair PairKey, time float64) {
	if contact, ok := e.contacts.ForceClose(pair, time); ok {
		e.closeContact(contact)
	}
}

// closeContact publishes the end of a nested support episode before the contact itself.
func (e *Engine) closeContact(contact Event) {
	if support, ok := e.supports.ContactEnded(contact); ok {
		e.publish(support)
	}

	e.publishContact(contact)
}

func (e *Engine) publishContact(contact Event) {
	if e.config.ListenForContacts {
		e.publish(contact)
	}
}

func (e *Engine) publish(ev Event) {
	defer e.stats.measureDispatch().Stop()

	e.dispatchDepth += 1
	defer func() { e.dispatchDepth -= 1 }()

	// observers may be removed while we are dispatching
	for _, registered := range e.observers {
		if registered.observer.Observes(ev) {
			registered.observer.callback(ev)
		}
	}
}

// exec runs fn directly, unless an event is currently being dispatched. Calls made by
// observers are queued and run once the outermost dispatch has finished.
func (e *Engine) exec(fn func()) {
	if e.dispatchDepth > 0 {
		e.deferredCalls = append(e.deferredCalls, fn)
		return
	}

	fn()

	for len(e.deferredCalls) > 0 {
		next := e.deferredCalls[0]
		e.deferredCalls = e.deferredCalls[1:]
		next()
	}
}
