package formz

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Form owns a form's aggregate value tree, the ordered names of its
// registered fields and its submission lifecycle.
//
// The value tree is written only by the subscription each registered field's
// value stream feeds; everything else reads it. Each write produces a new
// root, so a tree returned by Values is never modified afterwards.
type Form struct {
	name             string
	id               string
	clock            clockz.Clock
	debounce         time.Duration
	initializeValues bool
	metrics          MetricsProvider
	attempts         int
	backoff          time.Duration
	timeout          time.Duration

	values     *Stream[map[string]any]
	fieldNames *Stream[[]string]
	submitting *Stream[bool]

	regMu sync.Mutex

	mu           sync.Mutex
	tree         map[string]any
	fields       map[string]*Field
	links        []*Subscription
	onSubmit     SubmitHandler
	inFlight     int
	submitState  SubmitState
	submitErrors *errorRing
}

func newForm(name string, opts ...FormOption) *Form {
	cfg := defaultFormConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = clockz.RealClock
	}
	if cfg.metrics == nil {
		cfg.metrics = NoOpMetricsProvider{}
	}
	tree := cfg.initialValues
	if tree == nil {
		tree = map[string]any{}
	}

	return &Form{
		name:             name,
		id:               uuid.NewString(),
		clock:            cfg.clock,
		debounce:         cfg.debounce,
		initializeValues: cfg.initializeValues,
		metrics:          cfg.metrics,
		attempts:         cfg.submitAttempts,
		backoff:          cfg.submitBackoff,
		timeout:          cfg.submitTimeout,
		values:           NewStream(tree),
		fieldNames:       NewStream([]string{}),
		submitting:       NewStream(false),
		tree:             tree,
		fields:           make(map[string]*Field),
		onSubmit:         cfg.onSubmit,
		submitErrors:     newErrorRing(cfg.submitHistory),
	}
}

// Name returns the form's registry name.
func (fm *Form) Name() string {
	return fm.name
}

// ID returns the form's unique instance id.
func (fm *Form) ID() string {
	return fm.id
}

// register attaches f: seeds it from the tree when the form initializes
// values, links its value stream to the tree and appends its name.
func (fm *Form) register(f *Field) {
	fm.regMu.Lock()
	defer fm.regMu.Unlock()

	if fm.initializeValues {
		if v, ok := GetAt(fm.Values(), f.name); ok {
			f.SetValue(v)
		}
	}

	fm.mu.Lock()
	fm.fields[f.name] = f
	names := append(slices.Clone(fm.fieldNames.Get()), f.name)
	fm.mu.Unlock()

	link := f.value.Subscribe(func(v any) { fm.write(f.name, v) })

	fm.mu.Lock()
	fm.links = append(fm.links, link)
	fm.mu.Unlock()

	fm.fieldNames.Set(names)

	capitan.Emit(context.Background(), FieldRegistered,
		KeyForm.Field(fm.name),
		KeyFormID.Field(fm.id),
		KeyField.Field(f.name),
		KeyFieldCount.Field(len(names)),
	)
}

// write is the single write path into the value tree.
func (fm *Form) write(path string, v any) {
	fm.mu.Lock()
	next, err := SetAt(fm.tree, path, v)
	if err != nil {
		fm.mu.Unlock()
		capitan.Emit(context.Background(), FieldWriteFailed,
			KeyForm.Field(fm.name),
			KeyField.Field(path),
			KeyError.Field(err.Error()),
		)
		return
	}
	fm.tree = next
	fm.mu.Unlock()

	fm.values.Set(next)
	fm.metrics.OnValueWritten(path)
}

// Values returns the current value tree. The tree must be treated as
// read-only; it is shared with subscribers and later snapshots.
func (fm *Form) Values() map[string]any {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.tree
}

// ValuesStream exposes the value tree for subscription. Every write emits a
// new root.
func (fm *Form) ValuesStream() *Stream[map[string]any] {
	return fm.values
}

// FieldValue returns the value at path, or false when nothing is stored there.
func (fm *Form) FieldValue(path string) (any, bool) {
	return GetAt(fm.Values(), path)
}

// FieldNames returns the registered field names in registration order.
func (fm *Form) FieldNames() []string {
	return slices.Clone(fm.fieldNames.Get())
}

// FieldNamesStream exposes the registered field names for subscription.
func (fm *Form) FieldNamesStream() *Stream[[]string] {
	return fm.fieldNames
}

// Field returns the registered field with the given name.
func (fm *Form) Field(name string) (*Field, bool) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	f, ok := fm.fields[name]
	return f, ok
}

// Errors returns a stream of the active error messages of every registered
// field, or only of the fields named in filter. With hideUntouched set, each
// field contributes nothing until it has been touched. Disabled fields never
// contribute. Fields registered later are picked up as they register.
//
// The caller owns the stream and must Close it.
func (fm *Form) Errors(hideUntouched bool, filter ...string) *Stream[[]string] {
	out := NewStream([]string{})

	var (
		mu      sync.Mutex
		inner   *Stream[[]string]
		streams []*Stream[string]
		pubMu   sync.Mutex
	)
	collect := func() []string {
		mu.Lock()
		selected := streams
		mu.Unlock()
		errs := make([]string, 0, len(selected))
		for _, s := range selected {
			if msg := s.Get(); msg != "" {
				errs = append(errs, msg)
			}
		}
		return errs
	}
	// Field error streams settle on their own timer goroutines, so an
	// emission may carry a list that is already stale. publish reads the
	// current state itself and the last caller wins.
	publish := func([]string) {
		pubMu.Lock()
		defer pubMu.Unlock()
		errs := collect()
		if prev := out.Get(); slices.Equal(prev, errs) {
			return
		}
		out.Set(errs)
	}
	rebuild := func(names []string) {
		var selected []*Stream[string]
		for _, name := range names {
			if len(filter) > 0 && !slices.Contains(filter, name) {
				continue
			}
			if f, ok := fm.Field(name); ok {
				selected = append(selected, f.Error(!hideUntouched))
			}
		}
		sources := make([]Source, len(selected))
		for i, s := range selected {
			sources[i] = s
		}
		mu.Lock()
		streams = selected
		mu.Unlock()
		next := Combine(fm.clock, 0, collect, sources...)

		mu.Lock()
		prev := inner
		inner = next
		mu.Unlock()
		if prev != nil {
			prev.Close()
		}
		next.Subscribe(publish)
	}

	out.onClose(fm.fieldNames.Subscribe(rebuild).Unsubscribe)
	out.onClose(func() {
		mu.Lock()
		defer mu.Unlock()
		if inner != nil {
			inner.Close()
		}
	})
	return out
}

// TriggerValidation reruns every registered field's validator.
func (fm *Form) TriggerValidation() {
	names := fm.FieldNames()
	for _, name := range names {
		if f, ok := fm.Field(name); ok {
			f.TriggerValidation()
		}
	}
	capitan.Emit(context.Background(), FormValidationTriggered,
		KeyForm.Field(fm.name),
		KeyFieldCount.Field(len(names)),
	)
}

// Destroy releases the form's subscriptions on its fields' value streams.
// Fields keep their state but no longer write into the tree. Destroying an
// already destroyed form is a no-op. Destroy does not evict the form from
// its registry; use Registry.Release for that.
func (fm *Form) Destroy() {
	fm.mu.Lock()
	links := fm.links
	fm.links = nil
	fm.mu.Unlock()

	if len(links) == 0 {
		return
	}
	for _, link := range links {
		link.Unsubscribe()
	}
	capitan.Emit(context.Background(), FormDestroyed,
		KeyForm.Field(fm.name),
		KeyFormID.Field(fm.id),
		KeyFieldCount.Field(len(links)),
	)
}
