package formz

import (
	"maps"
	"time"

	"github.com/zoobzio/clockz"
)

// FormOption configures a Form. Options only apply when the registry
// constructs the form; options passed to later lookups of the same name are
// ignored.
type FormOption func(*formConfig)

type formConfig struct {
	initialValues    map[string]any
	initializeValues bool
	onSubmit         SubmitHandler
	debounce         time.Duration
	clock            clockz.Clock
	metrics          MetricsProvider
	submitHistory    int
	submitAttempts   int
	submitBackoff    time.Duration
	submitTimeout    time.Duration
}

func defaultFormConfig() formConfig {
	return formConfig{
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		metrics:  NoOpMetricsProvider{},
	}
}

// WithInitialValues seeds the form's value tree. The map is copied at the
// top level; nested containers must not be mutated afterwards.
func WithInitialValues(values map[string]any) FormOption {
	return func(c *formConfig) {
		c.initialValues = maps.Clone(values)
	}
}

// WithInitializeValues makes registering fields take their value from the
// form's tree instead of seeding the tree with their own initial value.
// Fields whose path is absent from the tree keep their own value.
func WithInitializeValues() FormOption {
	return func(c *formConfig) {
		c.initializeValues = true
	}
}

// WithSubmit sets the submit handler.
func WithSubmit(fn SubmitHandler) FormOption {
	return func(c *formConfig) {
		c.onSubmit = fn
	}
}

// WithDebounce sets the coalescing window for derived error and meta
// streams. Zero recomputes synchronously. Default: 150ms.
func WithDebounce(d time.Duration) FormOption {
	return func(c *formConfig) {
		c.debounce = d
	}
}

// WithClock sets the clock driving debounce timers and submit durations.
// Use this with clockz.FakeClock for deterministic debounce testing.
func WithClock(clock clockz.Clock) FormOption {
	return func(c *formConfig) {
		c.clock = clock
	}
}

// WithMetrics sets a metrics provider for observability integration.
func WithMetrics(provider MetricsProvider) FormOption {
	return func(c *formConfig) {
		c.metrics = provider
	}
}

// WithSubmitHistory sets the number of recent submit errors to retain.
// Use 0 (default) to disable history.
func WithSubmitHistory(n int) FormOption {
	return func(c *formConfig) {
		c.submitHistory = n
	}
}

// FieldOption configures a Field at construction.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	initialValue any
	hasInitial   bool
	validator    Validator
}

// WithInitialValue sets the field's value before it registers with its form.
func WithInitialValue(v any) FieldOption {
	return func(c *fieldConfig) {
		c.initialValue = v
		c.hasInitial = true
	}
}

// WithValidator sets the field's validator.
func WithValidator(v Validator) FieldOption {
	return func(c *fieldConfig) {
		c.validator = v
	}
}
