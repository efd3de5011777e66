package formz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
)

// Meta is a combined snapshot of a field's state.
type Meta struct {
	Error      string
	IsTouched  bool
	IsDisabled bool
	Value      any
}

// Field owns one field's reactive state: value, touched flag, disabled flag
// and last validation error. Each piece is a Stream written only through the
// Field's methods.
//
// Fields are obtained from a Registry and register with their form on
// construction; every value the field emits is written into the form's value
// tree before the emission returns.
type Field struct {
	form      *Form
	name      string
	validator Validator

	value    *Stream[any]
	touched  *Stream[bool]
	disabled *Stream[bool]
	err      *Stream[string]

	errOnce    sync.Once
	pureErr    *Stream[string]
	visibleErr *Stream[string]
}

func newField(form *Form, name string, opts ...FieldOption) *Field {
	var cfg fieldConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &Field{
		form:      form,
		name:      name,
		validator: cfg.validator,
		value:     NewEmptyStream[any](),
		touched:   NewStream(false),
		disabled:  NewStream(false),
		err:       NewStream(""),
	}
	if cfg.hasInitial {
		f.value.Set(cfg.initialValue)
	}
	form.register(f)
	f.validate()
	return f
}

// Name returns the field's path within its form's value tree.
func (f *Field) Name() string {
	return f.name
}

// Form returns the owning form.
func (f *Field) Form() *Form {
	return f.form
}

// Value returns the current value and whether one has been set.
func (f *Field) Value() (any, bool) {
	return f.value.Lookup()
}

// Touched reports whether the field has been blurred.
func (f *Field) Touched() bool {
	return f.touched.Get()
}

// Disabled reports whether the field is disabled.
func (f *Field) Disabled() bool {
	return f.disabled.Get()
}

// RawError returns the stored diagnostic regardless of the disabled and
// touched flags.
func (f *Field) RawError() string {
	return f.err.Get()
}

// ValueStream exposes the field's value for subscription.
func (f *Field) ValueStream() *Stream[any] { return f.value }

// TouchedStream exposes the touched flag for subscription.
func (f *Field) TouchedStream() *Stream[bool] { return f.touched }

// DisabledStream exposes the disabled flag for subscription.
func (f *Field) DisabledStream() *Stream[bool] { return f.disabled }

// OnChange stores v and revalidates it against the updated form values.
func (f *Field) OnChange(v any) {
	f.value.Set(v)
	f.validate()
}

// OnBlur marks the field touched and revalidates the current value.
func (f *Field) OnBlur() {
	f.touched.Set(true)
	f.validate()
}

// SetValue stores v without running the validator.
func (f *Field) SetValue(v any) {
	f.value.Set(v)
}

// SetTouched sets the touched flag.
func (f *Field) SetTouched(touched bool) {
	f.touched.Set(touched)
}

// SetDisabled sets the disabled flag. The stored error is kept; it is only
// hidden from Error and Meta while disabled.
func (f *Field) SetDisabled(disabled bool) {
	f.disabled.Set(disabled)
}

// SetError stores msg as the field's diagnostic without running the validator.
func (f *Field) SetError(msg string) {
	f.err.Set(msg)
}

// TriggerValidation reruns the validator against the current value.
func (f *Field) TriggerValidation() {
	f.validate()
}

func (f *Field) validate() {
	if f.validator == nil {
		return
	}
	v, _ := f.value.Lookup()
	msg := f.validator(v, f.form.Values())
	f.err.Set(msg)

	f.form.metrics.OnValidation(f.name, msg != "")
	if msg != "" {
		capitan.Emit(context.Background(), FieldValidationFailed,
			KeyForm.Field(f.form.name),
			KeyField.Field(f.name),
			KeyError.Field(msg),
		)
	}
}

// Error returns the field's debounced error stream. With pure set, the error
// is hidden while the field is disabled. Without it, the error is also hidden
// until the field has been touched. The streams are owned by the field and
// shared between callers; do not close them.
func (f *Field) Error(pure bool) *Stream[string] {
	f.errOnce.Do(func() {
		clock, window := f.form.clock, f.form.debounce
		f.pureErr = Combine(clock, window, f.pureError, f.err, f.disabled)
		f.visibleErr = Combine(clock, window, func() string {
			if !f.touched.Get() {
				return ""
			}
			return f.pureError()
		}, f.err, f.disabled, f.touched)
	})
	if pure {
		return f.pureErr
	}
	return f.visibleErr
}

func (f *Field) pureError() string {
	if f.disabled.Get() {
		return ""
	}
	return f.err.Get()
}

// Meta returns a stream of combined snapshots, recomputed whenever any part
// of the field changes and coalesced over window. A window of zero or less
// uses the form's debounce window. The caller owns the stream and must Close
// it.
func (f *Field) Meta(window time.Duration) *Stream[Meta] {
	if window <= 0 {
		window = f.form.debounce
	}
	return Combine(f.form.clock, window, f.meta, f.value, f.touched, f.disabled, f.err)
}

func (f *Field) meta() Meta {
	v, _ := f.value.Lookup()
	return Meta{
		Error:      f.pureError(),
		IsTouched:  f.touched.Get(),
		IsDisabled: f.disabled.Get(),
		Value:      v,
	}
}

// close releases the derived error streams.
func (f *Field) close() {
	f.errOnce.Do(func() {})
	if f.pureErr != nil {
		f.pureErr.Close()
	}
	if f.visibleErr != nil {
		f.visibleErr.Close()
	}
}
