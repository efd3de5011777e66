package formz

import (
	"context"
	"slices"
	"sync"

	"github.com/zoobzio/capitan"
	"golang.org/x/sync/singleflight"
)

// Registry caches forms by name and fields by (form name, field name), so a
// UI layer that asks for the same form or field on every render gets the same
// container back.
//
// Lookups are get-or-create: the first lookup for a key constructs the
// container, later lookups return it and ignore their options. Concurrent
// first lookups for one key construct exactly one container.
//
// Entries live until Release; nothing is evicted automatically.
type Registry struct {
	mu     sync.Mutex
	forms  map[string]*Form
	fields map[fieldKey]*Field
	group  singleflight.Group
}

type fieldKey struct {
	form  string
	field string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forms:  make(map[string]*Form),
		fields: make(map[fieldKey]*Field),
	}
}

// Form returns the form registered under name, creating it with opts when
// absent.
func (r *Registry) Form(name string, opts ...FormOption) *Form {
	if f, ok := r.LookupForm(name); ok {
		return f
	}
	v, _, _ := r.group.Do("form\x00"+name, func() (any, error) {
		if f, ok := r.LookupForm(name); ok {
			return f, nil
		}
		f := newForm(name, opts...)
		r.mu.Lock()
		r.forms[name] = f
		r.mu.Unlock()

		capitan.Emit(context.Background(), FormCreated,
			KeyForm.Field(name),
			KeyFormID.Field(f.id),
			KeyDebounce.Field(f.debounce),
		)
		return f, nil
	})
	return v.(*Form)
}

// LookupForm returns the form registered under name without creating it.
func (r *Registry) LookupForm(name string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[name]
	return f, ok
}

// Field returns form's field called name, creating and registering it with
// opts when absent.
func (r *Registry) Field(form *Form, name string, opts ...FieldOption) *Field {
	key := fieldKey{form: form.name, field: name}
	if f, ok := r.lookupField(key); ok {
		return f
	}
	v, _, _ := r.group.Do("field\x00"+form.name+"\x00"+name, func() (any, error) {
		if f, ok := r.lookupField(key); ok {
			return f, nil
		}
		f := newField(form, name, opts...)
		r.mu.Lock()
		r.fields[key] = f
		r.mu.Unlock()
		return f, nil
	})
	return v.(*Field)
}

func (r *Registry) lookupField(key fieldKey) (*Field, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[key]
	return f, ok
}

// Forms returns the names of all registered forms, sorted.
func (r *Registry) Forms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of cached forms and fields.
func (r *Registry) Len() (forms, fields int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms), len(r.fields)
}

// Release destroys the form registered under name and evicts it together
// with its fields. The next lookup of name creates a fresh form. Release
// reports whether a form was registered.
func (r *Registry) Release(name string) bool {
	r.mu.Lock()
	form, ok := r.forms[name]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.forms, name)
	var fields []*Field
	for key, f := range r.fields {
		if key.form == name {
			fields = append(fields, f)
			delete(r.fields, key)
		}
	}
	r.mu.Unlock()

	form.Destroy()
	for _, f := range fields {
		f.close()
	}
	capitan.Emit(context.Background(), FormReleased,
		KeyForm.Field(name),
		KeyFormID.Field(form.id),
		KeyFieldCount.Field(len(fields)),
	)
	return true
}
