/*
Package formz provides reactive form state for component-based UIs.

A Form owns an aggregate value tree and the submission lifecycle. A Field
owns one named leaf of that tree: its value, touched and disabled flags and
the last validation error. Every piece of state is a Stream with a single
writer, so a component subscribed to one field is never notified about
another.

The rendering layer stays outside this package. It asks a Registry for
containers when it mounts, wires change and blur events to OnChange and
OnBlur, subscribes to the streams it renders, and calls Registry.Release
(or Form.Destroy) when it unmounts.

# Basic Usage

	reg := formz.NewRegistry()

	login := reg.Form("login",
	    formz.WithInitialValues(map[string]any{"email": ""}),
	    formz.WithSubmit(func(ctx context.Context, values map[string]any) error {
	        return api.Login(ctx, values)
	    }),
	)
	defer reg.Release("login")

	email := reg.Field(login, "email",
	    formz.WithValidator(formz.Rule("required,email")),
	)

	email.OnChange("a@b.com")
	email.OnBlur()

	v, _ := login.FieldValue("email") // "a@b.com"

# Paths

Field names are paths into the value tree: "user.email", "items[0].sku" and
"items.0.sku" all work. Writes go through SetAt, which rebuilds the path and
shares every other branch, so each write yields a new root and earlier roots
never change.

# Derived Streams

Error, Meta and Errors are derived with Combine: they recompute whenever one
of their sources emits and coalesce bursts over the form's debounce window
(DefaultDebounce, 150ms). They lag raw state by design. Use WithDebounce(0)
for synchronous derivation and WithClock with a clockz.FakeClock to drive the
window in tests.

# Submission

	sub := login.Submit(ctx)
	if sub == nil {
	    // no handler configured; a FormSubmitSkipped signal was emitted
	}
	err := sub.Wait(ctx)

The form is marked submitting before Submit returns and unmarked once the
handler settles. The handler receives a snapshot taken when Submit was called.

# Observability

Lifecycle events are emitted as capitan signals (FormCreated,
FieldValidationFailed, FormSubmitSkipped, ...) carrying the typed keys in
fields.go. Hook them to route events into a logger or metrics system, or
implement MetricsProvider.
*/
package formz
