package formz

import "github.com/zoobzio/capitan"

// Form lifecycle signals.
var (
	// FormCreated is emitted when a registry constructs a form.
	FormCreated = capitan.NewSignal(
		"formz.form.created",
		"Form state container created",
	)

	// FormDestroyed is emitted when a form releases its field subscriptions.
	FormDestroyed = capitan.NewSignal(
		"formz.form.destroyed",
		"Form field subscriptions released",
	)

	// FormReleased is emitted when a registry evicts a form and its fields.
	FormReleased = capitan.NewSignal(
		"formz.form.released",
		"Form evicted from registry",
	)

	// FormValidationTriggered is emitted when every field of a form is revalidated.
	FormValidationTriggered = capitan.NewSignal(
		"formz.form.validation.triggered",
		"Bulk field validation triggered",
	)
)

// Field signals.
var (
	// FieldRegistered is emitted when a field attaches to its form.
	FieldRegistered = capitan.NewSignal(
		"formz.field.registered",
		"Field registered with form",
	)

	// FieldWriteFailed is emitted when a field value cannot be stored at the
	// field's path, for example because the name is not a valid path.
	FieldWriteFailed = capitan.NewSignal(
		"formz.field.write.failed",
		"Field value rejected by value tree",
	)

	// FieldValidationFailed is emitted when a validator reports a diagnostic.
	FieldValidationFailed = capitan.NewSignal(
		"formz.field.validation.failed",
		"Field validator reported an error",
	)
)

// Submission signals.
var (
	// FormSubmitStarted is emitted when a submit handler is invoked.
	FormSubmitStarted = capitan.NewSignal(
		"formz.form.submit.started",
		"Submit handler invoked",
	)

	// FormSubmitSucceeded is emitted when a submit handler settles without error.
	FormSubmitSucceeded = capitan.NewSignal(
		"formz.form.submit.succeeded",
		"Submit handler settled",
	)

	// FormSubmitFailed is emitted when a submit handler settles with an error.
	FormSubmitFailed = capitan.NewSignal(
		"formz.form.submit.failed",
		"Submit handler returned an error",
	)

	// FormSubmitRetrying is emitted when a failed submit attempt will be
	// retried.
	FormSubmitRetrying = capitan.NewSignal(
		"formz.form.submit.retrying",
		"Submit attempt failed, retrying",
	)

	// FormSubmitSkipped is a warning emitted when Submit is called on a form
	// without a submit handler.
	FormSubmitSkipped = capitan.NewSignal(
		"formz.form.submit.skipped",
		"Submit called without a handler",
	)
)

// External source signals.
var (
	// FormSourceReceived is emitted when a followed source delivers data.
	FormSourceReceived = capitan.NewSignal(
		"formz.form.source.received",
		"Followed source delivered values",
	)

	// FormSourceFailed is emitted when followed data cannot be decoded.
	FormSourceFailed = capitan.NewSignal(
		"formz.form.source.failed",
		"Followed source data rejected",
	)
)
