package formz

import "github.com/zoobzio/capitan"

// Field keys for form events.
var (
	// KeyForm is the registry name of the form.
	KeyForm = capitan.NewStringKey("form")

	// KeyFormID is the unique instance id of the form. Two forms created under
	// the same name, before and after a Release, carry different ids.
	KeyFormID = capitan.NewStringKey("form_id")

	// KeyField is the path of the field within the form.
	KeyField = capitan.NewStringKey("field")

	// KeyError is the diagnostic or error message.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the form's coalescing window.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyDuration is how long a submit handler took to settle.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyAttempt is the number of the submit attempt that just failed.
	KeyAttempt = capitan.NewIntKey("attempt")

	// KeyFieldCount is the number of fields registered with the form.
	KeyFieldCount = capitan.NewIntKey("field_count")
)
