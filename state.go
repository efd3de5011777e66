package formz

// SubmitState represents where a form is in its submission lifecycle.
type SubmitState int32

const (
	// SubmitIdle indicates the form has never been submitted.
	SubmitIdle SubmitState = iota

	// SubmitPending indicates at least one submit handler has not settled.
	SubmitPending

	// SubmitSucceeded indicates the last settled submission returned no error.
	SubmitSucceeded

	// SubmitFailed indicates the last settled submission returned an error.
	SubmitFailed
)

// String returns the string representation of the state.
func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case SubmitPending:
		return "pending"
	case SubmitSucceeded:
		return "succeeded"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}
