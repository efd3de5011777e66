package formz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key form events.
type MetricsProvider interface {
	// OnValueWritten is called after a field value lands in the form's value tree.
	OnValueWritten(field string)

	// OnValidation is called after a field's validator ran.
	// Failed reports whether the validator returned a diagnostic.
	OnValidation(field string, failed bool)

	// OnSubmitStarted is called when a submit handler is invoked.
	OnSubmitStarted()

	// OnSubmitSettled is called when a submit handler settles.
	// Err is nil on success.
	OnSubmitSettled(duration time.Duration, err error)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnValueWritten(_ string)                 {}
func (NoOpMetricsProvider) OnValidation(_ string, _ bool)           {}
func (NoOpMetricsProvider) OnSubmitStarted()                        {}
func (NoOpMetricsProvider) OnSubmitSettled(_ time.Duration, _ error) {}
