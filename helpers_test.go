package formz

import (
	"reflect"
	"testing"
	"time"
)

// same reports whether two maps are the same instance.
func same(a, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

// newTestRegistry returns a registry that is released when the test ends.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	t.Cleanup(func() {
		for _, name := range reg.Forms() {
			reg.Release(name)
		}
	})
	return reg
}
