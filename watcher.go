package formz

import "context"

// Watcher observes an external source of form values and emits its raw
// contents. Implementations should emit the current contents as soon as
// Watch is called and close the channel once ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []byte, error)
}
