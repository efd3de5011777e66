package formz

import "context"

// ChannelWatcher adapts a byte channel to the Watcher interface.
type ChannelWatcher struct {
	src    <-chan []byte
	direct bool
}

// NewChannelWatcher forwards src through a goroutine that stops when the
// watch context ends.
func NewChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src}
}

// NewSyncChannelWatcher hands src to the consumer unchanged. Deliveries are
// then ordered exactly as they were sent, which keeps tests deterministic.
func NewSyncChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src, direct: true}
}

// Watch implements Watcher.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.src, nil
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			var (
				data []byte
				ok   bool
			)
			select {
			case <-ctx.Done():
				return
			case data, ok = <-w.src:
				if !ok {
					return
				}
			}
			select {
			case out <- data:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
