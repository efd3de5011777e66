package formz

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Load decodes data and hands every value found at a registered field's path
// to that field, then revalidates it. Paths absent from the decoded tree are
// left alone. Values reach the tree through the fields, so the form's
// single write path is preserved.
func (fm *Form) Load(codec Codec, data []byte) error {
	values, err := DecodeValues(codec, data)
	if err != nil {
		return err
	}
	for _, name := range fm.FieldNames() {
		v, ok := GetAt(values, name)
		if !ok {
			continue
		}
		if f, ok := fm.Field(name); ok {
			f.SetValue(v)
			f.TriggerValidation()
		}
	}
	return nil
}

// Follow loads every payload w emits until ctx is done or the watcher
// closes its channel. Undecodable payloads are reported through
// FormSourceFailed and skipped. Follow returns once the watcher has started.
func (fm *Form) Follow(ctx context.Context, w Watcher, codec Codec) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-changes:
				if !ok {
					return
				}
				capitan.Emit(ctx, FormSourceReceived,
					KeyForm.Field(fm.name),
					KeyFormID.Field(fm.id),
				)
				if err := fm.Load(codec, raw); err != nil {
					capitan.Emit(ctx, FormSourceFailed,
						KeyForm.Field(fm.name),
						KeyFormID.Field(fm.id),
						KeyError.Field(err.Error()),
					)
				}
			}
		}
	}()
	return nil
}
