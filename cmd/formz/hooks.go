package main

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/formz"
	"go.uber.org/zap"
)

// hookSignals routes form lifecycle signals into logger.
func hookSignals(logger *zap.Logger) {
	debug := func(sig capitan.Signal, msg string) {
		capitan.Hook(sig, func(_ context.Context, e *capitan.Event) {
			logger.Debug(msg, eventFields(e)...)
		})
	}
	debug(formz.FormCreated, "form created")
	debug(formz.FormReleased, "form released")
	debug(formz.FieldRegistered, "field registered")
	debug(formz.FieldValidationFailed, "field validation failed")
	debug(formz.FormSourceReceived, "values received")
	debug(formz.FormSubmitStarted, "submit started")

	capitan.Hook(formz.FormSubmitSucceeded, func(_ context.Context, e *capitan.Event) {
		logger.Info("submit succeeded", eventFields(e)...)
	})
	capitan.Hook(formz.FormSubmitSkipped, func(_ context.Context, e *capitan.Event) {
		logger.Warn("submit skipped", eventFields(e)...)
	})
	capitan.Hook(formz.FormSubmitFailed, func(_ context.Context, e *capitan.Event) {
		logger.Error("submit failed", eventFields(e)...)
	})
	capitan.Hook(formz.FormSourceFailed, func(_ context.Context, e *capitan.Event) {
		logger.Warn("values rejected", eventFields(e)...)
	})
	capitan.Hook(formz.FieldWriteFailed, func(_ context.Context, e *capitan.Event) {
		logger.Warn("field write failed", eventFields(e)...)
	})
}

func eventFields(e *capitan.Event) []zap.Field {
	var fields []zap.Field
	if v, ok := formz.KeyForm.From(e); ok {
		fields = append(fields, zap.String("form", v))
	}
	if v, ok := formz.KeyFormID.From(e); ok {
		fields = append(fields, zap.String("form_id", v))
	}
	if v, ok := formz.KeyField.From(e); ok {
		fields = append(fields, zap.String("field", v))
	}
	if v, ok := formz.KeyError.From(e); ok {
		fields = append(fields, zap.String("error", v))
	}
	if d, ok := formz.KeyDuration.From(e); ok {
		fields = append(fields, zap.Duration("duration", d))
	}
	if n, ok := formz.KeyFieldCount.From(e); ok {
		fields = append(fields, zap.Int("field_count", n))
	}
	return fields
}
