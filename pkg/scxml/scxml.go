// Package scxml converts an in-memory SysML v2 state machine into an SCXML
// document that external state-chart runtimes can execute.
//
// The conversion is a single synchronous pass: IndexMachine classifies the
// machine's children and builds the lookup structures, ResolveInitial finds
// the unique initial state through the entry-action succession,
// ResolveEventName flattens each trigger's payload typing to an event name,
// and Emit/Serialize produce the document. Any failure aborts the whole run;
// a structurally incomplete document is never returned.
package scxml

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/modelware/go-sysml/elements"
	"github.com/modelware/go-sysml/pkg/telemetry"
)

type Converter struct {
	tracer trace.Tracer
}

type Option func(*Converter)

// WithTracerProvider injects the conversion's diagnostic hook. The default
// provider records nothing.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(converter *Converter) {
		converter.tracer = provider.Tracer("go-sysml/scxml")
	}
}

func New(options ...Option) *Converter {
	converter := &Converter{
		tracer: telemetry.NewProvider().Tracer("go-sysml/scxml"),
	}
	for _, option := range options {
		option(converter)
	}
	return converter
}

// Convert runs index, initial-state resolution, emission and serialization
// against one machine of the model. The model is only read; concurrent
// conversions of different machines are safe.
func (converter *Converter) Convert(ctx context.Context, model elements.Model, machine elements.StateMachine) (out string, err error) {
	_, span := converter.tracer.Start(ctx, "scxml.Convert", trace.WithAttributes(
		attribute.String("machine", machine.Name()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()
	index, err := IndexMachine(machine)
	if err != nil {
		return "", err
	}
	span.SetAttributes(
		attribute.Int("states", len(index.States)),
		attribute.Int("transitions", len(index.Transitions)),
	)
	initial, err := ResolveInitial(model, machine)
	if err != nil {
		return "", err
	}
	document, err := Emit(index, initial)
	if err != nil {
		return "", err
	}
	return Serialize(document)
}
