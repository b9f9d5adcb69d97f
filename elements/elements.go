// Package elements defines the read-only views a model must expose for the
// SCXML conversion. The root sysml package provides one implementation;
// anything satisfying these interfaces can be converted.
package elements

type Element interface {
	Kind() uint64
	Id() string
}

type NamedElement interface {
	Element
	Owner() string
	QualifiedName() string
	// Name is the declared name. It may be empty; the converter treats an
	// empty name on a state or transition as a hard failure.
	Name() string
}

// Heritage is one ancestry link of a feature: the relation kind
// (kinds.Typing, kinds.Specialization) paired with the referenced element.
type Heritage struct {
	Kind   uint64
	Target NamedElement
}

// Feature is a named element with an ancestry chain. Heritage returns the
// flattened chain in declared order, nearest ancestor first.
type Feature interface {
	NamedElement
	Heritage() []Heritage
}

type Model interface {
	NamedElement
	Namespace() map[string]NamedElement
	// Nodes returns every element matching the kind, in declaration order.
	Nodes(kind uint64) []NamedElement
}

// StateMachine is the container element whose direct children are the
// machine's states and transitions.
type StateMachine interface {
	NamedElement
	Children() []NamedElement
	// EntryAction is the machine's designated entry point, nil when the
	// machine declares none.
	EntryAction() NamedElement
}

type State interface {
	NamedElement
	// DoAction is the state's ongoing activity, nil when absent. Only its
	// declared name is carried into the output.
	DoAction() NamedElement
}

type Transition interface {
	NamedElement
	Source() NamedElement
	Target() NamedElement
	Trigger() AcceptAction
}

// AcceptAction is a transition's trigger: an accept-event action whose
// payload parameter carries the event typing.
type AcceptAction interface {
	NamedElement
	Payload() Feature
}

// Succession is the generic flow connector linking an origin element to one
// or more destinations.
type Succession interface {
	NamedElement
	Source() NamedElement
	Targets() []NamedElement
}
