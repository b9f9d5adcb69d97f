// Package sysml builds in-memory SysML v2 behavioral models: state machine
// definitions whose children are state usages, transition usages, successions
// and entry actions, plus the attribute definitions that type trigger
// payloads. Models are constructed with a declarative DSL and consumed
// through the read-only views in the elements package.
package sysml

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/modelware/go-sysml/elements"
	"github.com/modelware/go-sysml/kinds"
	"github.com/modelware/go-sysml/pkg/set"
)

type Element = elements.NamedElement

/******* Element *******/

type element struct {
	kind          uint64
	id            string
	qualifiedName string
	declaredName  string
}

func (element *element) Kind() uint64 {
	if element == nil {
		return 0
	}
	return element.kind
}

func (element *element) Id() string {
	if element == nil {
		return ""
	}
	return element.id
}

func (element *element) Owner() string {
	if element == nil {
		return ""
	}
	return path.Dir(element.qualifiedName)
}

func (element *element) QualifiedName() string {
	if element == nil {
		return ""
	}
	return element.qualifiedName
}

func (element *element) Name() string {
	if element == nil {
		return ""
	}
	return element.declaredName
}

// newElement assigns the qualified name from the declared name, falling back
// to a generated segment so nameless elements still occupy a namespace slot.
func newElement(kind uint64, owner, declaredName, fallback string, sequence int) element {
	segment := declaredName
	if segment == "" {
		segment = fmt.Sprintf("%s_%d", fallback, sequence)
	}
	return element{
		kind:          kind,
		id:            uuid.NewString(),
		qualifiedName: path.Join(owner, segment),
		declaredName:  declaredName,
	}
}

/******* Feature *******/

type feature struct {
	element
	heritage []elements.Heritage
}

func (feature *feature) directHeritage() []elements.Heritage {
	return feature.heritage
}

func (feature *feature) specialize(link elements.Heritage) {
	feature.heritage = append(feature.heritage, link)
}

// Heritage flattens the ancestry chain: direct links in declared order, each
// followed depth-first by its target's own links. A visited set guards
// against specialization cycles.
func (feature *feature) Heritage() []elements.Heritage {
	var chain []elements.Heritage
	visited := set.New[string]()
	var walk func(links []elements.Heritage)
	walk = func(links []elements.Heritage) {
		for _, link := range links {
			if link.Target == nil || visited.Contains(link.Target.QualifiedName()) {
				continue
			}
			visited.Add(link.Target.QualifiedName())
			chain = append(chain, link)
			if ancestor, ok := link.Target.(interface{ directHeritage() []elements.Heritage }); ok {
				walk(ancestor.directHeritage())
			}
		}
	}
	walk(feature.heritage)
	return chain
}

/******* Definitions *******/

type definition struct {
	feature
}

/******* State machine *******/

type stateMachine struct {
	element
	children []Element
	entry    Element
}

func (machine *stateMachine) Children() []Element {
	return machine.children
}

func (machine *stateMachine) EntryAction() Element {
	return machine.entry
}

/******* State *******/

type stateUsage struct {
	element
	do Element
}

func (state *stateUsage) DoAction() Element {
	return state.do
}

/******* Transition *******/

type transitionUsage struct {
	element
	source  Element
	target  Element
	trigger elements.AcceptAction
}

func (transition *transitionUsage) Source() Element {
	return transition.source
}

func (transition *transitionUsage) Target() Element {
	return transition.target
}

func (transition *transitionUsage) Trigger() elements.AcceptAction {
	return transition.trigger
}

/******* Accept action *******/

type acceptAction struct {
	element
	payload elements.Feature
}

func (action *acceptAction) Payload() elements.Feature {
	return action.payload
}

/******* Plain usages *******/

type actionUsage struct {
	element
}

type referenceUsage struct {
	feature
}

type attributeUsage struct {
	feature
}

/******* Succession *******/

type successionUsage struct {
	element
	source  Element
	targets []Element
}

func (succession *successionUsage) Source() Element {
	return succession.source
}

func (succession *successionUsage) Targets() []Element {
	return succession.targets
}

/******* Model *******/

type Model struct {
	element
	namespace map[string]Element
	nodes     []Element
	pending   []PartialElement
}

func (model *Model) Namespace() map[string]Element {
	return model.namespace
}

// Nodes returns every element matching the kind, in declaration order.
func (model *Model) Nodes(kind uint64) []Element {
	var matched []Element
	for _, node := range model.nodes {
		if kinds.IsKind(node.Kind(), kind) {
			matched = append(matched, node)
		}
	}
	return matched
}

// Push defers a build step until the current wave of elements has applied,
// so forward references resolve against the completed namespace.
func (model *Model) Push(partial PartialElement) {
	model.pending = append(model.pending, partial)
}

func (model *Model) add(node Element) {
	model.namespace[node.QualifiedName()] = node
	model.nodes = append(model.nodes, node)
}

var (
	_ elements.Model        = (*Model)(nil)
	_ elements.StateMachine = (*stateMachine)(nil)
	_ elements.State        = (*stateUsage)(nil)
	_ elements.Transition   = (*transitionUsage)(nil)
	_ elements.AcceptAction = (*acceptAction)(nil)
	_ elements.Succession   = (*successionUsage)(nil)
	_ elements.Feature      = (*referenceUsage)(nil)
	_ elements.Feature      = (*attributeUsage)(nil)
	_ elements.Feature      = (*definition)(nil)
)

/******* Builder *******/

// PartialElement is a deferred build step applied against the model with the
// current ownership stack.
type PartialElement = func(model *Model, stack []Element) Element

func apply(model *Model, stack []Element, partials ...PartialElement) {
	for _, partial := range partials {
		partial(model, stack)
	}
}

func find(stack []Element, maybeKinds ...uint64) Element {
	for i := len(stack) - 1; i >= 0; i-- {
		if kinds.IsKind(stack[i].Kind(), maybeKinds...) {
			return stack[i]
		}
	}
	return nil
}

// Define builds a model from the given declarations. Deferred steps pushed
// during the build (forward references, heritage links) run in waves until
// none remain.
func Define(name string, partials ...PartialElement) *Model {
	model := &Model{
		element: element{
			kind:          kinds.Element,
			id:            uuid.NewString(),
			qualifiedName: "/",
			declaredName:  name,
		},
		namespace: map[string]Element{},
	}
	stack := []Element{model}
	apply(model, stack, partials...)
	for len(model.pending) > 0 {
		pending := model.pending
		model.pending = nil
		apply(model, stack, pending...)
	}
	return model
}

func StateMachine(name string, partials ...PartialElement) PartialElement {
	return func(model *Model, stack []Element) Element {
		machine := &stateMachine{
			element: newElement(kinds.StateDefinition, "/", name, "machine", len(model.namespace)),
		}
		model.add(machine)
		stack = append(stack, machine)
		apply(model, stack, partials...)
		return machine
	}
}

func State(name string, partials ...PartialElement) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.StateDefinition)
		if owner == nil {
			slog.Error("State must be declared within a StateMachine", "name", name)
			panic(fmt.Errorf("State must be declared within a StateMachine"))
		}
		machine := owner.(*stateMachine)
		state := &stateUsage{
			element: newElement(kinds.StateUsage, machine.QualifiedName(), name, "state", len(model.namespace)),
		}
		model.add(state)
		machine.children = append(machine.children, state)
		stack = append(stack, state)
		apply(model, stack, partials...)
		return state
	}
}

// Do declares the state's ongoing activity. Only the declared name survives
// conversion, as an invocation identifier.
func Do(name string) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.StateUsage)
		if owner == nil {
			slog.Error("Do must be declared within a State", "name", name)
			panic(fmt.Errorf("Do must be declared within a State"))
		}
		state := owner.(*stateUsage)
		action := &actionUsage{
			element: newElement(kinds.ActionUsage, state.QualifiedName(), name, "action", len(model.namespace)),
		}
		model.add(action)
		state.do = action
		return action
	}
}

func Transition(name string, partials ...PartialElement) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.StateDefinition)
		if owner == nil {
			slog.Error("Transition must be declared within a StateMachine", "name", name)
			panic(fmt.Errorf("Transition must be declared within a StateMachine"))
		}
		machine := owner.(*stateMachine)
		transition := &transitionUsage{
			element: newElement(kinds.TransitionUsage, machine.QualifiedName(), name, "transition", len(model.namespace)),
		}
		model.add(transition)
		machine.children = append(machine.children, transition)
		stack = append(stack, transition)
		apply(model, stack, partials...)
		return transition
	}
}

func setEndpoint(owner Element, endpoint Element, source bool) {
	switch connector := owner.(type) {
	case *transitionUsage:
		if source {
			connector.source = endpoint
		} else {
			connector.target = endpoint
		}
	case *successionUsage:
		if source {
			connector.source = endpoint
		} else {
			connector.targets = append(connector.targets, endpoint)
		}
	}
}

// Source names the connector's source state, or declares it inline.
func Source[T interface{ string | PartialElement }](nameOrPartial T) PartialElement {
	return endpoint(nameOrPartial, true)
}

// Target names the connector's target state, or declares it inline. On a
// succession, repeated targets accumulate into the destination set.
func Target[T interface{ string | PartialElement }](nameOrPartial T) PartialElement {
	return endpoint(nameOrPartial, false)
}

func endpoint[T interface{ string | PartialElement }](nameOrPartial T, source bool) PartialElement {
	role := "Target"
	if source {
		role = "Source"
	}
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.TransitionUsage, kinds.SuccessionUsage)
		if owner == nil {
			panic(fmt.Errorf("%s must be declared within a Transition or Succession", role))
		}
		switch ref := any(nameOrPartial).(type) {
		case string:
			qualifiedName := ref
			if !path.IsAbs(qualifiedName) {
				qualifiedName = path.Join(owner.Owner(), ref)
			}
			model.Push(func(model *Model, stack []Element) Element {
				resolved, ok := model.namespace[qualifiedName]
				if !ok {
					slog.Error("missing endpoint", "role", role, "name", qualifiedName)
					panic(fmt.Errorf("missing %s %s", role, qualifiedName))
				}
				setEndpoint(owner, resolved, source)
				return owner
			})
		case PartialElement:
			declared := ref(model, stack)
			if declared == nil {
				panic(fmt.Errorf("%s is nil", role))
			}
			setEndpoint(owner, declared, source)
		}
		return owner
	}
}

// Trigger declares the transition's accept-event action. The payload
// parameter is typed by the named attribute; its heritage chain is walked
// during conversion to resolve the event name.
func Trigger(typeName string) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.TransitionUsage)
		if owner == nil {
			slog.Error("Trigger must be declared within a Transition", "type", typeName)
			panic(fmt.Errorf("Trigger must be declared within a Transition"))
		}
		transition := owner.(*transitionUsage)
		action := &acceptAction{
			element: newElement(kinds.AcceptAction, transition.QualifiedName(), "", "accept", len(model.namespace)),
		}
		payload := &referenceUsage{
			feature: feature{
				element: newElement(kinds.ReferenceUsage, action.QualifiedName(), "", "payload", len(model.namespace)+1),
			},
		}
		action.payload = payload
		model.add(action)
		model.add(payload)
		transition.trigger = action
		qualifiedName := typeName
		if !path.IsAbs(qualifiedName) {
			qualifiedName = path.Join("/", typeName)
		}
		model.Push(func(model *Model, stack []Element) Element {
			resolved, ok := model.namespace[qualifiedName]
			if !ok {
				slog.Error("missing trigger type", "name", qualifiedName)
				panic(fmt.Errorf("missing trigger type %s", qualifiedName))
			}
			payload.heritage = append(payload.heritage, elements.Heritage{Kind: kinds.Typing, Target: resolved})
			return action
		})
		return action
	}
}

// Entry declares the machine's entry action and, when targets are given, the
// succession carrying the machine into its initial state.
func Entry(targets ...string) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.StateDefinition)
		if owner == nil {
			panic(fmt.Errorf("Entry must be declared within a StateMachine"))
		}
		machine := owner.(*stateMachine)
		if machine.entry != nil {
			panic(fmt.Errorf("%s already has an entry action", machine.QualifiedName()))
		}
		action := &actionUsage{
			element: newElement(kinds.ActionUsage, machine.QualifiedName(), "entry", "action", len(model.namespace)),
		}
		model.add(action)
		machine.children = append(machine.children, action)
		machine.entry = action
		if len(targets) > 0 {
			succession := &successionUsage{
				element: newElement(kinds.SuccessionUsage, machine.QualifiedName(), "", "succession", len(model.namespace)),
				source:  action,
			}
			model.add(succession)
			machine.children = append(machine.children, succession)
			for _, target := range targets {
				qualifiedName := path.Join(machine.QualifiedName(), target)
				model.Push(func(model *Model, stack []Element) Element {
					resolved, ok := model.namespace[qualifiedName]
					if !ok {
						slog.Error("missing entry target", "name", qualifiedName)
						panic(fmt.Errorf("missing entry target %s", qualifiedName))
					}
					succession.targets = append(succession.targets, resolved)
					return succession
				})
			}
		}
		return action
	}
}

// Succession declares a generic flow connector between named elements of the
// machine. Entry's sugar covers the common case; this form exists for
// connectors with unusual shapes, such as an empty destination set.
func Succession(source string, targets ...string) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.StateDefinition)
		if owner == nil {
			panic(fmt.Errorf("Succession must be declared within a StateMachine"))
		}
		machine := owner.(*stateMachine)
		succession := &successionUsage{
			element: newElement(kinds.SuccessionUsage, machine.QualifiedName(), "", "succession", len(model.namespace)),
		}
		model.add(succession)
		machine.children = append(machine.children, succession)
		sourceName := path.Join(machine.QualifiedName(), source)
		model.Push(func(model *Model, stack []Element) Element {
			resolved, ok := model.namespace[sourceName]
			if !ok {
				slog.Error("missing succession source", "name", sourceName)
				panic(fmt.Errorf("missing succession source %s", sourceName))
			}
			succession.source = resolved
			return succession
		})
		for _, target := range targets {
			qualifiedName := path.Join(machine.QualifiedName(), target)
			model.Push(func(model *Model, stack []Element) Element {
				resolved, ok := model.namespace[qualifiedName]
				if !ok {
					slog.Error("missing succession target", "name", qualifiedName)
					panic(fmt.Errorf("missing succession target %s", qualifiedName))
				}
				succession.targets = append(succession.targets, resolved)
				return succession
			})
		}
		return succession
	}
}

// AttributeDef declares a named event type. Transition triggers resolve to
// the nearest AttributeDef in their payload's ancestry.
func AttributeDef(name string, partials ...PartialElement) PartialElement {
	return defineFeature(kinds.AttributeDefinition, "attribute_def", name, partials)
}

// PartDef declares a structural definition. It participates in heritage
// chains but never supplies an event name.
func PartDef(name string, partials ...PartialElement) PartialElement {
	return defineFeature(kinds.PartDefinition, "part_def", name, partials)
}

// Attribute declares an attribute usage, typically specializing an
// AttributeDef.
func Attribute(name string, partials ...PartialElement) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := stack[len(stack)-1]
		attribute := &attributeUsage{
			feature: feature{
				element: newElement(kinds.AttributeUsage, owner.QualifiedName(), name, "attribute", len(model.namespace)),
			},
		}
		model.add(attribute)
		stack = append(stack, attribute)
		apply(model, stack, partials...)
		return attribute
	}
}

func defineFeature(kind uint64, fallback, name string, partials []PartialElement) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := stack[len(stack)-1]
		defined := &definition{
			feature: feature{
				element: newElement(kind, owner.QualifiedName(), name, fallback, len(model.namespace)),
			},
		}
		model.add(defined)
		stack = append(stack, defined)
		apply(model, stack, partials...)
		return defined
	}
}

// Specializes links the enclosing definition or usage to named general
// types, in declared order.
func Specializes(names ...string) PartialElement {
	return func(model *Model, stack []Element) Element {
		owner := find(stack, kinds.Definition, kinds.Usage)
		if owner == nil {
			panic(fmt.Errorf("Specializes must be declared within a definition or usage"))
		}
		typed, ok := owner.(interface{ specialize(link elements.Heritage) })
		if !ok {
			panic(fmt.Errorf("%s cannot specialize", owner.QualifiedName()))
		}
		for _, name := range names {
			qualifiedName := name
			if !path.IsAbs(qualifiedName) {
				qualifiedName = path.Join("/", name)
			}
			model.Push(func(model *Model, stack []Element) Element {
				resolved, ok := model.namespace[qualifiedName]
				if !ok {
					slog.Error("missing general type", "name", qualifiedName)
					panic(fmt.Errorf("missing general type %s", qualifiedName))
				}
				typed.specialize(elements.Heritage{Kind: kinds.Specialization, Target: resolved})
				return owner
			})
		}
		return owner
	}
}
