package scxml

import (
	"fmt"

	"github.com/modelware/go-sysml/elements"
	"github.com/modelware/go-sysml/kinds"
)

// StateNode is the indexed view of a state usage. Do is the declared name of
// the state's do-activity, empty when the state has none.
type StateNode struct {
	Name string
	Do   string
}

// TransitionNode is the indexed view of a transition usage. Source and
// Target are state names already verified against the state set; the event
// name is resolved from Trigger at emission time.
type TransitionNode struct {
	Name    string
	Source  string
	Target  string
	Trigger elements.AcceptAction
}

// Index holds the lookup structures built from one pass over a machine's
// children. It is never mutated after IndexMachine returns.
type Index struct {
	States            []*StateNode
	Transitions       []*TransitionNode
	StatesByName      map[string]*StateNode
	TransitionsByName map[string]*TransitionNode
	Outgoing          map[string][]*TransitionNode
}

// IndexMachine classifies the machine's direct children into states and
// transitions, in declaration order. Children of any other kind are skipped.
// States are collected before transitions so every endpoint can be checked
// against the complete state set; within each class, declaration order is
// preserved.
func IndexMachine(machine elements.StateMachine) (*Index, error) {
	index := &Index{
		StatesByName:      map[string]*StateNode{},
		TransitionsByName: map[string]*TransitionNode{},
		Outgoing:          map[string][]*TransitionNode{},
	}
	children := machine.Children()
	for _, child := range children {
		if !kinds.IsKind(child.Kind(), kinds.StateUsage) {
			continue
		}
		state, ok := child.(elements.State)
		if !ok {
			continue
		}
		if state.Name() == "" {
			return nil, fmt.Errorf("state %s: %w", state.Id(), ErrMissingName)
		}
		node := &StateNode{Name: state.Name()}
		if do := state.DoAction(); do != nil {
			node.Do = do.Name()
		}
		index.States = append(index.States, node)
		index.StatesByName[node.Name] = node
	}
	for _, child := range children {
		if !kinds.IsKind(child.Kind(), kinds.TransitionUsage) {
			continue
		}
		transition, ok := child.(elements.Transition)
		if !ok {
			continue
		}
		if transition.Name() == "" {
			return nil, fmt.Errorf("transition %s: %w", transition.Id(), ErrMissingName)
		}
		source := transition.Source()
		if source == nil || source.Name() == "" {
			return nil, fmt.Errorf("transition %q has no source state: %w", transition.Name(), ErrMissingEndpoint)
		}
		target := transition.Target()
		if target == nil || target.Name() == "" {
			return nil, fmt.Errorf("transition %q has no target state: %w", transition.Name(), ErrMissingEndpoint)
		}
		if _, ok := index.StatesByName[source.Name()]; !ok {
			return nil, fmt.Errorf("transition %q source %q is not a state of the machine: %w", transition.Name(), source.Name(), ErrMissingEndpoint)
		}
		if _, ok := index.StatesByName[target.Name()]; !ok {
			return nil, fmt.Errorf("transition %q target %q is not a state of the machine: %w", transition.Name(), target.Name(), ErrMissingEndpoint)
		}
		node := &TransitionNode{
			Name:    transition.Name(),
			Source:  source.Name(),
			Target:  target.Name(),
			Trigger: transition.Trigger(),
		}
		index.Transitions = append(index.Transitions, node)
		index.TransitionsByName[node.Name] = node
		index.Outgoing[node.Source] = append(index.Outgoing[node.Source], node)
	}
	return index, nil
}
