package scxml

import (
	"fmt"

	"github.com/modelware/go-sysml/elements"
	"github.com/modelware/go-sysml/kinds"
)

// ResolveInitial scans the model's successions for the one originating from
// the machine's entry action and returns the name of its first destination.
// SysML expresses "on start, go to state X" as a generic succession rather
// than a dedicated initial transition; this bridges that to SCXML's single
// named initial state.
func ResolveInitial(model elements.Model, machine elements.StateMachine) (string, error) {
	entry := machine.EntryAction()
	if entry == nil {
		return "", fmt.Errorf("machine %q has no entry action: %w", machine.Name(), ErrNoInitialState)
	}
	for _, node := range model.Nodes(kinds.SuccessionUsage) {
		succession, ok := node.(elements.Succession)
		if !ok || succession.Source() != entry {
			continue
		}
		targets := succession.Targets()
		if len(targets) == 0 {
			return "", fmt.Errorf("entry succession %s has an empty destination set: %w", succession.Id(), ErrNoInitialState)
		}
		// Only the first destination is honored.
		initial := targets[0]
		if initial.Name() == "" {
			return "", fmt.Errorf("initial state %s has no declared name: %w", initial.Id(), ErrNoInitialState)
		}
		return initial.Name(), nil
	}
	return "", fmt.Errorf("no succession originates from the entry action of %q: %w", machine.Name(), ErrNoInitialState)
}

// ResolveEventName walks the trigger payload's ancestry chain and returns
// the declared name of the nearest ancestor that is an event type
// definition. Links to other kinds are expected along the way and skipped
// without error.
func ResolveEventName(trigger elements.AcceptAction) (string, error) {
	if trigger == nil {
		return "", fmt.Errorf("no trigger: %w", ErrUnresolvedEventName)
	}
	payload := trigger.Payload()
	if payload == nil {
		return "", fmt.Errorf("trigger %s has no payload: %w", trigger.Id(), ErrUnresolvedEventName)
	}
	for _, link := range payload.Heritage() {
		if link.Target == nil {
			continue
		}
		if kinds.IsKind(link.Target.Kind(), kinds.AttributeDefinition) {
			return link.Target.Name(), nil
		}
	}
	return "", fmt.Errorf("payload %s: %w", payload.Id(), ErrUnresolvedEventName)
}
