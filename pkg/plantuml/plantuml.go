// Package plantuml renders an indexed state machine as a PlantUML state
// diagram. It shares the index and event resolution with pkg/scxml, so a
// machine that converts cleanly also diagrams cleanly.
package plantuml

import (
	"fmt"
	"io"
	"strings"

	"github.com/modelware/go-sysml/pkg/scxml"
	"github.com/modelware/go-sysml/pkg/set"
)

// Generate writes the diagram for one machine. States render in declaration
// order, each followed by its outgoing transitions, so the output is
// deterministic for a given index.
func Generate(writer io.Writer, name string, index *scxml.Index, initial string) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "@startuml %s\n", name)
	if initial != "" {
		fmt.Fprintf(&builder, "[*] --> %s\n", initial)
	}
	declared := set.New[string]()
	for _, state := range index.States {
		if declared.Contains(state.Name) {
			continue
		}
		declared.Add(state.Name)
		fmt.Fprintf(&builder, "state %s\n", state.Name)
		if state.Do != "" {
			fmt.Fprintf(&builder, "%s : do / %s\n", state.Name, state.Do)
		}
		for _, transition := range index.Outgoing[state.Name] {
			event, err := scxml.ResolveEventName(transition.Trigger)
			if err != nil {
				return fmt.Errorf("transition %q: %w", transition.Name, err)
			}
			fmt.Fprintf(&builder, "%s --> %s : %s\n", transition.Source, transition.Target, event)
		}
	}
	fmt.Fprintln(&builder, "@enduml")
	_, err := writer.Write([]byte(builder.String()))
	return err
}
