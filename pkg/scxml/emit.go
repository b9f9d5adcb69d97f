package scxml

import (
	"encoding/xml"
	"fmt"
)

const (
	namespaceURI = "http://www.w3.org/2005/07/scxml"
	version      = "1.0"
	datamodel    = "ecmascript"
)

type Document struct {
	XMLName   xml.Name       `xml:"scxml"`
	Namespace string         `xml:"xmlns,attr"`
	Version   string         `xml:"version,attr"`
	Datamodel string         `xml:"datamodel,attr"`
	Initial   string         `xml:"initial,attr"`
	States    []StateElement `xml:"state"`
}

type StateElement struct {
	ID          string              `xml:"id,attr"`
	Invoke      *InvokeElement      `xml:"invoke,omitempty"`
	Transitions []TransitionElement `xml:"transition"`
}

type InvokeElement struct {
	ID string `xml:"id,attr"`
}

type TransitionElement struct {
	Event  string `xml:"event,attr"`
	Target string `xml:"target,attr"`
}

// Emit builds the document tree: one state element per indexed state in
// declaration order, each carrying its invoke element and its outgoing
// transitions with resolved event names.
func Emit(index *Index, initial string) (*Document, error) {
	document := &Document{
		Namespace: namespaceURI,
		Version:   version,
		Datamodel: datamodel,
		Initial:   initial,
		States:    make([]StateElement, len(index.States)),
	}
	byName := make(map[string]*StateElement, len(index.States))
	for i, state := range index.States {
		document.States[i] = StateElement{ID: state.Name}
		if state.Do != "" {
			document.States[i].Invoke = &InvokeElement{ID: state.Do}
		}
		byName[state.Name] = &document.States[i]
	}
	for _, transition := range index.Transitions {
		// Guaranteed by indexing; a violation here is a bug, not bad input.
		if transition.Name == "" || transition.Source == "" || transition.Target == "" {
			return nil, fmt.Errorf("transition %q lost an endpoint after indexing: %w", transition.Name, ErrMissingEndpoint)
		}
		event, err := ResolveEventName(transition.Trigger)
		if err != nil {
			return nil, fmt.Errorf("transition %q: %w", transition.Name, err)
		}
		owner, ok := byName[transition.Source]
		if !ok {
			return nil, fmt.Errorf("transition %q source %q missing from document: %w", transition.Name, transition.Source, ErrMissingEndpoint)
		}
		owner.Transitions = append(owner.Transitions, TransitionElement{Event: event, Target: transition.Target})
	}
	return document, nil
}

// Serialize renders the document with two-space indentation, prefixed with
// the XML declaration and terminated by a newline. Pure function of the
// tree.
func Serialize(document *Document) (string, error) {
	raw, err := xml.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(raw) + "\n", nil
}
