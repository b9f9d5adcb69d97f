package sysml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysml "github.com/modelware/go-sysml"
	"github.com/modelware/go-sysml/elements"
	"github.com/modelware/go-sysml/kinds"
)

func trafficModel() *sysml.Model {
	return sysml.Define("Traffic",
		sysml.AttributeDef("TimerExpired"),
		sysml.Attribute("tick", sysml.Specializes("TimerExpired")),
		sysml.StateMachine("Light",
			sysml.Entry("Red"),
			sysml.State("Red"),
			sysml.State("Green", sysml.Do("letTrafficFlow")),
			sysml.Transition("Go", sysml.Source("Red"), sysml.Target("Green"), sysml.Trigger("tick")),
			sysml.Transition("Halt", sysml.Source("Green"), sysml.Target("Red"), sysml.Trigger("tick")),
		),
	)
}

func TestDefine_Namespace(t *testing.T) {
	model := trafficModel()
	namespace := model.Namespace()
	for _, qualifiedName := range []string{
		"/TimerExpired", "/tick", "/Light",
		"/Light/Red", "/Light/Green", "/Light/Green/letTrafficFlow",
		"/Light/Go", "/Light/Halt", "/Light/entry",
	} {
		assert.Contains(t, namespace, qualifiedName)
	}
	assert.Equal(t, "/Light", namespace["/Light/Red"].Owner())
	assert.Equal(t, "Red", namespace["/Light/Red"].Name())
}

func TestDefine_MachineChildren(t *testing.T) {
	model := trafficModel()
	machine, ok := model.Namespace()["/Light"].(elements.StateMachine)
	require.True(t, ok)

	// Declaration order: entry action, its succession, then the states and
	// transitions.
	children := machine.Children()
	require.Len(t, children, 6)
	assert.Equal(t, "entry", children[0].Name())
	assert.True(t, kinds.IsKind(children[1].Kind(), kinds.SuccessionUsage))
	assert.Equal(t, "Red", children[2].Name())
	assert.Equal(t, "Green", children[3].Name())
	assert.Equal(t, "Go", children[4].Name())
	assert.Equal(t, "Halt", children[5].Name())

	require.NotNil(t, machine.EntryAction())
	assert.Equal(t, "entry", machine.EntryAction().Name())
}

func TestDefine_Nodes(t *testing.T) {
	model := trafficModel()
	states := model.Nodes(kinds.StateUsage)
	require.Len(t, states, 2)
	assert.Equal(t, "Red", states[0].Name())
	assert.Equal(t, "Green", states[1].Name())

	successions := model.Nodes(kinds.SuccessionUsage)
	require.Len(t, successions, 1)
	succession, ok := successions[0].(elements.Succession)
	require.True(t, ok)
	require.NotNil(t, succession.Source())
	assert.Equal(t, "entry", succession.Source().Name())
	require.Len(t, succession.Targets(), 1)
	assert.Equal(t, "Red", succession.Targets()[0].Name())
}

func TestDefine_UniqueIds(t *testing.T) {
	model := trafficModel()
	seen := map[string]bool{}
	for _, node := range model.Nodes(kinds.Element) {
		id := node.Id()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestTransition_Endpoints(t *testing.T) {
	model := trafficModel()
	transition, ok := model.Namespace()["/Light/Go"].(elements.Transition)
	require.True(t, ok)
	require.NotNil(t, transition.Source())
	require.NotNil(t, transition.Target())
	assert.Equal(t, "Red", transition.Source().Name())
	assert.Equal(t, "Green", transition.Target().Name())

	trigger := transition.Trigger()
	require.NotNil(t, trigger)
	require.NotNil(t, trigger.Payload())
}

func TestTransition_InlineTarget(t *testing.T) {
	model := sysml.Define("Inline",
		sysml.StateMachine("Machine",
			sysml.State("A"),
			sysml.Transition("Jump",
				sysml.Source("A"),
				sysml.Target(sysml.State("B")),
			),
		),
	)
	transition, ok := model.Namespace()["/Machine/Jump"].(elements.Transition)
	require.True(t, ok)
	require.NotNil(t, transition.Target())
	assert.Equal(t, "B", transition.Target().Name())
	assert.Contains(t, model.Namespace(), "/Machine/B")
}

func TestHeritage_Flattening(t *testing.T) {
	model := sysml.Define("Layered",
		sysml.AttributeDef("General"),
		sysml.AttributeDef("Specific", sysml.Specializes("General")),
		sysml.Attribute("signal", sysml.Specializes("Specific")),
	)
	signal, ok := model.Namespace()["/signal"].(elements.Feature)
	require.True(t, ok)
	chain := signal.Heritage()
	require.Len(t, chain, 2)
	assert.Equal(t, "Specific", chain[0].Target.Name())
	assert.Equal(t, "General", chain[1].Target.Name())
}

func TestHeritage_CycleTerminates(t *testing.T) {
	model := sysml.Define("Cyclic",
		sysml.AttributeDef("A", sysml.Specializes("B")),
		sysml.AttributeDef("B", sysml.Specializes("A")),
	)
	a, ok := model.Namespace()["/A"].(elements.Feature)
	require.True(t, ok)
	chain := a.Heritage()
	require.Len(t, chain, 2)
	assert.Equal(t, "B", chain[0].Target.Name())
	assert.Equal(t, "A", chain[1].Target.Name())
}

func TestNamelessElements_OccupyNamespaceSlots(t *testing.T) {
	model := sysml.Define("Nameless",
		sysml.StateMachine("Machine",
			sysml.State(""),
			sysml.State(""),
		),
	)
	states := model.Nodes(kinds.StateUsage)
	require.Len(t, states, 2)
	assert.Empty(t, states[0].Name())
	assert.Empty(t, states[1].Name())
	assert.NotEqual(t, states[0].QualifiedName(), states[1].QualifiedName())
}

func TestBuilder_Panics(t *testing.T) {
	assert.Panics(t, func() {
		sysml.Define("Bad", sysml.State("Orphan"))
	}, "state outside a machine")

	assert.Panics(t, func() {
		sysml.Define("Bad", sysml.StateMachine("M", sysml.Do("orphan")))
	}, "do outside a state")

	assert.Panics(t, func() {
		sysml.Define("Bad", sysml.StateMachine("M", sysml.Trigger("nothing")))
	}, "trigger outside a transition")

	assert.Panics(t, func() {
		sysml.Define("Bad",
			sysml.StateMachine("M",
				sysml.State("A"),
				sysml.Transition("T", sysml.Source("A"), sysml.Target("Missing")),
			),
		)
	}, "unresolvable endpoint name")

	assert.Panics(t, func() {
		sysml.Define("Bad",
			sysml.StateMachine("M",
				sysml.State("A"),
				sysml.Entry("A"),
				sysml.Entry("A"),
			),
		)
	}, "duplicate entry action")
}
