package domain

// StateKind classifies how a workflow state is executed.
type StateKind string

// Known state kinds. A document may carry a kind outside this set; the
// compiler passes it through and consumers must handle it via a default
// switch arm rather than a silent table miss.
const (
	KindInitial          StateKind = "initial"
	KindSingle           StateKind = "single"
	KindFanOut           StateKind = "fan-out"
	KindOrchestratorTask StateKind = "orchestrator-task"
	KindHumanApproval    StateKind = "human-approval"
	KindTerminal         StateKind = "terminal"
)

// Reserved state IDs. Any state carrying one of these IDs is rendered in
// the terminal row, regardless of its declared kind.
const (
	StateComplete = "complete"
	StateHalt     = "halt"
)

// Transition is a single labelled hop from one state to another.
// The condition label is opaque to the compiler; it is only inspected to
// classify recovery paths.
type Transition struct {
	Condition string `json:"condition"`
	Target    string `json:"target"`
}

// StateSpec is one state as declared in the workflow document.
//
// Agents is the normalized agent list: the document's `agents` sequence if
// present, else its scalar `agent` wrapped as a singleton, else nil.
// Transitions preserve document order; a Go map would destroy the key
// order that edge IDs and layout depend on.
type StateSpec struct {
	ID          string       `json:"id"`
	Kind        StateKind    `json:"kind"`
	Agents      []string     `json:"agents,omitempty"`
	Transitions []Transition `json:"transitions,omitempty"`
}

// Workflow is the typed, ordered description of a workflow document.
// State order equals document order. Duplicate IDs have already been
// collapsed by the parser (last-seen value, first-seen position).
type Workflow struct {
	States []StateSpec `json:"states"`
}

// State returns the spec for the given ID, or false when absent.
func (w *Workflow) State(id string) (StateSpec, bool) {
	for _, s := range w.States {
		if s.ID == id {
			return s, true
		}
	}
	return StateSpec{}, false
}

// Empty reports whether the workflow declares no states at all.
func (w *Workflow) Empty() bool {
	return w == nil || len(w.States) == 0
}
