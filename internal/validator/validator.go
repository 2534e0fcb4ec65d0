// Package validator performs semantic validation of workflow
// descriptions: dangling transition targets, unreachable states, and
// structural oddities. The compiler core never calls this package; a
// document that fails validation still compiles (and may still render);
// validation messages are a service concern, displayed verbatim.
package validator

import (
	"fmt"

	"github.com/aretw0/canopy/internal/compiler"
	"github.com/aretw0/canopy/pkg/domain"
)

// Validate checks a parsed workflow. Errors make the document invalid;
// warnings are advisory.
func Validate(wf *domain.Workflow) domain.ValidationResult {
	res := domain.ValidationResult{Errors: []string{}, Warnings: []string{}}

	if wf.Empty() {
		res.Errors = append(res.Errors, "workflow declares no states")
		return res
	}

	known := make(map[string]bool, len(wf.States))
	for _, s := range wf.States {
		known[s.ID] = true
	}

	var entry string
	for _, s := range wf.States {
		if s.Kind == domain.KindInitial && entry == "" {
			entry = s.ID
		}

		// Kind sanity. Unknown kinds survive compilation, so they are a
		// warning, not an error.
		switch s.Kind {
		case domain.KindInitial, domain.KindSingle, domain.KindFanOut,
			domain.KindOrchestratorTask, domain.KindHumanApproval, domain.KindTerminal:
		case "":
			res.Warnings = append(res.Warnings, fmt.Sprintf("state %q has no type", s.ID))
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("state %q has unrecognized type %q", s.ID, s.Kind))
		}

		if s.Kind == domain.KindFanOut && len(s.Agents) < 2 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("fan-out state %q declares fewer than two agents", s.ID))
		}

		seen := make(map[string]bool, len(s.Agents))
		for _, a := range s.Agents {
			if seen[a] {
				res.Warnings = append(res.Warnings, fmt.Sprintf("state %q lists agent %q more than once", s.ID, a))
			}
			seen[a] = true
		}

		for _, t := range s.Transitions {
			if !known[t.Target] {
				res.Errors = append(res.Errors, fmt.Sprintf("state %q transition %q targets unknown state %q", s.ID, t.Condition, t.Target))
			}
		}

		if domain.IsTerminalID(s.ID) && len(s.Transitions) > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("terminal state %q declares outgoing transitions", s.ID))
		}
		if !domain.IsTerminalID(s.ID) && len(s.Transitions) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("state %q is a dead end (no transitions)", s.ID))
		}
	}

	if entry == "" {
		res.Warnings = append(res.Warnings, "no state declares type \"initial\"; reachability starts from the first state")
		entry = wf.States[0].ID
	}

	for _, id := range unreachable(wf, entry) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("state %q is unreachable from %q", id, entry))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateText parses and validates raw document text. A document the
// parser rejects is reported as a single uniform error; the underlying
// cause never crosses the parse boundary.
func ValidateText(p *compiler.Parser, text string) domain.ValidationResult {
	wf, err := p.Parse(text)
	if err != nil {
		return domain.ValidationResult{
			Valid:    false,
			Errors:   []string{err.Error()},
			Warnings: []string{},
		}
	}
	return Validate(wf)
}

// unreachable crawls the transition graph from the entry state and
// returns the IDs never visited, in document order.
func unreachable(wf *domain.Workflow, entry string) []string {
	visited := make(map[string]bool, len(wf.States))
	queue := []string{entry}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		spec, ok := wf.State(current)
		if !ok {
			continue
		}
		for _, t := range spec.Transitions {
			if !visited[t.Target] {
				queue = append(queue, t.Target)
			}
		}
	}

	var missing []string
	for _, s := range wf.States {
		if !visited[s.ID] {
			missing = append(missing, s.ID)
		}
	}
	return missing
}
