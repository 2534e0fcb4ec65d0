package compiler

import (
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/canopy/internal/dto"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/domain"
)

// Parser is responsible for converting raw document text into a typed
// workflow description.
//
// The parser is the error boundary of the pipeline: any decode failure or
// missing top-level structure collapses into domain.ErrInvalidDocument.
// The underlying cause is logged, never returned. This log line is the
// only side effect in the whole compiler core.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a new parser instance.
func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = logging.NewNop()
	}
	return &Parser{log: log}
}

// Parse decodes the document into a Workflow, preserving document order
// for both states and their transitions. It performs no referential
// validation: transition targets are passed through even when no state
// declares them.
func (p *Parser) Parse(text string) (*domain.Workflow, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		p.log.Warn("workflow document rejected", "err", err)
		return nil, domain.ErrInvalidDocument
	}

	doc := unwrapDocument(&root)
	if doc == nil || doc.Kind != yaml.MappingNode {
		p.log.Warn("workflow document rejected", "reason", "top level is not a mapping")
		return nil, domain.ErrInvalidDocument
	}

	states := mappingValue(doc, "states")
	if states == nil || states.Kind != yaml.MappingNode {
		p.log.Warn("workflow document rejected", "reason", "missing states mapping")
		return nil, domain.ErrInvalidDocument
	}

	wf := &domain.Workflow{States: make([]domain.StateSpec, 0, len(states.Content)/2)}
	index := make(map[string]int)

	for i := 0; i+1 < len(states.Content); i += 2 {
		id := states.Content[i].Value
		spec, err := p.parseState(id, states.Content[i+1])
		if err != nil {
			p.log.Warn("workflow document rejected", "state", id, "err", err)
			return nil, domain.ErrInvalidDocument
		}

		// Duplicate IDs collapse last-seen-wins: the later body replaces
		// the earlier one in its original slot.
		if at, seen := index[id]; seen {
			wf.States[at] = spec
			continue
		}
		index[id] = len(wf.States)
		wf.States = append(wf.States, spec)
	}

	return wf, nil
}

func (p *Parser) parseState(id string, body *yaml.Node) (domain.StateSpec, error) {
	spec := domain.StateSpec{ID: id}

	// A bare `complete:` entry with no body is a legal terminal shorthand.
	if body == nil || body.Tag == "!!null" {
		return spec, nil
	}

	var raw map[string]any
	if err := body.Decode(&raw); err != nil {
		return domain.StateSpec{}, err
	}

	decoded, agentsPresent, err := dto.DecodeStateBody(raw)
	if err != nil {
		return domain.StateSpec{}, err
	}

	spec.Kind = domain.StateKind(decoded.Type)
	spec.Agents = decoded.NormalizedAgents(agentsPresent)

	transitions := mappingValue(body, "transitions")
	if transitions != nil && transitions.Kind == yaml.MappingNode {
		// Duplicate conditions collapse last-seen-wins in their original
		// slot, the same policy as duplicate state IDs.
		index := make(map[string]int)
		for i := 0; i+1 < len(transitions.Content); i += 2 {
			var target string
			if err := transitions.Content[i+1].Decode(&target); err != nil {
				return domain.StateSpec{}, err
			}
			cond := transitions.Content[i].Value
			if at, seen := index[cond]; seen {
				spec.Transitions[at].Target = target
				continue
			}
			index[cond] = len(spec.Transitions)
			spec.Transitions = append(spec.Transitions, domain.Transition{
				Condition: cond,
				Target:    target,
			})
		}
	}

	return spec, nil
}

// unwrapDocument peels the document wrapper off the decoded YAML tree.
func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return n.Content[0]
	}
	if n.Kind == 0 {
		return nil
	}
	return n
}

// mappingValue returns the value node for the given key of a mapping, or
// nil when absent. Later occurrences of a key shadow earlier ones, which
// matches plain decoder behavior for duplicate keys.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			found = mapping.Content[i+1]
		}
	}
	return found
}
