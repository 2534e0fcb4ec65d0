package dto

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// StateBody represents the decoded body of one state entry in the
// workflow document, minus transitions (which are order-sensitive and
// read straight off the YAML node by the parser).
// It uses "mapstructure" tags to match the document keys.
type StateBody struct {
	Type   string   `json:"type" mapstructure:"type"`
	Agent  string   `json:"agent" mapstructure:"agent"`
	Agents []string `json:"agents" mapstructure:"agents"`

	// General Metadata (ignored by the compiler, tolerated in documents).
	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
}

// DecodeStateBody maps a raw decoded YAML mapping into a StateBody.
// The raw map is also how we detect key *presence*: `agents: []` and a
// missing `agents` key normalize differently.
func DecodeStateBody(raw map[string]any) (StateBody, bool, error) {
	var body StateBody
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &body,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return StateBody{}, false, fmt.Errorf("build state decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return StateBody{}, false, fmt.Errorf("decode state body: %w", err)
	}

	_, agentsPresent := raw["agents"]
	return body, agentsPresent, nil
}

// NormalizedAgents applies the agent normalization rule: the `agents`
// sequence if the key is present, else the scalar `agent` wrapped as a
// singleton, else nil.
func (b StateBody) NormalizedAgents(agentsPresent bool) []string {
	if agentsPresent {
		if b.Agents == nil {
			return []string{}
		}
		return b.Agents
	}
	if b.Agent != "" {
		return []string{b.Agent}
	}
	return nil
}
