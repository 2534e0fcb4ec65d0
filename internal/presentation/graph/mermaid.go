package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/canopy/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax from a positioned
// graph. It applies semantic styling per state kind:
//   - initial: ((Circle))
//   - fan-out / orchestrator-task: [[Subroutine]]
//   - human-approval: [/Parallelogram/]
//   - terminal: ([Stadium])
//   - anything else, including unrecognized kinds: [Rectangle]
//
// Recovery edges are rendered dashed; the halt state gets an error class.
func GenerateMermaid(g domain.PositionedGraph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var errorStates []string
	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		// Node shape by kind. The default arm is deliberate: an
		// unrecognized kind must render as a plain rectangle, not vanish.
		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindInitial:
			opener, closer = "((", "))"
		case domain.KindFanOut, domain.KindOrchestratorTask:
			opener, closer = "[[", "]]"
		case domain.KindHumanApproval:
			opener, closer = "[/", "/]"
		case domain.KindTerminal:
			opener, closer = "([", "])"
		case domain.KindSingle:
			// Plain rectangle.
		default:
			// Plain rectangle for unknown kinds.
		}

		label := node.ID
		if len(node.Agents) > 0 {
			label = fmt.Sprintf("%s<br/>%s", node.ID, strings.Join(node.Agents, ", "))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if node.IsErrorState {
			errorStates = append(errorStates, safeID)
		}
	}

	for _, edge := range g.Edges {
		safeFrom := sanitizeMermaidID(edge.Source)
		safeTo := sanitizeMermaidID(edge.Target)
		safeLabel := strings.ReplaceAll(edge.Label, "\"", "'")

		arrow := fmt.Sprintf("-- \"%s\" -->", safeLabel)
		if edge.IsRecoveryPath {
			arrow = fmt.Sprintf("-. \"%s\" .->", safeLabel)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeTo))
	}

	if len(errorStates) > 0 {
		sb.WriteString("\n")
		sb.WriteString("    classDef errorState fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		for _, id := range errorStates {
			sb.WriteString(fmt.Sprintf("    class %s errorState;\n", id))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
