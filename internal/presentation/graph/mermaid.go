package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// GraphOverlay contains run state to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []string
	CurrentStep  string
}

// GenerateMermaid produces a Mermaid flowchart of a step graph.
// Shapes follow the step type:
// - Entry: ((Circle))
// - Loading: [[Subroutine]] labelled with its action
// - Question: [/Parallelogram/]
// - Product display: {{Hexagon}}
// - Preview: ([Stadium])
// - Message: [Rectangle]
// Option-level successors are drawn with the option label.
func GenerateMermaid(g *domain.Graph, entry string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, step := range g.Steps() {
		safeID := sanitizeMermaidID(step.ID)
		label := step.ID

		opener, closer := "[", "]"
		switch k := step.Kind.(type) {
		case domain.Loading:
			opener, closer = "[[", "]]"
			label = fmt.Sprintf("%s <br/> ⚙️ %s", step.ID, k.Action)
		case domain.Question:
			opener, closer = "[/", "/]"
			label = fmt.Sprintf("%s <br/> %s", step.ID, domain.InputTypeOf(k.Input))
		case domain.ProductDisplay:
			opener, closer = "{{", "}}"
		case domain.Preview:
			opener, closer = "([", "])"
		}
		if step.ID == entry {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		if step.Next != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(step.Next))
		}
		for _, opt := range step.Options() {
			if opt.Next == "" && opt.Action == "" {
				continue
			}
			text := strings.ReplaceAll(opt.Label, "\"", "'")
			if opt.Action != "" {
				text += " ⚙️ " + opt.Action
			}
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, text, sanitizeMermaidID(step.NextFor(opt)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedSteps {
			safeID := sanitizeMermaidID(id)
			if !visited[safeID] && safeID != "" {
				visited[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentStep != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentStep))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
