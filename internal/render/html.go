package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"

	"propgen/internal/section"
)

// HTMLRenderer emits a self-contained visualization page. Sections whose key
// names something diagrammable get a mermaid diagram plus their prose
// rendered from markdown.
type HTMLRenderer struct {
	OutputDir string
	markdown  goldmark.Markdown
}

func NewHTMLRenderer(outputDir string) *HTMLRenderer {
	return &HTMLRenderer{OutputDir: outputDir, markdown: goldmark.New()}
}

func (r *HTMLRenderer) Render(ctx context.Context, in Input) (string, error) {
	var body strings.Builder

	for _, sec := range section.Flatten(in.Tree) {
		if !in.Req.Includes(sec.Key) || !hasVisualKeyword(sec.Key) {
			continue
		}

		body.WriteString(`<div class="visualization-section">` + "\n")
		fmt.Fprintf(&body, "<h2>%s. %s</h2>\n", html.EscapeString(sec.Number), html.EscapeString(StripEmphasis(sec.Title)))

		if diagram := diagramFor(sec.Key, in.Req.CompanyName); diagram != "" {
			body.WriteString(diagram)
		}

		if prose := in.Content[sec.Key]; prose != "" {
			var rendered bytes.Buffer
			if err := r.markdown.Convert([]byte(prose), &rendered); err == nil {
				body.WriteString(`<div class="prose">` + "\n")
				body.Write(rendered.Bytes())
				body.WriteString("</div>\n")
			}
		}

		body.WriteString("</div>\n")
	}

	page := fmt.Sprintf(visualizationPage,
		html.EscapeString(in.Req.CompanyName),
		html.EscapeString(in.Req.CompanyName),
		html.EscapeString(titleCase(in.Req.ProposalType)),
		html.EscapeString(titleCase(in.Req.Sector)),
		body.String(),
		time.Now().Format("January 2, 2006 at 3:04 PM"))

	filename := fmt.Sprintf("visualization_%s_%s.html", in.JobID, companySlug(in.Req.CompanyName))
	return writeArtifact(r.OutputDir, filename, []byte(page))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// diagramFor picks one fixed mermaid template per diagrammable key family.
func diagramFor(key, companyName string) string {
	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "timeline"):
		return fmt.Sprintf(timelineDiagram, html.EscapeString(companyName))
	case strings.Contains(lower, "architecture"):
		return architectureDiagram
	case strings.Contains(lower, "modular"):
		return modularDiagram
	case strings.Contains(lower, "implementation"):
		return implementationDiagram
	case strings.Contains(lower, "deliverables"):
		return deliverablesDiagram
	}
	return ""
}

const visualizationPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s - Project Visualizations</title>
<script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
<style>
body {
    font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
    line-height: 1.6;
    color: #333;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
    background-color: #f8f9fa;
}
.header {
    background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
    color: white;
    padding: 2rem;
    border-radius: 10px;
    margin-bottom: 2rem;
    text-align: center;
}
.visualization-section {
    background: white;
    padding: 2rem;
    margin-bottom: 2rem;
    border-radius: 10px;
    box-shadow: 0 2px 10px rgba(0,0,0,0.1);
}
.mermaid {
    text-align: center;
    margin: 2rem 0;
}
h1 { margin: 0; font-size: 2.5rem; }
h2 { color: #667eea; border-bottom: 2px solid #667eea; padding-bottom: 0.5rem; }
h3 { color: #555; }
.description {
    background: #e3f2fd;
    padding: 1rem;
    border-radius: 5px;
    margin: 1rem 0;
    border-left: 4px solid #2196F3;
}
.timestamp {
    text-align: center;
    color: #666;
    font-size: 0.9rem;
    margin-top: 2rem;
}
</style>
</head>
<body>
<div class="header">
    <h1>Project Visualizations</h1>
    <p>Interactive Diagrams and Timeline for %s</p>
    <p>Proposal Type: %s | Sector: %s</p>
</div>
%s
<div class="timestamp">
    Generated on %s
</div>
<script>
    mermaid.initialize({ startOnLoad: true, theme: 'default' });
</script>
</body>
</html>
`

const timelineDiagram = `<h3>Project Timeline</h3>
<div class="description">
    This interactive timeline shows the complete project schedule with all phases, milestones, and dependencies.
</div>
<div class="mermaid">
gantt
    title %s Project Timeline
    dateFormat YYYY-MM-DD

    section Planning Phase
    Requirements Analysis    :active, req, 2024-01-01, 2w
    System Design          :design, after req, 2w

    section Development Phase
    Core Development       :dev, after design, 6w
    Integration Testing    :test, after dev, 2w

    section Deployment Phase
    User Training          :training, after test, 1w
    Go-Live               :golive, after training, 1w
</div>
`

const architectureDiagram = `<h3>System Architecture</h3>
<div class="description">
    This diagram illustrates the complete system architecture with all components and their relationships.
</div>
<div class="mermaid">
graph TD
    A[User Interface Layer] --> B[API Gateway]
    B --> C[Authentication Service]
    B --> D[Business Logic Layer]
    D --> E[Data Access Layer]
    E --> F[(Primary Database)]
    E --> G[(Cache Layer)]
    D --> H[External Services]
    I[Load Balancer] --> A
    J[CDN] --> I
</div>
`

const modularDiagram = `<h3>Modular Solution Design</h3>
<div class="description">
    This diagram shows how our modular solution architecture enables scalability and maintainability.
</div>
<div class="mermaid">
graph LR
    Core[Core System] --> UserMgmt[User Management Module]
    Core --> DataProc[Data Processing Module]
    Core --> Reports[Reporting Module]
    Core --> Integration[Integration Module]

    UserMgmt --> Auth[Authentication]
    UserMgmt --> Profile[Profile Management]
    UserMgmt --> Permissions[Permissions]

    DataProc --> Ingestion[Data Ingestion]
    DataProc --> Validation[Data Validation]
    DataProc --> Transform[Data Transformation]

    Reports --> Dashboard[Dashboard]
    Reports --> Analytics[Analytics Engine]
    Reports --> Export[Export Functions]
</div>
`

const implementationDiagram = `<h3>Implementation Process Flow</h3>
<div class="description">
    This flowchart shows the step-by-step implementation process with decision points and deliverables.
</div>
<div class="mermaid">
flowchart TD
    A[Project Kickoff] --> B{Requirements Review}
    B --> C[System Design]
    C --> D[Development Sprint 1]
    D --> E[Testing &amp; QA]
    E --> F{Quality Gate}
    F -->|Pass| G[Development Sprint 2]
    F -->|Fail| D
    G --> H[Integration Testing]
    H --> I[User Acceptance Testing]
    I --> J{UAT Approval}
    J -->|Approved| K[Production Deployment]
    J -->|Changes Required| G
    K --> L[Go-Live Support]
</div>
`

const deliverablesDiagram = `<h3>Project Deliverables Structure</h3>
<div class="description">
    This diagram shows all project deliverables organized by phase and their interdependencies.
</div>
<div class="mermaid">
graph TD
    subgraph "Phase 1: Planning"
        A[Requirements Document]
        B[System Architecture]
        C[Project Plan]
    end

    subgraph "Phase 2: Development"
        D[Core System]
        E[User Interface]
        F[API Documentation]
    end

    subgraph "Phase 3: Testing"
        G[Test Results]
        H[User Manual]
        I[Training Materials]
    end

    subgraph "Phase 4: Deployment"
        J[Production System]
        K[Support Documentation]
        L[Maintenance Plan]
    end

    A --> D
    B --> D
    B --> E
    C --> D
    D --> G
    E --> G
    G --> J
    H --> I
    I --> L
</div>
`
