package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"propgen/internal/llm"
	"propgen/internal/outline"
)

// Distiller condenses supporting documents into short advisory texts that
// are folded into the section prompts.
type Distiller struct {
	model  llm.Completer
	logger *slog.Logger
}

func NewDistiller(model llm.Completer, logger *slog.Logger) *Distiller {
	return &Distiller{model: model, logger: logger}
}

// DistillSpecial extracts insights from the special supporting document.
// Falls back to keyword scanning when no model is available.
func (d *Distiller) DistillSpecial(ctx context.Context, text string, st outline.Structure, proposalType, sector string) string {
	if d.model != nil && d.model.Available() {
		prompt := fmt.Sprintf(`Analyze this special supporting document to extract key insights that will enhance a %s proposal for the %s sector.

SPECIAL DOCUMENT CONTENT:
%s

SCOPE:
%s

Please provide key insights, best practices, methodologies, standards, or specific requirements from this document that should be incorporated into the main proposal. Focus on:

1. Technical standards and methodologies
2. Industry best practices
3. Compliance requirements
4. Quality standards
5. Implementation approaches
6. Risk mitigation strategies
7. Success metrics and KPIs

Respond with a concise but comprehensive analysis (maximum 1500 words) that can be used to enhance the main proposal content.`,
			proposalType, sector, clip(text, 4000), st.Scope)

		reply, err := d.model.Complete(ctx, prompt, llm.DefaultSampling())
		if err == nil && strings.TrimSpace(reply) != "" {
			return strings.TrimSpace(reply)
		}
		if err != nil {
			d.logger.Warn("special document distillation failed", "error", err)
		}
	}
	return fallbackSpecialInsights(text, sector)
}

// DistillAdditional extracts insights from the combined additional documents.
func (d *Distiller) DistillAdditional(ctx context.Context, combined string, proposalType, sector string) string {
	if d.model != nil && d.model.Available() {
		prompt := fmt.Sprintf(`Analyze these additional supporting documents to extract valuable insights for a %s proposal in the %s sector.

ADDITIONAL DOCUMENTS CONTENT:
%s

Please extract and synthesize key information that will enhance the main proposal, including:

1. Supporting evidence and case studies
2. Technical specifications and requirements
3. Industry standards and regulations
4. Best practices and methodologies
5. Historical data and benchmarks
6. Stakeholder requirements and preferences
7. Implementation examples and lessons learned
8. Success metrics and evaluation criteria

Provide a well-organized analysis (maximum 2000 words) that identifies the most valuable insights to incorporate into the main proposal. Focus on actionable information that will strengthen the proposal's credibility and effectiveness.`,
			proposalType, sector, clip(combined, 5000))

		reply, err := d.model.Complete(ctx, prompt, llm.DefaultSampling())
		if err == nil && strings.TrimSpace(reply) != "" {
			return strings.TrimSpace(reply)
		}
		if err != nil {
			d.logger.Warn("additional documents distillation failed", "error", err)
		}
	}
	return fallbackAdditionalInsights(combined)
}

func fallbackSpecialInsights(text, sector string) string {
	var insights []string
	lower := strings.ToLower(text)

	if strings.Contains(lower, "standard") || strings.Contains(lower, "specification") {
		insights = append(insights, "• Document contains technical standards and specifications that should be referenced in the technical approach section.")
	}
	if strings.Contains(lower, "requirement") || strings.Contains(lower, "must") || strings.Contains(lower, "shall") {
		insights = append(insights, "• Document outlines specific requirements that must be addressed in the proposal solution.")
	}
	if strings.Contains(lower, "quality") || strings.Contains(lower, "compliance") {
		insights = append(insights, "• Quality assurance and compliance considerations are highlighted that should be incorporated into the quality management section.")
	}
	if strings.Contains(lower, "risk") || strings.Contains(lower, "mitigation") {
		insights = append(insights, "• Risk management strategies and mitigation approaches are identified that can strengthen the risk management section.")
	}
	if strings.Contains(lower, "timeline") || strings.Contains(lower, "schedule") {
		insights = append(insights, "• Timeline and scheduling information is provided that should inform the project timeline and implementation plan.")
	}

	switch strings.ToLower(sector) {
	case "health":
		if strings.Contains(lower, "patient") || strings.Contains(lower, "clinical") {
			insights = append(insights, "• Healthcare-specific considerations and patient-centered approaches are outlined.")
		}
	case "technology":
		if strings.Contains(lower, "security") || strings.Contains(lower, "data") {
			insights = append(insights, "• Technology security and data management requirements are specified.")
		}
	}

	if len(insights) == 0 {
		return "Special document provides supplementary context that enhances understanding of project requirements and industry standards."
	}
	return strings.Join(insights, "\n")
}

func fallbackAdditionalInsights(combined string) string {
	var insights []string
	lower := strings.ToLower(combined)

	technicalTerms := []string{"technical", "specification", "system", "solution", "implementation"}
	financialTerms := []string{"budget", "cost", "price", "financial", "funding"}
	managementTerms := []string{"project", "management", "team", "coordination", "leadership"}

	if countTerms(lower, technicalTerms) > 5 {
		insights = append(insights, "• Documents contain significant technical content that should inform the technical approach and solution architecture.")
	}
	if countTerms(lower, financialTerms) > 3 {
		insights = append(insights, "• Financial information and cost considerations are provided that should be reflected in the budget and pricing sections.")
	}
	if countTerms(lower, managementTerms) > 3 {
		insights = append(insights, "• Project management methodologies and team structure information are available to enhance the management approach.")
	}
	if strings.Contains(lower, "success") || strings.Contains(lower, "metric") || strings.Contains(lower, "kpi") {
		insights = append(insights, "• Success metrics and key performance indicators are defined that should be incorporated into the evaluation criteria.")
	}
	if strings.Contains(lower, "experience") || strings.Contains(lower, "case study") {
		insights = append(insights, "• Relevant experience and case studies are documented that can support the team qualifications and past performance sections.")
	}

	if len(insights) == 0 {
		return "Additional documents provide valuable supporting information and context that enhances the overall proposal quality and comprehensiveness."
	}
	return strings.Join(insights, "\n")
}

func countTerms(lower string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += strings.Count(lower, term)
	}
	return total
}
