// Package content generates proposal section bodies, concurrently per
// section, with graceful degradation when the language model is missing.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"propgen/internal/llm"
	"propgen/internal/proposal"
	"propgen/internal/section"
)

const (
	maxPromptSourceChars  = 4000
	maxPromptInsightChars = 1000
	defaultMaxConcurrency = 8
)

// Generator produces section bodies keyed by section key.
type Generator struct {
	model          llm.Completer
	logger         *slog.Logger
	maxConcurrency int
}

func NewGenerator(model llm.Completer, maxConcurrency int, logger *slog.Logger) *Generator {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Generator{model: model, logger: logger, maxConcurrency: maxConcurrency}
}

// Generate builds content for every selected node of the tree. Sections are
// generated concurrently; a failure in one section is confined to that
// section and replaced with a placeholder body.
func (g *Generator) Generate(ctx context.Context, text string, tree []*section.Section, req proposal.Request) map[string]string {
	var targets []*section.Section
	for _, sec := range section.Flatten(tree) {
		if req.Includes(sec.Key) {
			targets = append(targets, sec)
		}
	}

	if g.model == nil || !g.model.Available() {
		out := make(map[string]string, len(targets))
		for _, sec := range targets {
			out[sec.Key] = fillerBody(sec, req)
		}
		return out
	}

	type result struct {
		key  string
		body string
	}

	results := make(chan result, len(targets))
	sem := make(chan struct{}, g.maxConcurrency)
	var wg sync.WaitGroup

	for _, sec := range targets {
		wg.Add(1)
		go func(sec *section.Section) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- result{key: sec.Key, body: g.generateOne(ctx, text, sec, req)}
		}(sec)
	}

	wg.Wait()
	close(results)

	out := make(map[string]string, len(targets))
	for r := range results {
		out[r.key] = r.body
	}
	return out
}

func (g *Generator) generateOne(ctx context.Context, text string, sec *section.Section, req proposal.Request) string {
	prompt := buildContentPrompt(text, sec, req)
	reply, err := g.model.Complete(ctx, prompt, llm.DefaultSampling())
	if err != nil {
		g.logger.Warn("section content generation failed", "section", sec.Key, "error", err)
		return fmt.Sprintf("Content generation for '%s' failed. Error: %v", sec.Title, err)
	}
	body := strings.TrimSpace(reply)
	if body == "" {
		return fillerBody(sec, req)
	}
	return body
}

func buildContentPrompt(text string, sec *section.Section, req proposal.Request) string {
	sectionInfo := fmt.Sprintf("%s. %s (Level %d)", sec.Number, sec.Title, sec.Level)
	if len(sec.ContentRequirements) > 0 {
		sectionInfo += fmt.Sprintf(" - Requirements: %s", strings.Join(sec.ContentRequirements, ", "))
	}

	var insights strings.Builder
	if req.SpecialInsights != "" {
		insights.WriteString("\n\nSPECIAL DOCUMENT INSIGHTS:\n")
		insights.WriteString(clip(req.SpecialInsights, maxPromptInsightChars))
		insights.WriteString("\n")
	}
	if req.AdditionalInsights != "" {
		insights.WriteString("\n\nADDITIONAL DOCUMENTS INSIGHTS:\n")
		insights.WriteString(clip(req.AdditionalInsights, maxPromptInsightChars))
		insights.WriteString("\n")
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	return fmt.Sprintf(`You are an expert proposal writer. Generate comprehensive content for a single section of a professional proposal responding to an RFP. The response must be in %s.

RFP CONTENT (for context):
%s

COMPANY DETAILS:
- Company: %s
- Sector: %s

%s

Generate detailed content for this specific section, in %s:
%s

%s

GENERAL REQUIREMENTS:
1. The content for this section should be 500-800 words.
2. Address the specific RFP requirements and challenges related to this section.
3. Include specific examples, data, and case studies where relevant.
4. Ensure content directly responds to the RFP's needs for this topic.
5. Make the content engaging, persuasive, and highly detailed.
6. Use industry-specific terminology appropriately for the %s language.
7. Structure the content with paragraphs, bullet points, and subheadings for readability.
8. IMPORTANT: Incorporate relevant insights from the special and additional documents where applicable to this section.
9. Reference standards, best practices, and methodologies from the supporting documents when relevant.
10. CRITICAL: For deliverables and pricing sections, focus on BUSINESS VALUE and CLIENT OUTCOMES first.

Respond with ONLY the detailed content for the section as a single string, in %s. Do not wrap it in JSON or markdown.`,
		language, clip(text, maxPromptSourceChars), req.CompanyName, req.Sector,
		insights.String(), language, sectionInfo, guidanceFor(sec.Key),
		language, language)
}

// guidanceFor returns extra prompt guidance for section families that need a
// particular register. Matching is on the section key.
func guidanceFor(key string) string {
	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "deliverables") || strings.Contains(lower, "outcomes"):
		return `SPECIFIC GUIDANCE FOR DELIVERABLES/OUTCOMES SECTION:
- Focus on CONCRETE, MEASURABLE deliverables that the client will receive
- Clearly define success criteria and acceptance criteria for each deliverable
- Quantify expected outcomes where possible (performance improvements, cost savings, efficiency gains)
- Emphasize business value and ROI rather than technical features
- Use client-focused language ("You will receive...", "This will enable you to...")
- Include timelines for when each deliverable will be completed
- Address how deliverables align with the client's strategic objectives`
	case strings.Contains(lower, "pricing") || strings.Contains(lower, "investment"):
		return `SPECIFIC GUIDANCE FOR PRICING/INVESTMENT SECTION:
- Present pricing as an investment in business outcomes, not just costs
- Break down pricing into clear, logical components
- Justify pricing with value proposition and ROI analysis
- Compare investment to potential business benefits and cost savings
- Provide flexible pricing options if appropriate (phases, modules, tiers)
- Address total cost of ownership, not just initial investment
- Include what is and isn't included in the pricing
- Use confident, value-focused language about the investment`
	case strings.Contains(lower, "technical"):
		return `SPECIFIC GUIDANCE FOR TECHNICAL SECTIONS:
- Only include technical details AFTER business value has been established
- Focus on how technical choices support business outcomes
- Avoid overwhelming technical jargon - keep it accessible to business stakeholders
- Emphasize proven technologies and industry standards
- Connect technical features to business benefits`
	}
	return ""
}

// fillerBody produces a substantial placeholder used when no model is
// configured or a reply came back empty.
func fillerBody(sec *section.Section, req proposal.Request) string {
	var reqLine string
	if len(sec.ContentRequirements) > 0 {
		reqLine = "Content requirements: " + strings.Join(sec.ContentRequirements, ", ")
	}

	return fmt.Sprintf(`This section addresses %s for %s.

Our comprehensive approach ensures that all requirements are met through industry-leading practices and proven methodologies. We understand the critical importance of %s in delivering successful project outcomes.

Key aspects include:
- Thorough analysis and planning
- Best practice implementation
- Quality assurance measures
- Continuous monitoring and improvement
- Detailed strategies for execution and delivery
- In-depth risk analysis and mitigation plans
- Advanced technical solutions and architectural designs
- Comprehensive timelines and resource allocation
- Clear communication and reporting protocols

This section is designed to be exceptionally detailed, providing in-depth analysis and planning to fully address the requirements of the RFP. Our commitment to excellence is reflected in the depth of information provided, ensuring you have complete confidence in our ability to deliver.

%s

We are committed to delivering exceptional results that exceed expectations and provide lasting value to your organization.`,
		strings.ToLower(sec.Title), req.CompanyName, strings.ToLower(sec.Title), reqLine)
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
