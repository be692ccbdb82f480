// Package synth turns a parsed document outline into a proposal structure,
// either via the language model or a fixed fallback template.
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"propgen/internal/llm"
	"propgen/internal/outline"
	"propgen/internal/proposal"
	"propgen/internal/section"
)

const (
	// Prompt budget limits. Only a prefix of the source text and the first
	// few extracted items are shown to the model.
	maxPromptSourceChars  = 3000
	maxPromptHeadings     = 10
	maxPromptRequirements = 5
)

// Synthesizer builds proposal section trees.
type Synthesizer struct {
	model  llm.Completer
	logger *slog.Logger
}

func New(model llm.Completer, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{model: model, logger: logger}
}

// Synthesize produces a deduplicated, numbered section tree for the given
// source document. When the model is unavailable or its reply cannot be
// used, the fixed fallback template is returned instead; Synthesize never
// fails outright.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, st outline.Structure, req proposal.Request) []*section.Section {
	sections := s.fromModel(ctx, text, st, req)
	if sections == nil {
		sections = FallbackStructure()
	}
	section.DedupeKeys(sections)
	section.Number(sections)
	return sections
}

func (s *Synthesizer) fromModel(ctx context.Context, text string, st outline.Structure, req proposal.Request) []*section.Section {
	if s.model == nil || !s.model.Available() {
		s.logger.Info("model unavailable, using fallback structure")
		return nil
	}

	prompt, err := buildPrompt(text, st, req)
	if err != nil {
		s.logger.Warn("structure prompt build failed", "error", err)
		return nil
	}

	reply, err := s.model.Complete(ctx, prompt, llm.DefaultSampling())
	if err != nil {
		s.logger.Warn("structure synthesis failed, using fallback", "error", err)
		return nil
	}

	sections, err := parseStructure(reply)
	if err != nil {
		s.logger.Warn("structure reply unusable, using fallback", "error", err)
		return nil
	}
	if len(sections) == 0 {
		s.logger.Warn("structure reply empty, using fallback")
		return nil
	}
	return sections
}

func buildPrompt(text string, st outline.Structure, req proposal.Request) (string, error) {
	headings := st.Headings
	if len(headings) > maxPromptHeadings {
		headings = headings[:maxPromptHeadings]
	}
	requirements := st.Requirements
	if len(requirements) > maxPromptRequirements {
		requirements = requirements[:maxPromptRequirements]
	}

	headingsJSON, err := json.MarshalIndent(headings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal headings: %w", err)
	}
	requirementsJSON, err := json.MarshalIndent(requirements, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal requirements: %w", err)
	}

	source := text
	if len(source) > maxPromptSourceChars {
		source = source[:maxPromptSourceChars]
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	return fmt.Sprintf(`Analyze this RFP document and generate an appropriate proposal structure.

RFP CONTENT:
%s

EXTRACTED SECTIONS FROM RFP:
%s

EXTRACTED REQUIREMENTS:
%s

SCOPE:
%s

Generate a comprehensive proposal structure that addresses all RFP requirements.
Create sections and subsections that logically respond to the RFP's needs.
The titles for the sections and subsections MUST be in %s. The keys should remain in English.

Respond with ONLY a valid JSON array of sections with this structure:
[
  {
    "key": "executive_summary",
    "title": "Executive Summary",
    "level": 1,
    "content_requirements": ["Brief overview", "Key benefits", "Recommendations"]
  },
  {
    "key": "understanding_requirements",
    "title": "Understanding of Requirements",
    "level": 1,
    "content_requirements": ["RFP analysis", "Key challenges identified"],
    "subsections": [
      {
        "key": "technical_requirements",
        "title": "Technical Requirements Analysis",
        "level": 2,
        "content_requirements": ["Technical specifications", "Compliance requirements"]
      }
    ]
  }
]

Include 8-12 main sections with relevant subsections. Focus on BUSINESS VALUE FIRST, then technical details:
1. Executive Summary
2. Understanding of Requirements
3. Deliverables and Expected Outcomes
4. Pricing and Investment Structure
5. Proposed Solution/Approach
6. Technical Specifications
7. Implementation Plan and Timeline
8. Team and Qualifications
9. Risk Management and Mitigation
10. Quality Assurance and Success Metrics
11. Support and Maintenance
12. Conclusion and Next Steps

CRITICAL: Prioritize deliverables and pricing (sections 3-4) BEFORE technical approach. Clients need to understand WHAT they get and HOW MUCH it costs before diving into HOW it will be built.

Ensure each section has appropriate content_requirements that guide content generation.`,
		source, headingsJSON, requirementsJSON, st.Scope, language), nil
}

// sectionJSON is the wire shape the model is asked to produce. Only one
// level of nesting is honored.
type sectionJSON struct {
	Key                 string        `json:"key"`
	Title               string        `json:"title"`
	Level               int           `json:"level"`
	ContentRequirements []string      `json:"content_requirements"`
	Subsections         []sectionJSON `json:"subsections"`
}

func parseStructure(reply string) ([]*section.Section, error) {
	cleaned := llm.StripCodeFence(strings.TrimSpace(reply))

	var items []sectionJSON
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("decode structure: %w", err)
	}

	var sections []*section.Section
	for _, item := range items {
		if item.Key == "" || item.Title == "" {
			continue
		}
		sec := section.New(item.Key, item.Title, 1, item.ContentRequirements...)
		sec.IsDynamic = true
		for _, subItem := range item.Subsections {
			if subItem.Key == "" || subItem.Title == "" {
				continue
			}
			sub := section.New(subItem.Key, subItem.Title, 2, subItem.ContentRequirements...)
			sub.IsDynamic = true
			sec.Add(sub)
		}
		sections = append(sections, sec)
	}
	return sections, nil
}
