package synth

import "propgen/internal/section"

// FallbackStructure returns the fixed twelve-section proposal template used
// when no language model is available. Business-value sections (deliverables,
// pricing) come before the technical ones.
func FallbackStructure() []*section.Section {
	deliverables := section.New("deliverables_outcomes", "Deliverables and Expected Outcomes", 1,
		"Key deliverables", "Expected outcomes", "Success metrics", "Value to client")
	deliverables.Add(section.New("primary_deliverables", "Primary Deliverables", 2,
		"Main outputs", "Quality standards", "Acceptance criteria"))
	deliverables.Add(section.New("expected_outcomes", "Expected Business Outcomes", 2,
		"Business impact", "Performance improvements", "ROI expectations"))

	pricing := section.New("pricing_investment", "Pricing and Investment Structure", 1,
		"Investment overview", "Pricing model", "Value justification", "Payment terms")
	pricing.Add(section.New("investment_summary", "Investment Summary", 2,
		"Total investment", "Cost breakdown", "Value proposition"))
	pricing.Add(section.New("pricing_model", "Pricing Model", 2,
		"Pricing structure", "Payment schedule", "Terms and conditions"))

	solution := section.New("proposed_solution", "Proposed Solution and Approach", 1,
		"Solution overview", "Approach methodology", "Innovation highlights")
	solution.Add(section.New("solution_overview", "Solution Overview", 2,
		"High-level approach", "Key features", "Differentiators"))
	solution.Add(section.New("methodology", "Implementation Methodology", 2,
		"Process framework", "Best practices", "Quality approach"))

	technical := section.New("technical_specifications", "Technical Specifications", 1,
		"Technical requirements", "Architecture overview", "Technology stack")
	technical.Add(section.New("technical_approach", "Technical Approach", 2,
		"Architecture", "Technologies", "Standards", "Integration"))
	technical.Add(section.New("technical_requirements", "Technical Requirements", 2,
		"System requirements", "Performance specifications", "Compliance standards"))

	implementation := section.New("implementation_plan", "Implementation Plan and Timeline", 1,
		"Project phases", "Timeline", "Milestones", "Resource allocation")
	implementation.Add(section.New("project_phases", "Project Phases", 2,
		"Phase breakdown", "Phase deliverables", "Dependencies"))
	implementation.Add(section.New("timeline_milestones", "Timeline and Milestones", 2,
		"Project schedule", "Key dates", "Critical path", "Visual timeline diagram"))
	implementation.Add(section.New("project_timeline_visual", "Project Timeline Visualization", 2,
		"Gantt-style timeline", "Phase dependencies", "Milestone markers", "Resource allocation visual"))

	return []*section.Section{
		section.New("executive_summary", "Executive Summary", 1,
			"Project overview", "Key benefits", "Value proposition", "Investment summary"),
		section.New("understanding_requirements", "Understanding of Requirements", 1,
			"RFP analysis", "Key challenges", "Scope clarification", "Success criteria"),
		deliverables,
		pricing,
		solution,
		technical,
		implementation,
		section.New("team_qualifications", "Team and Qualifications", 1,
			"Team structure", "Key personnel", "Relevant experience", "Certifications"),
		section.New("risk_management", "Risk Management and Mitigation", 1,
			"Risk identification", "Mitigation strategies", "Contingency plans", "Risk monitoring"),
		section.New("quality_assurance", "Quality Assurance and Success Metrics", 1,
			"QA processes", "Testing procedures", "Success metrics", "Performance monitoring"),
		section.New("support_maintenance", "Support and Maintenance", 1,
			"Support model", "Maintenance approach", "SLA commitments", "Ongoing services"),
		section.New("conclusion", "Conclusion and Next Steps", 1,
			"Summary", "Next steps", "Call to action", "Contact information"),
	}
}
