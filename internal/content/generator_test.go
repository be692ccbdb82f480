package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"propgen/internal/llm"
	"propgen/internal/proposal"
	"propgen/internal/section"
)

// fakeModel fails any prompt containing failOn and answers the rest.
type fakeModel struct {
	failOn string
	reply  string
}

func (f *fakeModel) Available() bool { return true }

func (f *fakeModel) Complete(ctx context.Context, prompt string, cfg llm.SamplingConfig) (string, error) {
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", errors.New("simulated failure")
	}
	return f.reply, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTree() []*section.Section {
	tree := []*section.Section{
		section.New("summary", "Summary", 1, "Overview"),
		section.New("approach", "Approach", 1),
		section.New("risk_management", "Risk Management", 1),
	}
	section.Number(tree)
	return tree
}

func TestGenerate_NoModelProducesFiller(t *testing.T) {
	g := NewGenerator(nil, 4, testLogger())
	req := proposal.Request{CompanyName: "Acme Corp"}

	out := g.Generate(context.Background(), "rfp text", testTree(), req)

	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	for key, body := range out {
		if body == "" {
			t.Errorf("empty filler for %q", key)
		}
		if !strings.Contains(body, "Acme Corp") {
			t.Errorf("filler for %q should mention the company", key)
		}
	}
	if !strings.Contains(out["summary"], "Content requirements: Overview") {
		t.Errorf("filler should echo content requirements, got %q", out["summary"])
	}
}

func TestGenerate_SingleNodeFailureIsolated(t *testing.T) {
	g := NewGenerator(&fakeModel{failOn: "Risk Management", reply: "generated body"}, 4, testLogger())

	out := g.Generate(context.Background(), "rfp text", testTree(), proposal.Request{CompanyName: "Acme"})

	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	if out["summary"] != "generated body" || out["approach"] != "generated body" {
		t.Errorf("healthy sections should carry model output: %v", out)
	}
	if !strings.Contains(out["risk_management"], "failed") {
		t.Errorf("failed section should carry a placeholder, got %q", out["risk_management"])
	}
}

func TestGenerate_SelectionFilter(t *testing.T) {
	g := NewGenerator(nil, 4, testLogger())
	req := proposal.Request{
		CompanyName:      "Acme",
		SelectedSections: []string{"summary", "risk_management"},
	}

	out := g.Generate(context.Background(), "rfp text", testTree(), req)

	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(out), out)
	}
	if _, ok := out["approach"]; ok {
		t.Error("filtered-out section should not be generated")
	}
}

func TestGenerate_EmptyReplyFallsBackToFiller(t *testing.T) {
	g := NewGenerator(&fakeModel{reply: "   "}, 4, testLogger())

	out := g.Generate(context.Background(), "rfp", testTree(), proposal.Request{CompanyName: "Acme"})

	for key, body := range out {
		if !strings.Contains(body, "Acme") {
			t.Errorf("expected filler for %q, got %q", key, body)
		}
	}
}

func TestGuidanceFor(t *testing.T) {
	if g := guidanceFor("deliverables_outcomes"); !strings.Contains(g, "MEASURABLE deliverables") {
		t.Errorf("expected deliverables guidance, got %q", g)
	}
	if g := guidanceFor("pricing_investment"); !strings.Contains(g, "investment in business outcomes") {
		t.Errorf("expected pricing guidance, got %q", g)
	}
	if g := guidanceFor("technical_specifications"); !strings.Contains(g, "business value") {
		t.Errorf("expected technical guidance, got %q", g)
	}
	if g := guidanceFor("executive_summary"); g != "" {
		t.Errorf("expected no guidance, got %q", g)
	}
}

func TestBuildContentPrompt_IncludesInsights(t *testing.T) {
	sec := section.New("summary", "Summary", 1)
	sec.Number = "1"
	req := proposal.Request{
		CompanyName:        "Acme",
		Sector:             "technology",
		Language:           "en",
		SpecialInsights:    "follow ISO 27001",
		AdditionalInsights: "prior case studies exist",
	}

	prompt := buildContentPrompt("rfp text", sec, req)

	if !strings.Contains(prompt, "SPECIAL DOCUMENT INSIGHTS:\nfollow ISO 27001") {
		t.Error("prompt should embed special insights")
	}
	if !strings.Contains(prompt, "ADDITIONAL DOCUMENTS INSIGHTS:\nprior case studies exist") {
		t.Error("prompt should embed additional insights")
	}
}
