package content

import (
	"context"
	"strings"
	"testing"

	"propgen/internal/outline"
)

func TestDistillSpecial_FallbackKeywordScan(t *testing.T) {
	d := NewDistiller(nil, testLogger())

	text := "This standard defines quality requirements. The timeline must account for risk mitigation."
	got := d.DistillSpecial(context.Background(), text, outline.Structure{}, "technical", "general")

	for _, want := range []string{"standards", "requirements", "quality", "Risk", "Timeline"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected insight mentioning %q, got:\n%s", want, got)
		}
	}
}

func TestDistillSpecial_FallbackSectorHints(t *testing.T) {
	d := NewDistiller(nil, testLogger())

	got := d.DistillSpecial(context.Background(), "patient clinical workflows", outline.Structure{}, "technical", "health")
	if !strings.Contains(got, "Healthcare-specific") {
		t.Errorf("expected healthcare hint, got:\n%s", got)
	}

	got = d.DistillSpecial(context.Background(), "security and data handling", outline.Structure{}, "technical", "technology")
	if !strings.Contains(got, "security and data management") {
		t.Errorf("expected technology hint, got:\n%s", got)
	}
}

func TestDistillSpecial_FallbackDefaultText(t *testing.T) {
	d := NewDistiller(nil, testLogger())
	got := d.DistillSpecial(context.Background(), "nothing relevant here", outline.Structure{}, "technical", "general")
	if !strings.Contains(got, "supplementary context") {
		t.Errorf("expected default insight, got:\n%s", got)
	}
}

func TestDistillAdditional_FallbackTermCounting(t *testing.T) {
	d := NewDistiller(nil, testLogger())

	text := strings.Repeat("technical specification system solution implementation ", 2) +
		"budget cost price financial " +
		"success metric kpi"
	got := d.DistillAdditional(context.Background(), text, "technical", "general")

	if !strings.Contains(got, "technical content") {
		t.Errorf("expected technical insight, got:\n%s", got)
	}
	if !strings.Contains(got, "Financial information") {
		t.Errorf("expected financial insight, got:\n%s", got)
	}
	if !strings.Contains(got, "Success metrics") {
		t.Errorf("expected metrics insight, got:\n%s", got)
	}
}

func TestDistillAdditional_ModelReplyPreferred(t *testing.T) {
	d := NewDistiller(&fakeModel{reply: "distilled insight"}, testLogger())
	got := d.DistillAdditional(context.Background(), "some documents", "technical", "general")
	if got != "distilled insight" {
		t.Errorf("expected model reply, got %q", got)
	}
}
