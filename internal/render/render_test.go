package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"propgen/internal/proposal"
)

func TestStripEmphasis(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"**Executive** Summary", "Executive Summary"},
		{"## Heading", " Heading"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := StripEmphasis(tc.in); got != tc.want {
			t.Errorf("StripEmphasis(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompanySlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "Acme_Corp"},
		{"  Wayne & Sons, Ltd. ", "Wayne__Sons_Ltd."},
		{"شركة", "proposal"},
		{"", "proposal"},
	}
	for _, tc := range cases {
		if got := companySlug(tc.in); got != tc.want {
			t.Errorf("companySlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTranslate(t *testing.T) {
	if got := translate("ar", "table_of_contents"); got != "جدول المحتويات" {
		t.Errorf("unexpected arabic translation: %q", got)
	}
	if got := translate("fr", "table_of_contents"); got != "Table of Contents" {
		t.Errorf("unknown language should fall back to english, got %q", got)
	}
	if normLang("de") != "en" || normLang("ar") != "ar" {
		t.Error("normLang should collapse unknown languages to english")
	}
}

func TestWriteArtifact_WriteOnce(t *testing.T) {
	dir := t.TempDir()
	if _, err := writeArtifact(dir, "a.txt", []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := writeArtifact(dir, "a.txt", []byte("two")); err == nil {
		t.Error("second write to the same name should fail")
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil || string(data) != "one" {
		t.Errorf("original artifact should be intact, got %q, %v", data, err)
	}
}

func TestLogoResolver(t *testing.T) {
	lr := NewLogoResolver()
	ctx := context.Background()

	if got := lr.Resolve(ctx, proposal.Logo{}); got != nil {
		t.Error("absent logo should resolve to nil")
	}

	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, []byte("pngbytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := lr.Resolve(ctx, proposal.Logo{Kind: proposal.LogoLocalPath, Ref: path}); string(got) != "pngbytes" {
		t.Errorf("local logo bytes mismatch: %q", got)
	}
	if got := lr.Resolve(ctx, proposal.Logo{Kind: proposal.LogoLocalPath, Ref: path + ".missing"}); got != nil {
		t.Error("missing local logo should resolve to nil")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remotebytes"))
	}))
	defer srv.Close()
	if got := lr.Resolve(ctx, proposal.LogoFrom(srv.URL)); string(got) != "remotebytes" {
		t.Errorf("remote logo bytes mismatch: %q", got)
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()
	if got := lr.Resolve(ctx, proposal.LogoFrom(bad.URL)); got != nil {
		t.Error("failed remote fetch should resolve to nil")
	}
}

func TestHasVisualKeyword(t *testing.T) {
	for _, key := range []string{"project_timeline_visual", "solution_architecture", "proposal_structure"} {
		if !hasVisualKeyword(key) {
			t.Errorf("%q should be visual", key)
		}
	}
	if hasVisualKeyword("executive_summary") {
		t.Error("executive_summary should not be visual")
	}
}
