// Package render turns a generated section tree plus content map into
// downloadable artifacts: a Word document, a spreadsheet, and a
// visualization page.
package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"propgen/internal/proposal"
	"propgen/internal/section"
)

// Input bundles everything a renderer needs for one job.
type Input struct {
	Tree    []*section.Section
	Content map[string]string
	Req     proposal.Request
	JobID   string
}

// Renderer produces one artifact under the output directory and returns its
// filename.
type Renderer interface {
	Render(ctx context.Context, in Input) (string, error)
}

// translations holds the fixed strings per supported language.
var translations = map[string]map[string]string{
	"en": {
		"technical_proposal": "Technical Proposal",
		"prepared_for":       "Prepared for",
		"table_of_contents":  "Table of Contents",
		"page":               "Page",
		"of":                 "of",
	},
	"ar": {
		"technical_proposal": "مقترح فني",
		"prepared_for":       "مُعد لـ",
		"table_of_contents":  "جدول المحتويات",
		"page":               "صفحة",
		"of":                 "من",
	},
}

func translate(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if v, ok := t[key]; ok {
			return v
		}
	}
	return translations["en"][key]
}

// normLang collapses unknown languages to English.
func normLang(lang string) string {
	if _, ok := translations[lang]; ok {
		return lang
	}
	return "en"
}

var emphasisReplacer = strings.NewReplacer("*", "", "#", "")

// StripEmphasis removes literal markdown emphasis characters from titles and
// bodies before emission. Model replies tend to leak them.
func StripEmphasis(s string) string {
	return emphasisReplacer.Replace(s)
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// companySlug makes a company name safe for use inside artifact filenames.
func companySlug(name string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	slug = unsafeFilenameRe.ReplaceAllString(slug, "")
	if slug == "" {
		slug = "proposal"
	}
	return slug
}

// writeArtifact writes data write-once into dir and returns the filename.
func writeArtifact(dir, filename string, data []byte) (string, error) {
	f, err := os.OpenFile(fmt.Sprintf("%s%c%s", dir, os.PathSeparator, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}
	return filename, nil
}

// LogoResolver fetches logo bytes for embedding. Resolution failures are
// soft: the document renders without the image.
type LogoResolver struct {
	Client *http.Client
}

func NewLogoResolver() *LogoResolver {
	return &LogoResolver{Client: &http.Client{Timeout: 10 * time.Second}}
}

// Resolve returns the image bytes for a logo reference, or nil when the logo
// is absent or cannot be loaded.
func (lr *LogoResolver) Resolve(ctx context.Context, logo proposal.Logo) []byte {
	switch logo.Kind {
	case proposal.LogoLocalPath:
		data, err := os.ReadFile(logo.Ref)
		if err != nil {
			return nil
		}
		return data
	case proposal.LogoRemoteURL:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, logo.Ref, nil)
		if err != nil {
			return nil
		}
		resp, err := lr.Client.Do(req)
		if err != nil {
			return nil
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}

// visualKeywords marks section keys that get a diagram in the visualization
// page.
var visualKeywords = []string{"timeline", "architecture", "modular", "implementation", "deliverables", "structure"}

func hasVisualKeyword(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range visualKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
