// Package proposal defines the request descriptor shared by structure
// synthesis, content generation, and rendering.
package proposal

import "strings"

// LogoKind tags how a logo reference should be resolved. The variant is
// decided once at submission time, never re-inspected ad hoc.
type LogoKind int

const (
	LogoNone LogoKind = iota
	LogoLocalPath
	LogoRemoteURL
)

// Logo is a tagged logo reference.
type Logo struct {
	Kind LogoKind
	Ref  string
}

// LogoFrom classifies a raw reference string.
func LogoFrom(ref string) Logo {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return Logo{Kind: LogoNone}
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return Logo{Kind: LogoRemoteURL, Ref: ref}
	default:
		return Logo{Kind: LogoLocalPath, Ref: ref}
	}
}

// Request carries caller intent for one generation job.
type Request struct {
	ProposalType     string
	Sector           string
	CompanyName      string
	SelectedSections []string
	OutputFormat     string // "all", or one of "docx", "xlsx", "html"
	Language         string
	LogoTopLeft      Logo
	LogoBottomRight  Logo

	// Distilled advisory text folded into generation prompts.
	SpecialInsights    string
	AdditionalInsights string
}

// Includes reports whether a section key passes the caller's selection
// filter. An empty selection means every section is included. This is the
// single selection predicate used by both the content generator and every
// renderer.
func (r Request) Includes(key string) bool {
	if len(r.SelectedSections) == 0 {
		return true
	}
	for _, k := range r.SelectedSections {
		if k == key {
			return true
		}
	}
	return false
}

// WantsFormat reports whether the caller requested the given output format.
func (r Request) WantsFormat(format string) bool {
	return r.OutputFormat == "" || r.OutputFormat == "all" || r.OutputFormat == format
}

// RTL reports whether the target language renders right-to-left.
func (r Request) RTL() bool {
	return r.Language == "ar"
}
