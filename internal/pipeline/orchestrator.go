package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"propgen/internal/content"
	"propgen/internal/outline"
	"propgen/internal/parser"
	"propgen/internal/proposal"
	"propgen/internal/render"
	"propgen/internal/section"
	"propgen/internal/synth"
)

// UploadedFile is an in-memory upload handed over by the API layer.
type UploadedFile struct {
	Name string
	Data []byte
}

// Submission is everything a caller provides for one job.
type Submission struct {
	Files               []UploadedFile
	SpecialDocument     *UploadedFile
	AdditionalDocuments []UploadedFile
	Req                 proposal.Request
}

// Orchestrator drives a job from parsed uploads to rendered artifacts.
type Orchestrator struct {
	Store        *JobStore
	Synth        *synth.Synthesizer
	Generator    *content.Generator
	Distiller    *content.Distiller
	Docx         render.Renderer
	Xlsx         render.Renderer
	HTML         render.Renderer
	OutputDir    string
	CleanupDelay time.Duration
	// PDFFallback enables the pdftotext CLI fallback for PDFs the native
	// reader cannot handle.
	PDFFallback bool
	Logger      *slog.Logger
}

// Submit admits a new job and starts it on its own goroutine. Admission is
// enforced before any job record exists.
func (o *Orchestrator) Submit(sub Submission) (string, error) {
	if len(sub.Files) == 0 {
		return "", fmt.Errorf("no source files provided")
	}
	id := uuid.NewString()
	if err := o.Store.Admit(id); err != nil {
		return "", err
	}
	go o.run(id, sub)
	return id, nil
}

func (o *Orchestrator) run(id string, sub Submission) {
	ctx := context.Background()
	log := o.Logger.With("job_id", id)
	start := time.Now()

	defer o.Store.ScheduleCleanup(id, o.CleanupDelay, o.removeArtifacts)

	o.Store.Update(id, 10, "Processing uploaded files")
	text, st, parsed := o.parseAll(sub.Files, log)
	if parsed == 0 {
		o.Store.Fail(id, "none of the uploaded files could be processed")
		return
	}

	o.Store.Update(id, 20, "Analyzing supporting documents")
	req := sub.Req
	if sub.SpecialDocument != nil {
		if doc := o.parseOne(*sub.SpecialDocument, log); doc != nil {
			req.SpecialInsights = o.Distiller.DistillSpecial(ctx, doc.Text, doc.Outline, req.ProposalType, req.Sector)
		}
	}
	if len(sub.AdditionalDocuments) > 0 {
		var combined strings.Builder
		for _, f := range sub.AdditionalDocuments {
			if doc := o.parseOne(f, log); doc != nil {
				combined.WriteString(doc.Text)
				combined.WriteString("\n\n")
			}
		}
		if combined.Len() > 0 {
			req.AdditionalInsights = o.Distiller.DistillAdditional(ctx, combined.String(), req.ProposalType, req.Sector)
		}
	}

	o.Store.Update(id, 40, "Generating proposal structure")
	tree := o.Synth.Synthesize(ctx, text, st, req)
	o.Store.SetTree(id, tree)

	o.Store.Update(id, 60, "Generating section content")
	bodies := o.Generator.Generate(ctx, text, tree, req)

	o.Store.Update(id, 85, "Rendering documents")
	files, warnings := o.renderAll(ctx, render.Input{Tree: tree, Content: bodies, Req: req, JobID: id}, log)
	if len(files) == 0 {
		msg := "no documents could be rendered"
		if len(warnings) > 0 {
			msg += ": " + strings.Join(warnings, "; ")
		}
		o.Store.Fail(id, msg)
		return
	}

	o.Store.Update(id, 90, "Finalizing")

	total := len(section.Flatten(tree))
	message := fmt.Sprintf("Proposal generated successfully with %d sections", total)
	if len(warnings) > 0 {
		message += " (warnings: " + strings.Join(warnings, "; ") + ")"
	}
	o.Store.Complete(id, message, files, summarize(tree))
	log.Info("job completed", "sections", total, "files", len(files), "duration", time.Since(start))
}

func (o *Orchestrator) parseAll(files []UploadedFile, log *slog.Logger) (string, outline.Structure, int) {
	var text strings.Builder
	var st outline.Structure
	parsed := 0
	for _, f := range files {
		doc := o.parseOne(f, log)
		if doc == nil {
			continue
		}
		text.WriteString(doc.Text)
		text.WriteString("\n\n")
		st.Merge(doc.Outline)
		parsed++
	}
	return text.String(), st, parsed
}

// parseOne returns nil on any per-file failure; one bad upload never fails
// the batch.
func (o *Orchestrator) parseOne(f UploadedFile, log *slog.Logger) *parser.Document {
	p, err := parser.ForFile(f.Name)
	if err != nil {
		log.Warn("skipping unsupported file", "file", f.Name, "error", err)
		return nil
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = o.PDFFallback
	}
	doc, err := p.Parse(bytes.NewReader(f.Data), f.Name)
	if err != nil {
		log.Warn("skipping unreadable file", "file", f.Name, "error", err)
		return nil
	}
	return doc
}

// renderAll runs every requested renderer. A per-format failure becomes a
// warning; only zero artifacts is fatal to the job.
func (o *Orchestrator) renderAll(ctx context.Context, in render.Input, log *slog.Logger) ([]string, []string) {
	type target struct {
		format   string
		renderer render.Renderer
	}
	targets := []target{
		{"docx", o.Docx},
		{"xlsx", o.Xlsx},
		{"html", o.HTML},
	}

	var files, warnings []string
	for _, t := range targets {
		if t.renderer == nil || !in.Req.WantsFormat(t.format) {
			continue
		}
		name, err := t.renderer.Render(ctx, in)
		if err != nil {
			log.Warn("render failed", "format", t.format, "error", err)
			warnings = append(warnings, fmt.Sprintf("%s: %v", t.format, err))
			continue
		}
		files = append(files, name)
	}
	return files, warnings
}

func (o *Orchestrator) removeArtifacts(files []string) {
	for _, name := range files {
		path := filepath.Join(o.OutputDir, filepath.Base(name))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			o.Logger.Warn("artifact removal failed", "file", name, "error", err)
		}
	}
}

// Cleanup removes a job immediately, cancelling its deferred cleanup.
func (o *Orchestrator) Cleanup(id string) bool {
	return o.Store.Cleanup(id, o.removeArtifacts)
}

func summarize(tree []*section.Section) *StructureSummary {
	titles := make([]string, 0, 5)
	for _, sec := range tree {
		if len(titles) == 5 {
			break
		}
		titles = append(titles, sec.Title)
	}
	return &StructureSummary{
		TotalSections: len(section.Flatten(tree)),
		MainSections:  len(tree),
		SectionTitles: titles,
	}
}
