package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"propgen/internal/outline"
	"propgen/internal/parser"
	"propgen/internal/pipeline"
	"propgen/internal/proposal"
	"propgen/internal/section"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"model_available": s.model != nil && s.model.Available(),
		"active_jobs":     s.orchestrator.Store.ActiveCount(),
	})
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	proposalType := r.FormValue("proposal_type")
	sector := r.FormValue("sector")
	companyName := r.FormValue("company_name")
	if proposalType == "" || sector == "" || companyName == "" {
		jsonError(w, "proposal_type, sector and company_name are required", http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var files []pipeline.UploadedFile
	for _, fh := range fileHeaders {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		data, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		files = append(files, pipeline.UploadedFile{Name: filename, Data: data})
	}

	req := proposal.Request{
		ProposalType: proposalType,
		Sector:       sector,
		CompanyName:  companyName,
		OutputFormat: formValueDefault(r, "output_format", "all"),
		Language:     formValueDefault(r, "language", "en"),
	}
	if v := r.FormValue("selected_sections"); v != "" {
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				req.SelectedSections = append(req.SelectedSections, key)
			}
		}
	}

	var err error
	req.LogoTopLeft, err = s.resolveLogoField(r, "logo_top_left")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.LogoBottomRight, err = s.resolveLogoField(r, "logo_bottom_right")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub := pipeline.Submission{Files: files, Req: req}

	if fh := firstFile(r, "special_document"); fh != nil {
		data, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		sub.SpecialDocument = &pipeline.UploadedFile{Name: sanitizeFilename(fh.Filename), Data: data}
	}
	for _, fh := range r.MultipartForm.File["additional_documents"] {
		data, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		sub.AdditionalDocuments = append(sub.AdditionalDocuments, pipeline.UploadedFile{Name: sanitizeFilename(fh.Filename), Data: data})
	}

	jobID, err := s.orchestrator.Submit(sub)
	if err != nil {
		if errors.Is(err, pipeline.ErrTooManyJobs) {
			jsonError(w, err.Error(), http.StatusTooManyRequests)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":  jobID,
		"status":  pipeline.StatusProcessing,
		"message": "Proposal generation started",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, ok := s.orchestrator.Store.Get(jobID)
	if !ok {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	tree, ok := s.orchestrator.Store.Tree(jobID)
	if !ok {
		jsonError(w, "structure not found for this job", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":         jobID,
		"structure":      tree,
		"total_sections": section.Count(tree),
		"main_sections":  len(tree),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := sanitizeFilename(chi.URLParam(r, "filename"))
	path := filepath.Join(s.cfg.OutputDir, filename)
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.orchestrator.Cleanup(jobID) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "job cleaned up"})
}

// handleAnalyze runs extraction plus structure synthesis without creating a
// job: a synchronous preview of what a submission would produce.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var text strings.Builder
	var st outline.Structure
	for _, fh := range fileHeaders {
		filename := sanitizeFilename(fh.Filename)
		p, err := parser.ForFile(filename)
		if err != nil {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		data, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		doc, err := p.Parse(bytes.NewReader(data), filename)
		if err != nil {
			s.log.Warn("analyze: skipping unreadable file", "file", filename, "error", err)
			continue
		}
		text.WriteString(doc.Text)
		text.WriteString("\n\n")
		st.Merge(doc.Outline)
	}

	req := proposal.Request{
		Sector:      formValueDefault(r, "sector", "general"),
		CompanyName: r.FormValue("company_name"),
		Language:    formValueDefault(r, "language", "en"),
	}
	tree := s.synth.Synthesize(r.Context(), text.String(), st, req)

	scope := st.Scope
	if len(scope) > 500 {
		scope = scope[:500]
	}

	available := make([]map[string]string, 0, section.Count(tree))
	for _, sec := range section.Flatten(tree) {
		available = append(available, map[string]string{"key": sec.Key, "title": sec.Title})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suggested_structure": tree,
		"extracted_info": map[string]any{
			"sections_found":     len(st.Headings),
			"requirements_found": len(st.Requirements),
			"scope_preview":      scope,
		},
		"available_sections": available,
	})
}

// resolveLogoField accepts a logo either as an uploaded file part or as a
// URL form value. Uploaded files are stashed under the upload directory.
func (s *Server) resolveLogoField(r *http.Request, field string) (proposal.Logo, error) {
	if fh := firstFile(r, field); fh != nil {
		data, err := s.readUpload(fh)
		if err != nil {
			return proposal.Logo{}, err
		}
		name := fmt.Sprintf("logo_%s_%s", uuid.NewString(), sanitizeFilename(fh.Filename))
		path := filepath.Join(s.cfg.UploadDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return proposal.Logo{}, fmt.Errorf("store %s: %w", field, err)
		}
		return proposal.Logo{Kind: proposal.LogoLocalPath, Ref: path}, nil
	}
	return proposal.LogoFrom(r.FormValue(field)), nil
}

func (s *Server) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file %s exceeds max size (%d bytes)", fh.Filename, s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

func formValueDefault(r *http.Request, field, fallback string) string {
	if v := r.FormValue(field); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
