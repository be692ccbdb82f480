// Package parser reads heterogeneous source documents into raw text plus a
// normalized outline. Format dispatch is by file extension.
package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"propgen/internal/outline"
)

// ErrUnsupportedFormat distinguishes "we do not handle this extension" from
// read or parse failures on supported formats.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Document is one parsed source file.
type Document struct {
	Text    string
	Outline outline.Structure
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".doc":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".jpg":      true,
	".jpeg":     true,
	".png":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}, nil
	case ".docx", ".doc":
		return &DOCXParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".jpg", ".jpeg", ".png":
		return &ImageParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
