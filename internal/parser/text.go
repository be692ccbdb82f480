package parser

import (
	"fmt"
	"io"

	"propgen/internal/outline"
)

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text := string(data)
	return &Document{
		Text:    text,
		Outline: outline.Analyze(text),
	}, nil
}

// ImageParser covers scanned pages. Character recognition is an external
// collaborator; when it is unavailable or fails, the file degrades to a
// placeholder string rather than failing the batch.
type ImageParser struct {
	// OCR, when set, extracts text from image bytes.
	OCR func(data []byte) (string, error)
}

func (p *ImageParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if p.OCR != nil {
		if text, err := p.OCR(data); err == nil {
			return &Document{Text: text, Outline: outline.Analyze(text)}, nil
		}
	}

	placeholder := fmt.Sprintf("Image content extracted (OCR unavailable for %s)", filename)
	return &Document{Text: placeholder}, nil
}
