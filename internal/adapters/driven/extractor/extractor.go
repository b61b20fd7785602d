// Package extractor derives searchable text from stored files.
//
// Extraction is best-effort by contract: a file whose format is
// unsupported, or that fails to parse, yields the empty string rather
// than an error, and the caller indexes what it can.
package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor extracts text by file extension. Plain text formats are
// read through, DOCX is unpacked from its XML. Binary formats without
// a text layer (images, PDF) yield nothing.
type Extractor struct{}

// New creates a new extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the file at path, or "".
func (e *Extractor) Extract(_ context.Context, path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return extractPlainText(path)
	case ".docx":
		return extractDocx(path)
	default:
		return ""
	}
}

// extractPlainText reads the file as-is.
func extractPlainText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("extract: read %s failed: %v", path, err)
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractDocx opens the DOCX container and extracts the text runs
// from word/document.xml.
func extractDocx(path string) string {
	reader, err := zip.OpenReader(path)
	if err != nil {
		logger.Warn("extract: open docx %s failed: %v", path, err)
		return ""
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return ""
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return ""
		}
		return parseDocumentXML(content)
	}
	return ""
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML,
// one line per paragraph.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(result.String())
}
