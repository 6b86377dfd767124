package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"legalease-backend/internal/logger"
)

// Extraction errors surfaced to the HTTP layer.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractionFailed  = errors.New("document extraction failed")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
)

// ExtractorService turns uploaded document bytes into plain text.
type ExtractorService struct{}

func NewExtractorService() *ExtractorService {
	return &ExtractorService{}
}

// ExtractText dispatches on MIME type, falling back to the filename
// extension when the client sent a generic content type.
func (e *ExtractorService) ExtractText(content []byte, mimeType, filename string) (string, error) {
	kind := normalizeKind(mimeType, filename)

	var (
		text string
		err  error
	)

	switch kind {
	case "pdf":
		text, err = e.extractPDF(content)
	case "docx":
		text, err = e.extractDocx(content)
	case "html":
		text, err = e.extractHTML(content)
	case "text":
		text = string(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	if err != nil {
		logger.Error("Extraction failed", "kind", kind, "filename", filename, "error", err)
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	if len(strings.TrimSpace(text)) == 0 {
		return "", ErrEmptyDocument
	}

	return text, nil
}

func normalizeKind(mimeType, filename string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch mt {
	case "application/pdf":
		return "pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "text/html":
		return "html"
	case "text/plain":
		return "text"
	}

	// Generic or absent content type: fall back to the extension
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	case ".html", ".htm":
		return "html"
	case ".txt":
		return "text"
	}

	return ""
}

func (e *ExtractorService) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract text from page", "page", i, "error", err)
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(text)
	}

	return textBuilder.String(), nil
}

// docx paragraph markup, only the nodes needed to recover text
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

func (e *ExtractorService) extractDocx(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open word/document.xml: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read word/document.xml: %w", err)
			}
			break
		}
	}

	if docXML == nil {
		return "", errors.New("docx archive is missing word/document.xml")
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", fmt.Errorf("failed to parse word/document.xml: %w", err)
	}

	var textBuilder strings.Builder
	for _, para := range doc.Body.Paragraphs {
		line := new(strings.Builder)
		for _, run := range para.Runs {
			for _, t := range run.Texts {
				line.WriteString(t)
			}
		}
		if line.Len() == 0 {
			continue
		}
		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(line.String())
	}

	return textBuilder.String(), nil
}

func (e *ExtractorService) extractHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Scripts and styles carry no document content
	doc.Find("script, style, noscript").Remove()

	var textBuilder strings.Builder
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, td, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(text)
	})

	// Pages without block markup still get their raw text
	if textBuilder.Len() == 0 {
		textBuilder.WriteString(strings.TrimSpace(doc.Text()))
	}

	return textBuilder.String(), nil
}
