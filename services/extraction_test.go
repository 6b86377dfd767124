package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := NewExtractorService()

	text, err := e.ExtractText([]byte("hello legal world"), "text/plain", "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello legal world" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractPlainTextByExtension(t *testing.T) {
	e := NewExtractorService()

	// Generic content type falls back to the filename extension
	text, err := e.ExtractText([]byte("content"), "application/octet-stream", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "content" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractHTML(t *testing.T) {
	e := NewExtractorService()

	html := `<html><head><style>p{color:red}</style><script>alert(1)</script></head>` +
		`<body><h1>Terms of Service</h1><p>First clause.</p><p>Second clause.</p></body></html>`

	text, err := e.ExtractText([]byte(html), "text/html", "terms.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Terms of Service", "First clause.", "Second clause."} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q: %q", want, text)
		}
	}
	if strings.Contains(text, "alert(1)") || strings.Contains(text, "color:red") {
		t.Errorf("script or style content leaked into text: %q", text)
	}
}

func TestExtractDocx(t *testing.T) {
	e := NewExtractorService()

	docXML := `<?xml version="1.0"?>` +
		`<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<body><p><r><t>First paragraph.</t></r></p><p><r><t>Second </t></r><r><t>paragraph.</t></r></p></body>` +
		`</document>`

	content := buildDocx(t, docXML)

	text, err := e.ExtractText(content, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "contract.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "First paragraph.") {
		t.Errorf("missing first paragraph: %q", text)
	}
	if !strings.Contains(text, "Second paragraph.") {
		t.Errorf("runs not joined within paragraph: %q", text)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := NewExtractorService()

	_, err := e.ExtractText([]byte("PK..."), "application/zip", "archive.zip")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	e := NewExtractorService()

	_, err := e.ExtractText([]byte("   \n\t  "), "text/plain", "blank.txt")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	e := NewExtractorService()

	_, err := e.ExtractText([]byte("not a pdf at all"), "application/pdf", "broken.pdf")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	return buf.Bytes()
}
