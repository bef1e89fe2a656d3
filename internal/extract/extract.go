// Package extract turns uploaded resumes into plain text.
//
// Callers get a Result on success, including for documents with no text, and an
// error wrapping ErrUnsupportedFormat or ErrDecode otherwise. An empty document and a
// failed extraction are never conflated.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-dashboard/internal/shared/storage/object"
)

// Format identifies a supported document encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
	mimeBin  = "application/octet-stream"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDecode            = errors.New("decode failed")
)

// Result is the outcome of a successful extraction.
type Result struct {
	Text   string `json:"text"`
	Format Format `json:"format"`
	Pages  int    `json:"pages,omitempty"`
}

// Empty reports whether the document decoded cleanly but carried no text.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Text extracts text from an in-memory payload. mimeType may be empty or generic, in
// which case the format is sniffed from data and fileName.
func Text(ctx context.Context, data []byte, mimeType string, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	format, err := DetectFormat(data, mimeType, fileName)
	if err != nil {
		return Result{}, err
	}

	var res Result
	switch format {
	case FormatPDF:
		res, err = extractPDF(data)
	case FormatDOCX:
		res, err = extractDOCX(data)
	default:
		res, err = extractPlain(data)
	}
	if err != nil {
		return Result{Format: format}, fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
	}
	return res, nil
}

// ExtractedKey is where FromStore persists the text derived from key.
func ExtractedKey(key string) string {
	return key + ".extracted.txt"
}

// FromStore reads a stored object, extracts its text and persists the text at
// ExtractedKey(key). Empty results are persisted too.
func FromStore(ctx context.Context, store object.ObjectStore, key string, mimeType string, fileName string) (Result, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("extract key=%s: open: %w", key, err)
	}
	raw, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return Result{}, fmt.Errorf("extract key=%s: read: %w", key, err)
	}

	res, err := Text(ctx, raw, mimeType, fileName)
	if err != nil {
		return res, fmt.Errorf("extract key=%s: %w", key, err)
	}
	if _, err := store.SaveWithKey(ctx, ExtractedKey(key), "text/plain; charset=utf-8", strings.NewReader(res.Text)); err != nil {
		return res, fmt.Errorf("extract key=%s: save text: %w", key, err)
	}
	return res, nil
}

// DetectFormat resolves the document format from the declared type, the payload and
// the file extension, in that order.
func DetectFormat(data []byte, mimeType string, fileName string) (Format, error) {
	declared := cleanMime(mimeType)
	if declared == "" || declared == mimeBin || declared == mimeZip {
		declared = cleanMime(mimetype.Detect(data).String())
	}
	if declared == mimeZip {
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			declared = mapped
		}
	}

	switch {
	case declared == mimePDF:
		return FormatPDF, nil
	case declared == mimeDOCX:
		return FormatDOCX, nil
	case declared == "text/plain" || declared == "text/markdown":
		return FormatText, nil
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		if declared == mimeBin {
			return FormatPDF, nil
		}
	case ".docx":
		if declared == mimeBin {
			return FormatDOCX, nil
		}
	case ".txt", ".md":
		if declared == mimeBin && utf8.Valid(data) {
			return FormatText, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, declared)
}

func cleanMime(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

func extractPDF(data []byte) (res Result, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return Result{}, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, err
	}
	return Result{
		Text:   strings.TrimSpace(buf.String()),
		Format: FormatPDF,
		Pages:  reader.NumPage(),
	}, nil
}

func extractDOCX(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty docx data")
	}

	raw, err := docxContent(data)
	if err != nil {
		return Result{}, err
	}
	text, err := stripDocxXML(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Format: FormatDOCX}, nil
}

// docxContent returns word/document.xml. Archives lacking the parts the docx package
// insists on (relationships) are read directly.
func docxContent(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		defer doc.Close()
		return doc.Editable().GetContent(), nil
	}

	zr, zerr := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if zerr != nil {
		return "", zerr
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return "", errors.New("document.xml not found")
}

func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractPlain(data []byte) (Result, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return Result{}, errors.New("text is not valid utf-8")
	}
	return Result{Text: strings.TrimSpace(string(data)), Format: FormatText}, nil
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
