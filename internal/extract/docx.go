package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"

	"github.com/fumiama/go-docx"
)

var errNoDocumentPart = errors.New("word/document.xml not found")

// extractDOCX returns the text of every body paragraph, each followed by a
// newline. Tables and drawings, text boxes included, are skipped.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", failed(FormatDOCX, ErrExtraction, err)
	}
	if !hasDocumentPart(zr) {
		return "", failed(FormatDOCX, ErrExtraction, errNoDocumentPart)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", failed(FormatDOCX, ErrExtraction, err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		writeParagraph(&b, p)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func hasDocumentPart(zr *zip.Reader) bool {
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

func writeParagraph(b *strings.Builder, p *docx.Paragraph) {
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRun(b, c)
		case *docx.Hyperlink:
			writeRun(b, &c.Run)
		}
	}
}

func writeRun(b *strings.Builder, r *docx.Run) {
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			b.WriteString(c.Text)
		case *docx.Tab:
			b.WriteByte('\t')
		case *docx.BarterRabbet:
			b.WriteByte('\n')
		}
	}
}
