// Package extract turns uploaded files into plain text for prompting.
//
// Supported inputs are plain text, PDF, Word (.docx) and images (.png, .jpg,
// .jpeg). Images go through the tesseract OCR binary. Every successful result
// is non-blank and at most MaxChars characters long.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxChars is the character budget for any text embedded in a prompt.
const MaxChars = 8000

// Format identifies the extraction strategy for a file.
type Format string

const (
	FormatUnknown Format = ""
	FormatText    Format = "txt"
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatImage   Format = "image"
)

func (f Format) label() string {
	switch f {
	case FormatText:
		return "TXT"
	case FormatPDF:
		return "PDF"
	case FormatDOCX:
		return "DOCX"
	case FormatImage:
		return "image"
	}
	return "file"
}

// DetectFormat maps a file name to its Format by extension, case-insensitively.
func DetectFormat(filename string) Format {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".txt"):
		return FormatText
	case strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	case strings.HasSuffix(name, ".docx"):
		return FormatDOCX
	case strings.HasSuffix(name, ".png"),
		strings.HasSuffix(name, ".jpg"),
		strings.HasSuffix(name, ".jpeg"):
		return FormatImage
	}
	return FormatUnknown
}

// Config for the Extractor.
type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner returns a copy of e that runs external commands through r.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	c := *e
	c.runner = r
	return &c
}

// Extract picks a strategy based on the file extension and returns the
// truncated text, or an *Error.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	start := time.Now()
	format := DetectFormat(filename)

	var (
		text string
		err  error
	)
	switch format {
	case FormatText:
		text, err = extractText(data)
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatImage:
		text, err = e.extractImage(ctx, filename, data)
	default:
		e.logger.Warn("extract.unsupported", "filename", filename)
		return "", failed(format, ErrUnsupportedFormat, nil)
	}
	if err != nil {
		e.logger.Warn("extract.failed",
			"filename", filename,
			"format", string(format),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", failed(format, ErrNoText, nil)
	}

	text = Truncate(text, MaxChars)
	e.logger.Debug("extract.ok",
		"filename", filename,
		"format", string(format),
		"chars", utf8.RuneCountInString(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// Truncate cuts s to at most max characters (runes).
func Truncate(s string, max int) string {
	if max < 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", failed(FormatText, ErrDecode, nil)
	}
	return string(data), nil
}
