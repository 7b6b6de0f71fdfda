package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// extractImage checks that data decodes as an image, then runs tesseract on
// a temporary copy of it:
//
//	tesseract <file> stdout -l <lang>
func (e *Extractor) extractImage(ctx context.Context, filename string, data []byte) (string, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", failed(FormatImage, ErrExtraction, err)
	}

	tmp, err := os.CreateTemp("", "ocr-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", failed(FormatImage, ErrExtraction, err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			e.logger.Warn("extract.tmp_remove_failed", "path", tmp.Name(), "error", err)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", failed(FormatImage, ErrExtraction, err)
	}
	if err := tmp.Close(); err != nil {
		return "", failed(FormatImage, ErrExtraction, err)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, tmp.Name(), "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			err = fmt.Errorf("tesseract: %w: %s", err, msg)
		} else {
			err = fmt.Errorf("tesseract: %w", err)
		}
		return "", failed(FormatImage, ErrExtraction, err)
	}
	return string(out), nil
}
