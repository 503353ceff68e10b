// Package extract pulls plain text out of PDF documents. Extraction is
// best-effort: encrypted, image-only, or malformed documents yield an
// error or empty text, and callers treat both as a per-document skip.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoText indicates the document produced no extractable text.
var ErrNoText = errors.New("no extractable text")

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Text(rs io.ReadSeeker) (string, error)
}

// PDF extracts text from PDF content streams via pdfcpu.
type PDF struct {
	conf *model.Configuration
}

// NewPDF creates a PDF extractor with relaxed validation, since scraped
// court documents are frequently malformed.
func NewPDF() *PDF {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDF{conf: conf}
}

// Text concatenates the text content of every page. Pages whose content
// stream cannot be read are skipped; the document fails only when no page
// yields any text.
func (p *PDF) Text(rs io.ReadSeeker) (string, error) {
	ctx, err := api.ReadValidateAndOptimize(rs, p.conf)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}

		content, err := io.ReadAll(r)
		if err != nil {
			continue
		}

		b.WriteString(contentText(content))
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoText
	}

	return text, nil
}
