package pdf

import (
	"context"
	"fmt"
	"strings"
	"sync"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"NewsPortal/internal/ports"
)

// Renderer converts HTML to A4 PDF with the wkhtmltopdf binary.
type Renderer struct {
	mu sync.Mutex // one wkhtmltopdf process at a time
}

var _ ports.PDFRenderer = (*Renderer)(nil)

var setPathOnce sync.Once

// NewRenderer uses binPath when set, otherwise PATH lookup.
func NewRenderer(binPath string) *Renderer {
	if binPath != "" {
		setPathOnce.Do(func() { wkhtmltopdf.SetPath(binPath) })
	}
	return &Renderer{}
}

// Render produces PDF bytes for a self-contained UTF-8 HTML document.
func (r *Renderer) Render(ctx context.Context, html string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf unavailable: %w", err)
	}

	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(15)
	pdfg.MarginBottom.Set(15)
	pdfg.MarginLeft.Set(12)
	pdfg.MarginRight.Set(12)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.Encoding.Set("UTF-8")
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
