package images

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"NewsPortal/internal/ports"
)

const (
	downloadTimeout = 10 * time.Second
	jpegQuality     = 85
	// PublicPrefix is the URL path under which processed files are served.
	PublicPrefix = "/api/images/"
)

// Processor downloads an image, applies a light retouch and stores it as JPEG.
type Processor struct {
	client    *http.Client
	dir       string
	maxWidth  int
	maxHeight int
}

var _ ports.ImageProcessor = (*Processor)(nil)

// NewProcessor stores results in dir; oversized images are fitted into maxWidth x maxHeight.
func NewProcessor(client *http.Client, dir string, maxWidth, maxHeight int) *Processor {
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	return &Processor{client: client, dir: dir, maxWidth: maxWidth, maxHeight: maxHeight}
}

// Dir is where processed files are written.
func (p *Processor) Dir() string { return p.dir }

// Process returns the public URL of the processed copy.
func (p *Processor) Process(ctx context.Context, imageURL string) (string, error) {
	src, err := p.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	out := Retouch(src, p.maxWidth, p.maxHeight)

	name := "processed_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10] + ".jpg"
	if err := imaging.Save(out, filepath.Join(p.dir, name), imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("save processed image: %w", err)
	}
	return PublicPrefix + name, nil
}

// Retouch blurs slightly, lifts brightness and contrast, mutes saturation and fits the bounds.
func Retouch(src image.Image, maxWidth, maxHeight int) image.Image {
	img := imaging.Blur(src, 0.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustContrast(img, 5)
	img = imaging.AdjustSaturation(img, -5)

	b := img.Bounds()
	if maxWidth > 0 && maxHeight > 0 && (b.Dx() > maxWidth || b.Dy() > maxHeight) {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}
	return img
}

func (p *Processor) download(ctx context.Context, imageURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image returned %s", resp.Status)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
