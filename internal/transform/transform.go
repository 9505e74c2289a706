// Package transform derives resized/cropped rendition URLs from a public
// image URL by rewriting it into a transformation-CDN URL. No network calls
// are made; the CDN applies the transformation when the browser fetches the
// derived URL.
package transform

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/trippix/attractions/internal/models"
)

// Crop modes understood by the transformation service.
const (
	cropForce = "force"  // crop to exact dimensions
	cropAtMax = "at_max" // fit within bounds, keep aspect ratio
)

// Transformer builds transformation URLs against a configured endpoint.
// The zero value (empty endpoint) degrades gracefully: every derived URL
// equals the source URL.
type Transformer struct {
	endpoint string
}

// New returns a Transformer for the given service endpoint. An empty
// endpoint enables identity passthrough rather than being an error.
func New(endpoint string) *Transformer {
	return &Transformer{endpoint: strings.TrimRight(endpoint, "/")}
}

// Enabled reports whether a transformation endpoint is configured.
func (t *Transformer) Enabled() bool {
	return t.endpoint != ""
}

type params struct {
	width   int
	height  int
	crop    string
	quality int
	aspect  string // e.g. "3-2", empty to omit
}

// url embeds the source URL base64-encoded into the endpoint path, with the
// transformation segment ahead of it:
//
//	{endpoint}/w-600,h-400,c-at_max,ar-3-2,q-85,f-auto/tr:q-auto/{base64(src)}
func (t *Transformer) url(src string, p params) string {
	if !t.Enabled() {
		return src
	}

	segs := []string{
		fmt.Sprintf("w-%d", p.width),
		fmt.Sprintf("h-%d", p.height),
		"c-" + p.crop,
	}
	if p.aspect != "" {
		segs = append(segs, "ar-"+p.aspect)
	}
	segs = append(segs, fmt.Sprintf("q-%d", p.quality), "f-auto")

	encoded := base64.StdEncoding.EncodeToString([]byte(src))
	return fmt.Sprintf("%s/%s/tr:q-auto/%s", t.endpoint, strings.Join(segs, ","), encoded)
}

// Thumbnail derives a 200x200 square crop with aggressive compression,
// suited to cards and grid views.
func (t *Transformer) Thumbnail(src string) string {
	return t.url(src, params{width: 200, height: 200, crop: cropForce, quality: 80})
}

// MobileHero derives a 600x400 bounded fit (3:2) for phone hero sections.
func (t *Transformer) MobileHero(src string) string {
	return t.url(src, params{width: 600, height: 400, crop: cropAtMax, quality: 85, aspect: "3-2"})
}

// DesktopHero derives a 1200x600 bounded fit (2:1) at higher quality.
func (t *Transformer) DesktopHero(src string) string {
	return t.url(src, params{width: 1200, height: 600, crop: cropAtMax, quality: 90, aspect: "2-1"})
}

// Variants derives all three renditions for src. Idempotent: the same src
// and configuration always yield identical output.
func (t *Transformer) Variants(src string) models.VariantURLs {
	return models.VariantURLs{
		Thumbnail:   t.Thumbnail(src),
		MobileHero:  t.MobileHero(src),
		DesktopHero: t.DesktopHero(src),
	}
}
