// Package imaging normalizes downloaded product images into optimized WebP.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/chai2010/webp"

	// Register decoders for the formats storefront CDNs serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// quality matches a mid-range lossy setting; fixed so the encode step is
// deterministic for identical input bytes.
const quality = 80

// ConvertToWebP decodes raw image bytes, forces a 4-channel representation
// when the source carries alpha and a 3-channel one otherwise, and encodes
// the result as lossy WebP.
func ConvertToWebP(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	norm := normalize(src)

	var buf bytes.Buffer
	if hasAlpha(src) {
		err = webp.EncodeRGBA(&buf, norm, quality)
	} else {
		err = webp.EncodeRGB(&buf, norm, quality)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}

	return buf.Bytes(), nil
}

// normalize redraws the image into an NRGBA buffer anchored at the origin,
// collapsing palette, YCbCr and offset-bounds sources into one layout.
func normalize(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func hasAlpha(m image.Image) bool {
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
