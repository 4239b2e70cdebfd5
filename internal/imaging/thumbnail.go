// Package imaging generates downscaled JPEG thumbnails for gallery grids.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// DefaultMaxDim is the bounding box for generated thumbnails, in pixels.
const DefaultMaxDim = 320

// WriteThumbnail decodes the image at srcPath, scales it to fit within
// maxDim x maxDim preserving aspect ratio, and writes it as JPEG to dstPath.
// Images already within the box are re-encoded without scaling.
func WriteThumbnail(srcPath, dstPath string, maxDim int) error {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	scaled := Scale(img, maxDim)

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	if err := jpeg.Encode(dst, scaled, &jpeg.Options{Quality: 80}); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to close thumbnail file: %w", err)
	}
	return nil
}

// Scale returns img scaled down to fit within maxDim x maxDim. Images that
// already fit are returned unchanged.
func Scale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var tw, th int
	if w >= h {
		tw = maxDim
		th = h * maxDim / w
	} else {
		th = maxDim
		tw = w * maxDim / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, bounds, draw.Over, nil)
	return out
}

// Copy writes the source file verbatim to dstPath. Fallback for sources the
// decoder cannot read; the gallery then shows the full-size image.
func Copy(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source image: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy thumbnail: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to close thumbnail file: %w", err)
	}
	return nil
}
