// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded proof images to a predictable size
// and format before they are stored.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	// MaxDimension is the ceiling for the longer side.
	MaxDimension = 2000
	// MinDimension is the floor for the shorter side after clamping.
	MinDimension = 500
	// JPEGQuality is the re-encode quality for normalized output.
	JPEGQuality = 80
)

// Result describes a stored normalized image.
type Result struct {
	Width   int
	Height  int
	Size    int64
	WebPath string
	Path    string
}

// Normalizer decodes, orients, resizes and re-encodes uploads, then saves
// them under the uploads directory.
type Normalizer struct {
	uploadDir string
}

// NewNormalizer creates a Normalizer rooted at uploadDir.
func NewNormalizer(uploadDir string) *Normalizer {
	return &Normalizer{uploadDir: uploadDir}
}

// NormalizeAndSave reads one uploaded image, normalizes it and writes it to
// a fresh uuid subdirectory. The returned WebPath is the /uploads URL.
func (n *Normalizer) NormalizeAndSave(r io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if !isSupportedImage(data) {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	img = Normalize(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	name := jpegName(filename)
	dir := uuid.NewString()
	path, err := n.save(dir, name, buf.Bytes())
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &Result{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Size:    int64(buf.Len()),
		WebPath: "/uploads/" + dir + "/" + name,
		Path:    path,
	}, nil
}

// Normalize applies the size rules: clamp the longer side to MaxDimension,
// then upscale so the shorter side reaches MinDimension. Both steps preserve
// aspect ratio; the upscale may push the longer side of a narrow strip past
// MaxDimension rather than distort it.
func Normalize(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > MaxDimension || h > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
		b = img.Bounds()
		w, h = b.Dx(), b.Dy()
	}

	if w < MinDimension || h < MinDimension {
		ratio := math.Max(float64(MinDimension)/float64(w), float64(MinDimension)/float64(h))
		w = int(math.Round(float64(w) * ratio))
		h = int(math.Round(float64(h) * ratio))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return img
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// isSupportedImage sniffs the content type. TIFF is rejected explicitly
// (CVE-2023-36308 in disintegration/imaging).
func isSupportedImage(data []byte) bool {
	ct := http.DetectContentType(data)
	if strings.Contains(ct, "tiff") {
		return false
	}
	switch {
	case strings.Contains(ct, "jpeg"),
		strings.Contains(ct, "png"),
		strings.Contains(ct, "gif"),
		strings.Contains(ct, "webp"):
		return true
	}
	return false
}

// jpegName sanitizes the client filename and forces a .jpg extension.
func jpegName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == ".." {
		base = "image"
	}
	return base + ".jpg"
}

// save writes data under uploadDir/subDir, refusing anything that would
// escape the uploads root.
func (n *Normalizer) save(subDir, filename string, data []byte) (string, error) {
	cleanSub := filepath.Clean(subDir)
	if strings.Contains(cleanSub, "..") || filepath.IsAbs(cleanSub) {
		return "", fmt.Errorf("invalid subdirectory path")
	}

	absBase, err := filepath.Abs(n.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving uploads dir: %w", err)
	}
	absTarget := filepath.Join(absBase, cleanSub)

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	path := filepath.Join(absTarget, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return path, nil
}
