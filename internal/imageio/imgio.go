// Package imageio decodes source images into channel stacks and renders
// normalized stacks back into displayable images.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Decoded is an image together with the format it was stored in.
type Decoded struct {
	Image  image.Image
	Format string
}

// Read decodes an image from a reader. JPEG orientation tags are applied.
func Read(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return ReadBytes(data)
}

// ReadBytes decodes an image from raw bytes.
func ReadBytes(data []byte) (*Decoded, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Decoded{Image: img, Format: format}, nil
}

// ReadFile reads an image from a file.
func ReadFile(filename string) (*Decoded, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Save writes an image to a file. The format is decided by the extension
// (png, jpg, jpeg, gif, tif, tiff or bmp).
func Save(filename string, img image.Image) error {
	if _, err := imaging.FormatFromFilename(filename); err != nil {
		return fmt.Errorf("unknown extension %q", filepath.Ext(filename))
	}
	return imaging.Save(img, filename, imaging.JPEGQuality(95))
}

// Encode writes img to w in the named format ("png" or "jpeg").
func Encode(w io.Writer, img image.Image, format string) error {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("unsupported output format %q", format)
	}
	switch f {
	case imaging.PNG, imaging.JPEG:
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return imaging.Encode(w, img, f, imaging.JPEGQuality(95))
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "tif", "tiff":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}
