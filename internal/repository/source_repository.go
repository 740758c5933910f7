package repository

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
	"github.com/anime-shed/spatialplot-go/internal/storage"
	"github.com/anime-shed/spatialplot-go/pkg/models"
	"github.com/anime-shed/spatialplot-go/pkg/validation"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves and decodes the image at source
	FetchImage(ctx context.Context, source string) (*imageio.Decoded, error)

	// ValidateSource validates if the provided source is acceptable
	ValidateSource(source string) error
}

// SourceRepository dispatches sources to a fetcher by URL scheme.
type SourceRepository struct {
	fetchers  map[string]storage.ImageFetcher
	validator *validation.URLValidator
}

// NewSourceRepository creates a repository serving http and https through
// the given fetcher.
func NewSourceRepository(httpFetcher storage.ImageFetcher) *SourceRepository {
	r := &SourceRepository{
		fetchers:  map[string]storage.ImageFetcher{},
		validator: validation.NewURLValidator(),
	}
	r.Register("http", httpFetcher)
	r.Register("https", httpFetcher)
	return r
}

// Register routes scheme to fetcher and allows it through validation.
func (r *SourceRepository) Register(scheme string, fetcher storage.ImageFetcher) *SourceRepository {
	r.fetchers[scheme] = fetcher
	r.validator.AllowScheme(scheme)
	return r
}

// Schemes lists the registered schemes.
func (r *SourceRepository) Schemes() []string {
	schemes := make([]string, 0, len(r.fetchers))
	for s := range r.fetchers {
		schemes = append(schemes, s)
	}
	return schemes
}

func (r *SourceRepository) ValidateSource(source string) error {
	return r.validator.ValidateImageURL(source)
}

func (r *SourceRepository) FetchImage(ctx context.Context, source string) (*imageio.Decoded, error) {
	if err := r.ValidateSource(source); err != nil {
		return nil, err
	}
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	fetcher, ok := r.fetchers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return fetcher.FetchImage(ctx, source)
}

// Metadata describes a decoded image.
func Metadata(d *imageio.Decoded) models.ImageMetadata {
	b := d.Image.Bounds()
	depth := 8
	if imageio.Is16Bit(d.Image) {
		depth = 16
	}
	return models.ImageMetadata{
		Format:     d.Format,
		Width:      b.Dx(),
		Height:     b.Dy(),
		ColorModel: colorModelName(d.Image),
		BitDepth:   depth,
	}
}

func colorModelName(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "gray"
	case *image.Gray16:
		return "gray16"
	case *image.RGBA:
		return "rgba"
	case *image.RGBA64:
		return "rgba64"
	case *image.NRGBA:
		return "nrgba"
	case *image.NRGBA64:
		return "nrgba64"
	case *image.Paletted:
		return "paletted"
	case *image.YCbCr:
		return "ycbcr"
	case *image.CMYK:
		return "cmyk"
	default:
		return fmt.Sprintf("%T", img)
	}
}
