package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
)

var (
	// ErrNotFound indicates the source does not exist
	ErrNotFound = errors.New("image not found")

	// ErrDecode indicates the source bytes are not a supported image
	ErrDecode = errors.New("image could not be decoded")

	// ErrTooLarge indicates the source exceeds the configured byte limit
	ErrTooLarge = errors.New("image exceeds size limit")
)

// DefaultMaxImageBytes bounds a single download when no limit is configured.
const DefaultMaxImageBytes = 64 * 1024 * 1024

type ImageFetcher interface {
	FetchImage(ctx context.Context, source string) (*imageio.Decoded, error)
}

// decodeLimited reads at most maxBytes from r and decodes the result.
func decodeLimited(r io.Reader, maxBytes int64) (*imageio.Decoded, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}
	img, err := imageio.ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
