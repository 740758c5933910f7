package repository

import (
	"context"
	"errors"
	"image"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/anime-shed/spatialplot-go/internal/errors"
	"github.com/anime-shed/spatialplot-go/internal/imageio"
)

type recordingFetcher struct {
	name    string
	sources []string
}

func (f *recordingFetcher) FetchImage(ctx context.Context, source string) (*imageio.Decoded, error) {
	f.sources = append(f.sources, source)
	return &imageio.Decoded{Image: image.NewGray16(image.Rect(0, 0, 3, 2)), Format: f.name}, nil
}

func TestSourceRepository_Routing(t *testing.T) {
	web := &recordingFetcher{name: "web"}
	local := &recordingFetcher{name: "local"}
	blob := &recordingFetcher{name: "blob"}

	repo := NewSourceRepository(web).Register("file", local).Register("azblob", blob)

	schemes := repo.Schemes()
	sort.Strings(schemes)
	assert.Equal(t, []string{"azblob", "file", "http", "https"}, schemes)

	ctx := context.Background()
	for _, src := range []string{"https://example.com/a.png", "file:///a.png", "azblob://slides/a.png"} {
		_, err := repo.FetchImage(ctx, src)
		require.NoError(t, err, src)
	}

	assert.Equal(t, []string{"https://example.com/a.png"}, web.sources)
	assert.Equal(t, []string{"file:///a.png"}, local.sources)
	assert.Equal(t, []string{"azblob://slides/a.png"}, blob.sources)
}

func TestSourceRepository_RejectsUnregisteredScheme(t *testing.T) {
	web := &recordingFetcher{name: "web"}
	repo := NewSourceRepository(web)

	_, err := repo.FetchImage(context.Background(), "file:///etc/passwd")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, web.sources)

	err = repo.ValidateSource("")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedScheme))
}

func TestMetadata(t *testing.T) {
	d := &imageio.Decoded{Image: image.NewGray16(image.Rect(0, 0, 3, 2)), Format: "png"}
	md := Metadata(d)
	assert.Equal(t, "png", md.Format)
	assert.Equal(t, 3, md.Width)
	assert.Equal(t, 2, md.Height)
	assert.Equal(t, "gray16", md.ColorModel)
	assert.Equal(t, 16, md.BitDepth)

	md = Metadata(&imageio.Decoded{Image: image.NewNRGBA(image.Rect(0, 0, 1, 1)), Format: "jpeg"})
	assert.Equal(t, "nrgba", md.ColorModel)
	assert.Equal(t, 8, md.BitDepth)
}
