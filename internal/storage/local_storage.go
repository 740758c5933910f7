package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
)

// LocalFileFetcher reads images below a root directory. Sources are
// file:///relative/path URLs or bare relative paths; nothing outside the
// root can be opened.
type LocalFileFetcher struct {
	root     string
	maxBytes int64
}

// NewLocalFileFetcher creates a fetcher confined to root.
func NewLocalFileFetcher(root string, maxBytes int64) (*LocalFileFetcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("local root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local root %q is not a directory", root)
	}
	return &LocalFileFetcher{root: root, maxBytes: maxBytes}, nil
}

func localName(source string) (string, error) {
	name := source
	if strings.HasPrefix(source, "file:") {
		u, err := url.Parse(source)
		if err != nil {
			return "", fmt.Errorf("invalid file URL: %w", err)
		}
		name = u.Host + u.Path
	}
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", fmt.Errorf("empty file path")
	}
	return name, nil
}

func (l *LocalFileFetcher) FetchImage(ctx context.Context, source string) (*imageio.Decoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := localName(source)
	if err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(l.root)
	if err != nil {
		return nil, fmt.Errorf("open local root: %w", err)
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	defer f.Close()

	return decodeLimited(f, l.maxBytes)
}
