package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
)

// AzureScheme addresses blobs as azblob://<container>/<blob path>.
const AzureScheme = "azblob"

type azureStorage struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureStorage creates a blob fetcher authenticated with a shared key.
func NewAzureStorage(accountName string, accountKey string, maxBytes int64) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &azureStorage{client: client, maxBytes: maxBytes}, nil
}

// ParseBlobURL splits azblob://container/path/to/blob into its parts.
func ParseBlobURL(blobURL string) (container, blob string, err error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}
	if parsedURL.Scheme != AzureScheme {
		return "", "", fmt.Errorf("invalid blob URL scheme %q", parsedURL.Scheme)
	}

	container = parsedURL.Host
	blob = strings.TrimPrefix(parsedURL.Path, "/")
	if container == "" || blob == "" {
		return "", "", fmt.Errorf("blob URL must name a container and a blob: %q", blobURL)
	}
	return container, blob, nil
}

func (s *azureStorage) FetchImage(ctx context.Context, blobURL string) (*imageio.Decoded, error) {
	containerName, blobName, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, containerName, blobName)
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return decodeLimited(retryReader, s.maxBytes)
}
