package storage

import (
	"context"
	"image"
	"os"

	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
)

// LocalImageFetcher reads images from the local filesystem. Used by the
// CLI tooling where fabric shots live on disk.
type LocalImageFetcher struct{}

// NewLocalImageFetcher creates a filesystem-backed fetcher.
func NewLocalImageFetcher() ImageFetcher {
	return &LocalImageFetcher{}
}

func (l *LocalImageFetcher) FetchImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("failed to open image file", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("failed to decode image", err)
	}
	return img, nil
}
