package catalog

import (
	"context"
	"errors"

	"github.com/mcdev12/memorymatch/go/internal/models"
)

// ErrProviderUnavailable is returned when the remote catalog cannot be reached.
var ErrProviderUnavailable = errors.New("content provider unavailable")

// ImageChecker probes and warms card artwork.
type ImageChecker interface {
	// ImageReachable never fails, false means the image should be skipped.
	ImageReachable(ctx context.Context, url string) bool
	PreloadImage(ctx context.Context, url string) error
}

// Provider supplies candidate items and their artwork.
type Provider interface {
	ImageChecker
	FetchCatalog(ctx context.Context) ([]models.CatalogItem, error)
}
