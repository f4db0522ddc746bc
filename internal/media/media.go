package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"campus-food-backend/config"
)

// ErrDisabled is returned by the uploader used when no provider is configured.
var ErrDisabled = errors.New("image uploads are disabled")

// Uploader stores an event image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

// New builds the uploader selected by cfg.Provider.
func New(ctx context.Context, cfg config.MediaConfig) (Uploader, error) {
	switch cfg.Provider {
	case "", "none":
		return Disabled{}, nil
	case "cloudinary":
		return NewCloudinary(cfg.Cloudinary, cfg.Folder)
	case "s3":
		return NewS3(ctx, cfg.S3, cfg.Folder)
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}

// Disabled rejects every upload.
type Disabled struct{}

// Upload implements Uploader.
func (Disabled) Upload(context.Context, io.Reader, string) (string, error) {
	return "", ErrDisabled
}
