// Package storage keeps uploaded room images. Every driver hands out references of the
// form /uploads/<directory>/<file>, which the HTTP gateway resolves through Open.
package storage

//go:generate go run go.uber.org/mock/mockgen -source=./storage.go -destination=./mocks/storage_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/s3"
	"hostel/shared/constant"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrInvalidRef      = errors.New("invalid file reference")
	ErrUnsupportedType = errors.New("unsupported file type")
)

type Storage interface {
	Save(ctx context.Context, directory, fileName, contentType string, data []byte) (ref string, err error)
	Open(ctx context.Context, ref string) (body io.ReadCloser, contentType string, err error)
	Delete(ctx context.Context, ref string) error
}

func New(cfg *config.Config, s3Client s3.S3, ot otel.Otel) Storage {
	switch cfg.Storage.Driver {
	case DriverS3:
		log.Info().Str("bucket", cfg.External.S3.BucketName).Msg("Using S3 storage for uploads")

		return NewS3(s3Client, ot)
	default:
		log.Info().Str("dir", cfg.App.Upload.Dir).Msg("Using local storage for uploads")

		return NewLocal(cfg.App.Upload.Dir, ot)
	}
}

// Ref builds the public reference of an object key.
func Ref(objectKey string) string {
	return constant.UploadsRoutePrefix + "/" + strings.TrimPrefix(objectKey, "/")
}

// ObjectKey resolves a reference, or a bare key, into a clean relative key.
// Keys can never climb above the upload root.
func ObjectKey(ref string) (string, error) {
	key := strings.TrimPrefix(ref, constant.UploadsRoutePrefix+"/")
	key = strings.TrimPrefix(path.Clean("/"+key), "/")

	if key == "" || key == "." {
		return "", fmt.Errorf("%q: %w", ref, ErrInvalidRef)
	}

	return key, nil
}

// DetectImage sniffs data and returns its MIME type and file extension when the type
// is in allowed.
func DetectImage(data []byte, allowed []string) (contentType, extension string, err error) {
	detected := mimetype.Detect(data)

	for _, candidate := range allowed {
		if detected.Is(strings.TrimSpace(candidate)) {
			return detected.String(), detected.Extension(), nil
		}
	}

	return "", "", fmt.Errorf("%s: %w", detected.String(), ErrUnsupportedType)
}
