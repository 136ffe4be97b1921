package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"hostel/infras/otel"
	"hostel/infras/s3"
	"hostel/shared/constant"
)

type s3Storage struct {
	client s3.S3
	otel   otel.Otel
}

func NewS3(client s3.S3, ot otel.Otel) Storage {
	return &s3Storage{client: client, otel: ot}
}

func (s *s3Storage) Save(ctx context.Context, directory, fileName, contentType string, data []byte) (ref string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Save")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key, err := ObjectKey(directory + "/" + fileName)
	if err != nil {
		return "", err
	}

	if err = s.client.PutObject(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return Ref(key), nil
}

func (s *s3Storage) Open(ctx context.Context, ref string) (body io.ReadCloser, contentType string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Open")
	defer scope.End()

	key, err := ObjectKey(ref)
	if err != nil {
		return nil, "", err
	}

	body, contentType, err = s.client.GetObject(ctx, key)
	if errors.Is(err, s3.ErrObjectNotFound) {
		return nil, "", ErrNotFound
	}

	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}

	return body, contentType, nil
}

func (s *s3Storage) Delete(ctx context.Context, ref string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key, err := ObjectKey(ref)
	if err != nil {
		return err
	}

	if err = s.client.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return nil
}
