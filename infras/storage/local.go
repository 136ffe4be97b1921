package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"hostel/infras/otel"
	"hostel/shared/constant"

	"github.com/gabriel-vasile/mimetype"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

type localStorage struct {
	root string
	otel otel.Otel
}

func NewLocal(root string, ot otel.Otel) Storage {
	return &localStorage{root: root, otel: ot}
}

func (l *localStorage) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *localStorage) Save(ctx context.Context, directory, fileName, _ string, data []byte) (ref string, err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Save")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key, err := ObjectKey(directory + "/" + fileName)
	if err != nil {
		return "", err
	}

	target := l.path(key)

	if err = os.MkdirAll(filepath.Dir(target), dirPermission); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err = os.WriteFile(target, data, filePermission); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return Ref(key), nil
}

func (l *localStorage) Open(ctx context.Context, ref string) (body io.ReadCloser, contentType string, err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Open")
	defer scope.End()

	key, err := ObjectKey(ref)
	if err != nil {
		return nil, "", err
	}

	target := l.path(key)

	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, "", ErrNotFound
	}

	if err != nil {
		return nil, "", fmt.Errorf("failed to stat upload: %w", err)
	}

	detected, err := mimetype.DetectFile(target)
	if err != nil {
		return nil, "", fmt.Errorf("failed to detect upload type: %w", err)
	}

	file, err := os.Open(target)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}

	return file, detected.String(), nil
}

func (l *localStorage) Delete(ctx context.Context, ref string) (err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key, err := ObjectKey(ref)
	if err != nil {
		return err
	}

	err = os.Remove(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return nil
}
