package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

var ErrObjectNotFound = errors.New("object not found")

// S3 talks to one bucket of an S3 compatible store (AWS, R2, MinIO).
type S3 interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
	GetObject(ctx context.Context, key string) (body io.ReadCloser, contentType string, err error)
	DeleteObject(ctx context.Context, key string) error
}

type bucketClient struct {
	client *s3.Client
	bucket string
	otel   otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) S3 {
	conf := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(conf.Region),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, ""),
		),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load S3 configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if conf.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(conf.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &bucketClient{client: client, bucket: conf.BucketName, otel: ot}
}

func (b *bucketClient) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+"."+operation)
	scope.SetAttributes(map[string]any{"s3.bucket": b.bucket, "s3.key": key})

	return ctx, scope
}

func (b *bucketClient) PutObject(ctx context.Context, key, contentType string, data []byte) (err error) {
	ctx, scope := b.scope(ctx, "PutObject", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to put S3 object")

		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

func (b *bucketClient) GetObject(ctx context.Context, key string) (body io.ReadCloser, contentType string, err error) {
	ctx, scope := b.scope(ctx, "GetObject", key)
	defer scope.End()

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	var noSuchKey *types.NoSuchKey

	switch {
	case errors.As(err, &noSuchKey):
		return nil, "", ErrObjectNotFound
	case err != nil:
		scope.TraceError(err)

		return nil, "", fmt.Errorf("get object %s: %w", key, err)
	}

	return out.Body, aws.ToString(out.ContentType), nil
}

func (b *bucketClient) DeleteObject(ctx context.Context, key string) (err error) {
	ctx, scope := b.scope(ctx, "DeleteObject", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to delete S3 object")

		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}
