package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/storjvault/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// s3API is the part of *s3.Client the store calls.
type s3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// ClientOptions configures the shared S3 client.
type ClientOptions struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BaseEndpoint    string
	UsePathStyle    bool
}

// Client is a connected S3 client plus its presigner. One Client serves
// every bucket.
type Client struct {
	api     s3API
	presign *s3.PresignClient
}

// NewClient loads the AWS configuration with static credentials and points
// the client at opts.BaseEndpoint (a Storj gateway or MinIO).
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &Client{api: client, presign: newS3PresignClient(client)}, nil
}

// Bucket binds the client to one bucket.
func (c *Client) Bucket(name string) *S3Store {
	return &S3Store{api: c.api, presign: c.presign, bucket: name}
}

// S3Store implements ObjectStore on one bucket.
type S3Store struct {
	api     s3API
	presign *s3.PresignClient
	bucket  string
}

var _ ObjectStore = (*S3Store)(nil)

func (s *S3Store) Bucket() string { return s.bucket }

func (s *S3Store) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
		Metadata:     out.Metadata,
	}, nil
}

func (s *S3Store) Get(ctx context.Context, key string, rng *ByteRange) (*Object, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if rng != nil {
		in.Range = aws.String(fmt.Sprintf("bytes=%d-%d", rng.Start, rng.End))
	}

	out, err := s.api.GetObject(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}

	obj := &Object{
		ObjectInfo: ObjectInfo{
			Key:          key,
			Size:         aws.ToInt64(out.ContentLength),
			ContentType:  aws.ToString(out.ContentType),
			LastModified: aws.ToTime(out.LastModified),
			Metadata:     out.Metadata,
		},
		ContentLength: aws.ToInt64(out.ContentLength),
		Body:          out.Body,
	}
	if total, ok := totalFromContentRange(aws.ToString(out.ContentRange)); ok {
		obj.Size = total
	}
	return obj, nil
}

func (s *S3Store) Put(ctx context.Context, in PutInput) error {
	put := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(in.Key),
		Body:     in.Body,
		Metadata: in.Metadata,
	}
	if in.ContentType != "" {
		put.ContentType = aws.String(in.ContentType)
	}
	if in.Size >= 0 {
		put.ContentLength = aws.Int64(in.Size)
	}

	if _, err := s.api.PutObject(ctx, put); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *S3Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(dstKey),
		CopySource:        aws.String(s.bucket + "/" + url.PathEscape(srcKey)),
		MetadataDirective: types.MetadataDirectiveCopy,
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (s *S3Store) DeleteBatch(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if len(keys) > DeleteBatchSize {
		return nil, fmt.Errorf("%w: %d keys in one delete batch", common.ErrorValidation, len(keys))
	}

	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return keys, mapError(err)
	}

	var failed []string
	for _, e := range out.Errors {
		failed = append(failed, aws.ToString(e.Key))
	}
	return failed, nil
}

func (s *S3Store) List(ctx context.Context, prefix, delimiter string) (*ListResult, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		in.Delimiter = aws.String(delimiter)
	}

	res := &ListResult{}
	p := s3.NewListObjectsV2Paginator(s.api, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		for _, cp := range page.CommonPrefixes {
			res.CommonPrefixes = append(res.CommonPrefixes, aws.ToString(cp.Prefix))
		}
		for _, o := range page.Contents {
			res.Objects = append(res.Objects, ObjectInfo{
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}
	return res, nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3Store) CheckBucket(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (s *S3Store) EnsureBucket(ctx context.Context) (bool, error) {
	err := s.CheckBucket(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}

	if _, err := s.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return false, nil
		}
		return false, mapError(err)
	}
	return true, nil
}

// mapError folds S3 error codes into the shared sentinels.
func mapError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %s", common.ErrorNotFound, apiErr.ErrorMessage())
		case "InvalidRange":
			return fmt.Errorf("%w: %s", common.ErrorRangeNotSatisfiable, apiErr.ErrorMessage())
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", common.ErrorNotFound, err)
		case http.StatusRequestedRangeNotSatisfiable:
			return fmt.Errorf("%w: %v", common.ErrorRangeNotSatisfiable, err)
		}
	}

	return err
}

// totalFromContentRange extracts the total size from "bytes 0-99/1000".
func totalFromContentRange(v string) (int64, bool) {
	var start, end, total int64
	if _, err := fmt.Sscanf(v, "bytes %d-%d/%d", &start, &end, &total); err != nil {
		return 0, false
	}
	return total, true
}
