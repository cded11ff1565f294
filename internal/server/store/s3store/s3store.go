// Package s3store implements store.Store on an S3-compatible bucket.
//
// Each record is one object at <prefix><collection>/<escaped key>. The record
// version travels in the "version" user metadata; compare-and-set relies on
// conditional writes (If-Match on the ETag, If-None-Match "*" for creation).
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

const versionMetaKey = "version"

// ObjectAPI is the subset of *s3.Client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Store struct {
	api    ObjectAPI
	bucket string
	prefix string
}

var _ store.Store = (*Store)(nil)

func New(api ObjectAPI, bucket, prefix string) *Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{api: api, bucket: bucket, prefix: prefix}
}

// Options configure a client for an S3-compatible endpoint such as MinIO.
type Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
	Prefix    string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewFromOptions builds an S3 client with static credentials.
func NewFromOptions(ctx context.Context, o Options) (*Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(o.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
			opts.UsePathStyle = true
		}
	})
	return New(client, o.Bucket, o.Prefix), nil
}

func (s *Store) collectionPrefix(collection string) string {
	return s.prefix + collection + "/"
}

func (s *Store) objectKey(collection, key string) string {
	return s.collectionPrefix(collection) + url.PathEscape(key)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}

func parseVersion(meta map[string]string) int64 {
	v, err := strconv.ParseInt(meta[versionMetaKey], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// head returns the current version and ETag, or version 0 when absent.
func (s *Store) head(ctx context.Context, collection, key string) (int64, string, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(collection, key)),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, "", nil
		}
		return 0, "", fmt.Errorf("s3 head error: %w", err)
	}
	return parseVersion(out.Metadata), aws.ToString(out.ETag), nil
}

func (s *Store) put(ctx context.Context, collection, key string, value []byte, version int64, ifMatch, ifNoneMatch string) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(collection, key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{versionMetaKey: strconv.FormatInt(version, 10)},
	}
	if ifMatch != "" {
		in.IfMatch = aws.String(ifMatch)
	}
	if ifNoneMatch != "" {
		in.IfNoneMatch = aws.String(ifNoneMatch)
	}
	_, err := s.api.PutObject(ctx, in)
	return err
}

func (s *Store) Get(ctx context.Context, collection, key string) (*store.Record, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(collection, key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 get error: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read error: %w", err)
	}
	return &store.Record{Key: key, Value: b, Version: parseVersion(out.Metadata)}, nil
}

// Set is last-writer-wins; concurrent writers may compute the same version.
func (s *Store) Set(ctx context.Context, collection, key string, value []byte) (int64, error) {
	current, _, err := s.head(ctx, collection, key)
	if err != nil {
		return 0, err
	}
	next := current + 1
	if err := s.put(ctx, collection, key, value, next, "", ""); err != nil {
		return 0, fmt.Errorf("s3 put error: %w", err)
	}
	return next, nil
}

func (s *Store) CompareAndSet(ctx context.Context, collection, key string, value []byte, expectedVersion int64) (int64, error) {
	current, etag, err := s.head(ctx, collection, key)
	if err != nil {
		return 0, err
	}
	if current != expectedVersion {
		return 0, common.ErrVersionConflict
	}

	var ifMatch, ifNoneMatch string
	if expectedVersion == 0 {
		ifNoneMatch = "*"
	} else {
		ifMatch = etag
	}

	next := expectedVersion + 1
	if err := s.put(ctx, collection, key, value, next, ifMatch, ifNoneMatch); err != nil {
		if isPreconditionFailed(err) {
			return 0, common.ErrVersionConflict
		}
		return 0, fmt.Errorf("s3 put error: %w", err)
	}
	return next, nil
}

func (s *Store) Delete(ctx context.Context, collection, key string) (bool, error) {
	current, _, err := s.head(ctx, collection, key)
	if err != nil {
		return false, err
	}
	if current == 0 {
		return false, nil
	}

	_, err = s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(collection, key)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 delete error: %w", err)
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]*store.Record, error) {
	prefix := s.collectionPrefix(collection)

	var keys []string
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list error: %w", err)
		}
		for _, obj := range page.Contents {
			raw := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if raw == "" || strings.Contains(raw, "/") {
				continue
			}
			key, err := url.PathUnescape(raw)
			if err != nil {
				continue
			}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := make([]*store.Record, 0, len(keys))
	for _, k := range keys {
		r, err := s.Get(ctx, collection, k)
		if err != nil {
			// deleted between list and get
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
