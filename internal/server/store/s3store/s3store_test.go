package s3store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/dmitrijs2005/jobassist/internal/server/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New(newFakeBucket(), "jobassist", "data")
	})
}

func TestObjectKeyLayout(t *testing.T) {
	s := New(newFakeBucket(), "b", "data")
	assert.Equal(t, "data/users/a%40example.com", s.objectKey("users", "a@example.com"))
	assert.Equal(t, "data/c/x%2Fy", s.objectKey("c", "x/y"))

	bare := New(newFakeBucket(), "b", "")
	assert.Equal(t, "c/k", bare.objectKey("c", "k"))
}

func TestVersionStoredInMetadata(t *testing.T) {
	fb := newFakeBucket()
	s := New(fb, "b", "")
	ctx := context.Background()

	_, err := s.Set(ctx, "c", "k", []byte("1"))
	require.NoError(t, err)
	_, err = s.Set(ctx, "c", "k", []byte("2"))
	require.NoError(t, err)

	out, err := fb.HeadObject(ctx, &s3.HeadObjectInput{Key: aws.String("c/k")})
	require.NoError(t, err)
	assert.Equal(t, "2", out.Metadata["version"])
}

func TestCompareAndSet_LostRaceIsConflict(t *testing.T) {
	fb := newFakeBucket()
	s := New(fb, "b", "")
	ctx := context.Background()

	_, err := s.Set(ctx, "c", "k", []byte("1"))
	require.NoError(t, err)

	_, etag, err := s.head(ctx, "c", "k")
	require.NoError(t, err)
	_, err = s.Set(ctx, "c", "k", []byte("other"))
	require.NoError(t, err)

	err = s.put(ctx, "c", "k", []byte("mine"), 2, etag, "")
	require.Error(t, err)
	assert.True(t, isPreconditionFailed(err))
}

func TestPutFailureIsWrapped(t *testing.T) {
	fb := newFakeBucket()
	fb.putErr = errors.New("connection refused")
	s := New(fb, "b", "")

	_, err := s.CompareAndSet(context.Background(), "c", "k", []byte("v"), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrVersionConflict)
	assert.Contains(t, err.Error(), "s3 put error")
}

func TestListSkipsForeignObjects(t *testing.T) {
	fb := newFakeBucket()
	s := New(fb, "b", "")
	ctx := context.Background()

	_, err := s.Set(ctx, "c", "k", []byte("v"))
	require.NoError(t, err)
	_, err = fb.PutObject(ctx, &s3.PutObjectInput{Key: aws.String("c/nested/obj"), Body: strings.NewReader("x")})
	require.NoError(t, err)

	recs, err := s.List(ctx, "c")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "k", recs[0].Key)
}
