package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io/fs"
	"testing"
	"time"

	"estate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bucketStub is a stub for storage.BucketClient.
type bucketStub struct {
	createFileFn func(ctx context.Context, fileID, name string, content []byte) error
	uploaded     []string
}

func (s *bucketStub) CreateFile(ctx context.Context, fileID, name string, content []byte) error {
	if s.createFileFn != nil {
		if err := s.createFileFn(ctx, fileID, name, content); err != nil {
			return err
		}
	}
	s.uploaded = append(s.uploaded, fileID)
	return nil
}

func (s *bucketStub) ViewURL(fileID string) string {
	return "https://storage.test/view/" + fileID
}

// resolverStub resolves refs from an in-memory map; absent refs behave
// like missing local files.
type resolverStub struct {
	files map[string][]byte
}

func (s resolverStub) Read(ref string) ([]byte, error) {
	content, ok := s.files[ref]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return content, nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func TestAssetService_UploadAll_PreservesOrder(t *testing.T) {
	img := tinyPNG(t)
	bucket := &bucketStub{}
	svc := NewAssetService(bucket, resolverStub{files: map[string][]byte{
		"/photos/a.png": img,
		"/photos/b.png": img,
		"/photos/c.png": img,
	}})

	urls, err := svc.UploadAll(context.Background(), []string{"/photos/a.png", "/photos/b.png", "/photos/c.png"})
	require.NoError(t, err)
	require.Len(t, urls, 3)

	// one URL per ref, in input order
	for i, id := range bucket.uploaded {
		assert.Equal(t, "https://storage.test/view/"+id, urls[i])
	}
}

func TestAssetService_UploadAll_MissingFileStopsSequence(t *testing.T) {
	img := tinyPNG(t)
	bucket := &bucketStub{}
	svc := NewAssetService(bucket, resolverStub{files: map[string][]byte{
		"/photos/a.png": img,
		"/photos/c.png": img,
	}})

	_, err := svc.UploadAll(context.Background(), []string{"/photos/a.png", "/photos/gone.png", "/photos/c.png"})
	assert.True(t, models.HasCode(err, models.CodeAssetNotFound))
	// the first file was already uploaded before the failure
	assert.Len(t, bucket.uploaded, 1)
}

func TestAssetService_UploadAll_RejectsNonImage(t *testing.T) {
	bucket := &bucketStub{}
	svc := NewAssetService(bucket, resolverStub{files: map[string][]byte{
		"/photos/notes.txt": []byte("not an image"),
	}})

	_, err := svc.UploadAll(context.Background(), []string{"/photos/notes.txt"})
	assert.True(t, models.HasCode(err, models.CodeValidation))
	assert.Empty(t, bucket.uploaded)
}

func TestAssetService_UploadAll_UploadFailureIsRemoteWrite(t *testing.T) {
	img := tinyPNG(t)
	bucket := &bucketStub{
		createFileFn: func(_ context.Context, _, _ string, _ []byte) error {
			return assert.AnError
		},
	}
	svc := NewAssetService(bucket, resolverStub{files: map[string][]byte{
		"/photos/a.png": img,
	}})

	_, err := svc.UploadAll(context.Background(), []string{"/photos/a.png"})
	assert.True(t, models.HasCode(err, models.CodeRemoteWrite))
}

func TestAssetService_UploadAll_Empty(t *testing.T) {
	svc := NewAssetService(&bucketStub{}, resolverStub{})
	urls, err := svc.UploadAll(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, urls)
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name     string
		ref      string
		expected string
	}{
		{name: "Plain Path", ref: "/photos/villa.jpg", expected: "villa.jpg"},
		{name: "File URI", ref: "file:///photos/villa.jpg", expected: "villa.jpg"},
		{name: "No Name Falls Back To Timestamp", ref: "", expected: "image-1700000000000.jpg"},
		{name: "Root Path Falls Back", ref: "/", expected: "image-1700000000000.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fileName(tt.ref, now))
		})
	}
}
