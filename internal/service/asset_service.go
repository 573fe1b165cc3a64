// Package service contains the application's business logic.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"estate/internal/models"
	"estate/internal/observability"
	"estate/internal/storage"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// FileResolver turns a local file reference into its byte content.
type FileResolver interface {
	Read(ref string) ([]byte, error)
}

// OSFileResolver reads references as paths on the local filesystem.
type OSFileResolver struct{}

func (OSFileResolver) Read(ref string) ([]byte, error) {
	return os.ReadFile(strings.TrimPrefix(ref, "file://"))
}

// AssetService uploads local images to object storage and hands back
// their public view URLs.
type AssetService struct {
	bucket storage.BucketClient
	files  FileResolver
	now    func() time.Time
}

func NewAssetService(bucket storage.BucketClient, files FileResolver) *AssetService {
	if files == nil {
		files = OSFileResolver{}
	}
	return &AssetService{bucket: bucket, files: files, now: time.Now}
}

// UploadAll uploads refs one at a time and returns one view URL per ref,
// in input order. Position 0 of the result always corresponds to refs[0];
// the caller designates it the primary image. Uploads stop at the first
// failure, leaving earlier files in the bucket.
func (s *AssetService) UploadAll(ctx context.Context, refs []string) ([]string, error) {
	urls := make([]string, 0, len(refs))

	for i, ref := range refs {
		content, err := s.files.Read(ref)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, models.NewAssetNotFoundError(ref)
			}
			return nil, fmt.Errorf("failed to read image %d: %w", i, err)
		}

		if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("File %q is not a supported image", fileName(ref, s.now())))
		}

		fileID := uuid.NewString()
		if err := s.bucket.CreateFile(ctx, fileID, fileName(ref, s.now()), content); err != nil {
			observability.Logger.ErrorContext(ctx, "Image upload failed",
				"ref", ref, "position", i, "error", err)
			return nil, models.NewRemoteWriteError("file", err)
		}

		urls = append(urls, s.bucket.ViewURL(fileID))
	}

	return urls, nil
}

// fileName derives an upload name from the reference path, falling back
// to a timestamp name when the ref carries none.
func fileName(ref string, now time.Time) string {
	name := path.Base(strings.TrimPrefix(ref, "file://"))
	if name == "" || name == "." || name == "/" {
		return fmt.Sprintf("image-%d.jpg", now.UnixMilli())
	}
	return name
}
