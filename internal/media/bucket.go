package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/google/uuid"
)

// BucketHost uploads images to a Google Cloud Storage bucket, usually the
// default bucket of the Firebase project.
type BucketHost struct {
	bucket *storage.BucketHandle
	name   string
	folder string
}

var _ ImageHost = &BucketHost{}

// NewBucketHost returns a BucketHost writing under folder in bucket.
func NewBucketHost(bucket *storage.BucketHandle, bucketName, folder string) *BucketHost {
	return &BucketHost{bucket: bucket, name: bucketName, folder: folder}
}

// Upload writes img under a random object name and returns its public URL.
func (h *BucketHost) Upload(ctx context.Context, img *Image) (string, error) {
	object := path.Join(h.folder, uuid.NewString()+img.Extension)

	w := h.bucket.Object(object).NewWriter(ctx)
	w.ContentType = img.ContentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, bytes.NewReader(img.Data)); err != nil {
		w.Close()
		return "", errs.Wrap(errs.EUNAVAILABLE, err, "image upload")
	}
	if err := w.Close(); err != nil {
		return "", errs.Wrap(errs.EUNAVAILABLE, err, "image upload")
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.name, object), nil
}
