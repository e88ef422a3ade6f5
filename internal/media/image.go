// Package media validates uploaded images and hands them to an image host.
package media

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxUploadSize is the upload limit used when none is configured.
const DefaultMaxUploadSize int64 = 5 << 20 // 5 Megabyte

// Image is an upload that passed validation.
type Image struct {
	Filename    string
	ContentType string
	Extension   string
	Data        []byte
}

// ImageHost stores an image and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, img *Image) (string, error)
}

// ReadImage reads fh and checks it is an image no larger than maxSize bytes.
// The content type is detected from the file contents, not the client header.
func ReadImage(fh *multipart.FileHeader, maxSize int64) (*Image, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if fh.Size > maxSize {
		return nil, tooLarge(fh.Filename, maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errs.Wrap(errs.EINVALID, err, "Image %s could not be read", fh.Filename)
	}
	defer f.Close()

	return readImage(f, fh.Filename, maxSize)
}

func readImage(r io.Reader, filename string, maxSize int64) (*Image, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, errs.Wrap(errs.EINVALID, err, "Image %s could not be read", filename)
	}
	if n > maxSize {
		return nil, tooLarge(filename, maxSize)
	}
	if n == 0 {
		return nil, errs.Errorf(errs.EINVALID, "Image %s is empty", filename)
	}

	mt := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errs.Errorf(errs.EINVALID, "Only image files are allowed")
	}

	return &Image{
		Filename:    filename,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
		Data:        buf.Bytes(),
	}, nil
}

func tooLarge(filename string, maxSize int64) error {
	return errs.Errorf(errs.EINVALID, "Image %s exceeds upload size limit of %dMB", filename, maxSize>>20)
}
