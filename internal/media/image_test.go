package media

import (
	"bytes"
	"testing"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestReadImageDetectsPNG(t *testing.T) {
	img, err := readImage(bytes.NewReader(pngPixel), "pixel.png", DefaultMaxUploadSize)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.Equal(t, pngPixel, img.Data)
}

func TestReadImageRejectsNonImages(t *testing.T) {
	_, err := readImage(bytes.NewReader([]byte("just some text")), "notes.png", DefaultMaxUploadSize)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.EINVALID))
	assert.Equal(t, "Only image files are allowed", errs.ErrorMessage(err))
}

func TestReadImageRejectsOversized(t *testing.T) {
	_, err := readImage(bytes.NewReader(pngPixel), "pixel.png", 16)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.EINVALID))
}

func TestReadImageRejectsEmpty(t *testing.T) {
	_, err := readImage(bytes.NewReader(nil), "empty.png", DefaultMaxUploadSize)
	assert.True(t, errs.Is(err, errs.EINVALID))
}
