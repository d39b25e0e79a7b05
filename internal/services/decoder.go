package services

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"clearview/internal/models"

	_ "golang.org/x/image/webp"
)

// MaxUploadBytes bounds how much of a single upload is read into memory
const MaxUploadBytes = 32 << 20

var (
	ErrEmptyImage       = errors.New("image file is empty")
	ErrImageTooLarge    = fmt.Errorf("image exceeds %d MiB", MaxUploadBytes>>20)
	ErrUnsupportedImage = errors.New("unsupported image encoding")
)

// ImageDecoder turns an uploaded file into the SourceImage the workflow uses.
// It fails only when the file cannot be read.
type ImageDecoder interface {
	Decode(file models.FileInput) (*models.SourceImage, error)
}

type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// IsImageType reports whether a declared content type is an image type
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

func (d *Decoder) Decode(file models.FileInput) (*models.SourceImage, error) {
	if file.Reader == nil {
		return nil, fmt.Errorf("read %s: no data stream", file.Name)
	}

	data, err := io.ReadAll(io.LimitReader(bufio.NewReader(file.Reader), MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrImageTooLarge
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	src := &models.SourceImage{
		Name:         file.Name,
		RawBytes:     data,
		EncodedBytes: encoded,
		MimeType:     file.MimeType,
		DisplayURL:   models.BuildDataURL(file.MimeType, encoded),
	}

	// Formats without a local decoder (HEIC, BMP, TIFF) are still sent to
	// the editor; their size stays 0x0.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		src.Width = cfg.Width
		src.Height = cfg.Height
	}
	return src, nil
}

// DecodeDataURL renders a data URL into an image for display
func DecodeDataURL(url string) (image.Image, error) {
	_, data, err := models.ParseDataURL(url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}
