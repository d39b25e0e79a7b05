package services

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"clearview/internal/logger"
	"clearview/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

// Resampler scales encoded image bytes to the given pixel size
type Resampler interface {
	Resample(data []byte, mimeType string, width, height int) ([]byte, error)
}

// Downloader writes a result image to a user-chosen destination
type Downloader struct {
	resampler       Resampler
	matchSourceSize bool
	logger          logger.Logger
	now             func() time.Time
}

func NewDownloader(resampler Resampler, matchSourceSize bool, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Downloader{
		resampler:       resampler,
		matchSourceSize: matchSourceSize,
		logger:          log,
		now:             time.Now,
	}
}

// Save writes the image behind resultURL to w. When enabled, a result whose
// dimensions differ from source is scaled back to the source size first.
func (d *Downloader) Save(w io.Writer, resultURL string, source *models.SourceImage) error {
	_, data, err := models.ParseDataURL(resultURL)
	if err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	data = d.matchSize(data, source)

	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	d.logger.Info("Downloader", "result saved", map[string]interface{}{
		"bytes":  n,
		"format": mimetype.Detect(data).String(),
	})
	return nil
}

func (d *Downloader) matchSize(data []byte, source *models.SourceImage) []byte {
	if !d.matchSourceSize || d.resampler == nil || source == nil || source.Width <= 0 || source.Height <= 0 {
		return data
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (cfg.Width == source.Width && cfg.Height == source.Height) {
		return data
	}

	resized, err := d.resampler.Resample(data, mimetype.Detect(data).String(), source.Width, source.Height)
	if err != nil {
		d.logger.Warning("Downloader", "resampling failed, saving model output as is", map[string]interface{}{
			"error":  err.Error(),
			"width":  cfg.Width,
			"height": cfg.Height,
		})
		return data
	}

	d.logger.Debug("Downloader", "result resampled to source size", map[string]interface{}{
		"from": fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"to":   fmt.Sprintf("%dx%d", source.Width, source.Height),
	})
	return resized
}

// SuggestedFilename names the download after the detected result format
func (d *Downloader) SuggestedFilename(resultURL string) string {
	ext := ".png"
	if _, data, err := models.ParseDataURL(resultURL); err == nil {
		if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
			ext = detected.Extension()
		}
	}
	return fmt.Sprintf("clearview-edited-%d%s", d.now().UnixMilli(), ext)
}
