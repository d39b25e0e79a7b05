package opencv

import (
	"errors"
	"fmt"
	"image"

	"clearview/internal/logger"

	"gocv.io/x/gocv"
)

const maxDimension = 32768

var ErrUnsupportedFormat = errors.New("resampling supports only PNG and JPEG")

// Resampler scales encoded images with OpenCV, keeping their encoding
type Resampler struct {
	logger logger.Logger
}

func NewResampler(log logger.Logger) *Resampler {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Resampler{logger: log}
}

// Resample decodes data, scales it to width x height and encodes it again in
// the same format. Shrinking uses area interpolation, enlarging bicubic.
func (r *Resampler) Resample(data []byte, mimeType string, width, height int) ([]byte, error) {
	if err := validateDimensions(width, height, "resample"); err != nil {
		return nil, err
	}

	ext, err := fileExtFor(mimeType)
	if err != nil {
		return nil, err
	}

	src, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer src.Close()

	if src.Empty() {
		return nil, errors.New("decode image: empty Mat")
	}

	interp := gocv.InterpolationCubic
	if width*height < src.Cols()*src.Rows() {
		interp = gocv.InterpolationArea
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, interp)

	buf, err := gocv.IMEncode(ext, dst)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	out := append([]byte(nil), buf.GetBytes()...)

	r.logger.Debug("Resampler", "image resampled", map[string]interface{}{
		"from":   fmt.Sprintf("%dx%d", src.Cols(), src.Rows()),
		"to":     fmt.Sprintf("%dx%d", width, height),
		"format": string(ext),
	})
	return out, nil
}

func fileExtFor(mimeType string) (gocv.FileExt, error) {
	switch mimeType {
	case "image/png":
		return gocv.PNGFileExt, nil
	case "image/jpeg", "image/jpg":
		return gocv.JPEGFileExt, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

func validateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}
	return nil
}
