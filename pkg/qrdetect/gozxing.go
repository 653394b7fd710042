//go:build !gocv
// +build !gocv

package qrdetect

import (
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"

	"QRDetect/internal/entity"
)

// gozxingDetector is the default, pure-Go backend. Builds tagged `gocv`
// replace it with the OpenCV WeChatQRCode backend.
type gozxingDetector struct {
	reader multi.MultipleBarcodeReader
}

// New constructs a detector instance for the active backend.
func New() (Detector, error) {
	return &gozxingDetector{
		reader: multiqr.NewQRCodeMultiReader(),
	}, nil
}

// BackendName identifies the compiled-in detector backend.
func BackendName() string {
	return "gozxing"
}

// CheckModelFiles is a no-op for the pure-Go backend, which carries no
// model weights.
func CheckModelFiles() error {
	return nil
}

func (d *gozxingDetector) Detect(img image.Image) ([]entity.RawDetection, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, err
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	results, err := d.reader.DecodeMultiple(bmp, hints)
	if err != nil {
		var notFound gozxing.NotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	detections := make([]entity.RawDetection, 0, len(results))
	for _, result := range results {
		points := result.GetResultPoints()

		// zxing reports finder-pattern centers (3 of them, 4 when an
		// alignment pattern was matched), not the symbol's corners. The
		// geometry layer decides whether that is usable as a 4x2 block.
		matrix := entity.PointMatrix{
			Rows: len(points),
			Cols: 2,
			Data: make([]float32, 0, len(points)*2),
		}
		for _, p := range points {
			matrix.Data = append(matrix.Data, float32(p.GetX()), float32(p.GetY()))
		}

		detections = append(detections, entity.RawDetection{
			Text:   result.GetText(),
			Points: matrix,
		})
	}

	return detections, nil
}

func (d *gozxingDetector) Close() error {
	return nil
}
