package qrdetect

import (
	"image"

	"QRDetect/internal/entity"
)

// Detector locates and decodes QR codes in a raster image. Implementations
// are stateful and expensive to construct; a single instance must never be
// used by two callers concurrently. Share instances through pool.DetectorPool.
//
// An image with no readable QR code is not an error: Detect returns an
// empty slice. Errors are reserved for backend malfunction.
type Detector interface {
	Detect(img image.Image) ([]entity.RawDetection, error)
	Close() error
}
