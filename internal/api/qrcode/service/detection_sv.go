package qrcodeService

import (
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/net/context"

	"QRDetect/internal/api/qrcode"
	contextPkg "QRDetect/pkg/context"
	"QRDetect/pkg/geometry"
	"QRDetect/pkg/imagecodec"
	"QRDetect/pkg/log"
)

// DetectFromBytes runs the full pipeline on an already-raw image buffer:
// decode, borrow a detector from the pool, detect, extract geometry,
// assemble. The detector lease is released on every exit path.
func (s *qrCodeService) DetectFromBytes(ctx context.Context, data []byte) (*qrcode.DetectionResponse, error) {
	start := time.Now()
	return s.detect(ctx, data, start, start)
}

// DetectFromBase64 decodes standard base64 first, counting that work into
// the image-decode stage, then runs the same pipeline. Malformed base64 is
// a request error, not a soft detection miss.
func (s *qrCodeService) DetectFromBase64(ctx context.Context, encoded string) (*qrcode.DetectionResponse, error) {
	start := time.Now()

	decodeStart := time.Now()
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to decode base64 image data")
		return nil, qrcode.ErrInvalidBase64
	}

	return s.detect(ctx, data, start, decodeStart)
}

func (s *qrCodeService) detect(ctx context.Context, data []byte, start, decodeStart time.Time) (*qrcode.DetectionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	img, err := imagecodec.Decode(data)
	decodeMs := msSince(decodeStart)

	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Received empty or invalid image")
		return softFailure(decodeMs, msSince(start)), nil
	}

	width, height := imagecodec.Size(img)
	if width == 0 || height == 0 {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
		}).Warn("Decoded image has no pixels")
		return softFailure(decodeMs, msSince(start)), nil
	}

	poolStart := time.Now()
	lease := s.pool.Acquire()
	defer lease.Release()
	poolMs := msSince(poolStart)

	detectStart := time.Now()
	raws, err := lease.Detector().Detect(img)
	detectMs := msSince(detectStart)

	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("QR code detection failed")
		return nil, qrcode.ErrDetectionFailed
	}

	codes := make([]qrcode.QRCodeResult, 0, len(raws))
	for _, raw := range raws {
		points := geometry.ExtractCorners(raw.Points, width, height)
		if len(points) == 0 {
			// the fallback guarantees four points; never emit an empty polygon
			continue
		}
		codes = append(codes, qrcode.QRCodeResult{
			Text:   raw.Text,
			Points: points,
			BBox:   geometry.Enclose(points),
		})
	}

	totalMs := msSince(start)

	s.log.WithFields(log.Fields{
		"request_id":   requestID,
		"count":        len(codes),
		"decode_ms":    decodeMs,
		"pool_ms":      poolMs,
		"detection_ms": detectMs,
		"total_ms":     totalMs,
		"image_size":   fmt.Sprintf("%dx%d", width, height),
	}).Info("QR detection completed")

	return &qrcode.DetectionResponse{
		Success: true,
		Message: fmt.Sprintf("Detected %d QR code(s)", len(codes)),
		QRCodes: codes,
		Count:   len(codes),
		Statistics: qrcode.DetectionStatistics{
			ImageDecodeTimeMs:     decodeMs,
			DetectionTimeMs:       detectMs,
			TotalTimeMs:           totalMs,
			ImageWidth:            width,
			ImageHeight:           height,
			PoolAcquisitionTimeMs: poolMs,
		},
	}, nil
}

func softFailure(decodeMs, totalMs float64) *qrcode.DetectionResponse {
	return &qrcode.DetectionResponse{
		Success:    false,
		Message:    "Invalid image format",
		QRCodes:    []qrcode.QRCodeResult{},
		Count:      0,
		Statistics: qrcode.DetectionStatistics{ImageDecodeTimeMs: decodeMs, TotalTimeMs: totalMs},
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
