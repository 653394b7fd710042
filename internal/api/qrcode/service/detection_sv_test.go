package qrcodeService

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"QRDetect/internal/api/qrcode"
	"QRDetect/internal/entity"
	"QRDetect/pkg/geometry"
	"QRDetect/pkg/pool"
	"QRDetect/pkg/qrdetect"
)

type stubDetector struct {
	detect func(img image.Image) ([]entity.RawDetection, error)
}

func (s *stubDetector) Detect(img image.Image) ([]entity.RawDetection, error) {
	return s.detect(img)
}

func (s *stubDetector) Close() error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newStubService(t *testing.T, detect func(img image.Image) ([]entity.RawDetection, error)) (IQRCodeService, *pool.DetectorPool) {
	t.Helper()

	factory := func() (qrdetect.Detector, error) {
		return &stubDetector{detect: detect}, nil
	}
	detectorPool, err := pool.New(testLogger(), pool.Config{InitialSize: 2, MaxSize: 4}, factory)
	if err != nil {
		t.Fatalf("pool.New: %v", err)
	}
	return NewQRCodeService(testLogger(), detectorPool), detectorPool
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png fixture: %v", err)
	}
	return buf.Bytes()
}

func blockMatrix(points ...[2]float32) entity.PointMatrix {
	data := make([]float32, 0, len(points)*2)
	for _, p := range points {
		data = append(data, p[0], p[1])
	}
	return entity.PointMatrix{Rows: len(points), Cols: 2, Data: data}
}

func TestDetectFromBytes_InvalidImage(t *testing.T) {
	svc, _ := newStubService(t, func(image.Image) ([]entity.RawDetection, error) {
		t.Fatal("detector must not run for an undecodable image")
		return nil, nil
	})

	for _, tt := range []struct {
		name string
		data []byte
	}{
		{name: "empty buffer", data: nil},
		{name: "garbage bytes", data: []byte("definitely not an image")},
	} {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.DetectFromBytes(context.Background(), tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Success {
				t.Error("expected success=false for invalid image")
			}
			if resp.Message != "Invalid image format" {
				t.Errorf("message = %q", resp.Message)
			}
			if resp.Count != 0 || len(resp.QRCodes) != 0 {
				t.Errorf("expected zero detections, got count=%d len=%d", resp.Count, len(resp.QRCodes))
			}
			if resp.QRCodes == nil {
				t.Error("qrcodes must be an empty slice, not nil")
			}
			if resp.Statistics.DetectionTimeMs != 0 || resp.Statistics.PoolAcquisitionTimeMs != 0 {
				t.Error("detection and pool stats must stay zero when the pipeline stops at decode")
			}
		})
	}
}

func TestDetectFromBytes_Success(t *testing.T) {
	raw := entity.RawDetection{
		Text:   "https://example.com/ticket/42",
		Points: blockMatrix([2]float32{10, 10}, [2]float32{290, 10}, [2]float32{290, 290}, [2]float32{10, 290}),
	}
	svc, _ := newStubService(t, func(image.Image) ([]entity.RawDetection, error) {
		return []entity.RawDetection{raw}, nil
	})

	resp, err := svc.DetectFromBytes(context.Background(), encodePNG(t, 300, 300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.Count != 1 || len(resp.QRCodes) != 1 {
		t.Fatalf("expected one detection, got count=%d len=%d", resp.Count, len(resp.QRCodes))
	}

	code := resp.QRCodes[0]
	if code.Text != raw.Text {
		t.Errorf("text = %q, want %q", code.Text, raw.Text)
	}
	if len(code.Points) != 4 {
		t.Fatalf("expected 4 corner points, got %d", len(code.Points))
	}
	if code.Points[0] != (geometry.Point{10, 10}) || code.Points[2] != (geometry.Point{290, 290}) {
		t.Errorf("unexpected corners: %v", code.Points)
	}
	if code.BBox.X != 10 || code.BBox.Y != 10 || code.BBox.Width != 280 || code.BBox.Height != 280 {
		t.Errorf("unexpected bbox: %+v", code.BBox)
	}

	stats := resp.Statistics
	if stats.ImageWidth != 300 || stats.ImageHeight != 300 {
		t.Errorf("image dimensions = %dx%d, want 300x300", stats.ImageWidth, stats.ImageHeight)
	}
	if stats.TotalTimeMs < stats.DetectionTimeMs {
		t.Errorf("total %.3fms below detection %.3fms", stats.TotalTimeMs, stats.DetectionTimeMs)
	}
}

func TestDetectFromBytes_NoDetections(t *testing.T) {
	svc, _ := newStubService(t, func(image.Image) ([]entity.RawDetection, error) {
		return nil, nil
	})

	resp, err := svc.DetectFromBytes(context.Background(), encodePNG(t, 64, 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("a clean image with no codes is still a successful detection run")
	}
	if resp.Count != 0 || len(resp.QRCodes) != 0 {
		t.Errorf("expected zero detections, got count=%d len=%d", resp.Count, len(resp.QRCodes))
	}
}

func TestDetectFromBytes_DetectorError(t *testing.T) {
	svc, detectorPool := newStubService(t, func(image.Image) ([]entity.RawDetection, error) {
		return nil, errors.New("backend exploded")
	})

	resp, err := svc.DetectFromBytes(context.Background(), encodePNG(t, 64, 64))
	if !errors.Is(err, qrcode.ErrDetectionFailed) {
		t.Fatalf("err = %v, want ErrDetectionFailed", err)
	}
	if resp != nil {
		t.Errorf("expected nil response, got %+v", resp)
	}
	if got := detectorPool.Stats().Available; got != 2 {
		t.Errorf("lease not released after detector error: available = %d, want 2", got)
	}
}

func TestDetectFromBase64(t *testing.T) {
	raw := entity.RawDetection{
		Text:   "hello",
		Points: blockMatrix([2]float32{1, 1}, [2]float32{63, 1}, [2]float32{63, 63}, [2]float32{1, 63}),
	}
	svc, _ := newStubService(t, func(image.Image) ([]entity.RawDetection, error) {
		return []entity.RawDetection{raw}, nil
	})

	t.Run("valid payload", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString(encodePNG(t, 64, 64))
		resp, err := svc.DetectFromBase64(context.Background(), encoded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.Success || resp.Count != 1 {
			t.Errorf("success=%v count=%d, want success with one detection", resp.Success, resp.Count)
		}
	})

	t.Run("malformed base64", func(t *testing.T) {
		_, err := svc.DetectFromBase64(context.Background(), "%%%not-base64%%%")
		if !errors.Is(err, qrcode.ErrInvalidBase64) {
			t.Fatalf("err = %v, want ErrInvalidBase64", err)
		}
	})

	t.Run("base64 of non-image bytes", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("plain text"))
		resp, err := svc.DetectFromBase64(context.Background(), encoded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Success {
			t.Error("expected soft failure for decodable base64 that is not an image")
		}
	})
}

func TestPoolStats(t *testing.T) {
	svc, _ := newStubService(t, func(image.Image) ([]entity.RawDetection, error) {
		return nil, nil
	})

	stats := svc.PoolStats()
	if stats.InitialSize != 2 || stats.MaxSize != 4 || stats.Available != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
