//go:build !gocv
// +build !gocv

package qrdetect

import (
	"image"
	"image/color"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

func renderQR(t *testing.T, text string, size int) image.Image {
	t.Helper()

	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		t.Fatalf("failed to encode QR fixture: %v", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, matrix.GetWidth(), matrix.GetHeight()))
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			if matrix.Get(x, y) {
				img.Set(x, y, color.NRGBA{A: 255})
			} else {
				img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

func TestGozxingDetector_RoundTrip(t *testing.T) {
	det, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer det.Close()

	img := renderQR(t, "https://example.com/ticket/42", 300)

	detections, err := det.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}

	d := detections[0]
	if d.Text != "https://example.com/ticket/42" {
		t.Errorf("text = %q, want %q", d.Text, "https://example.com/ticket/42")
	}
	if d.Points.Rows < 3 || d.Points.Cols != 2 {
		t.Errorf("unexpected point shape: %dx%d", d.Points.Rows, d.Points.Cols)
	}
	if d.Points.Total() != d.Points.Rows*2 {
		t.Errorf("point data has %d entries, want %d", d.Points.Total(), d.Points.Rows*2)
	}
}

func TestGozxingDetector_NoCode(t *testing.T) {
	det, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer det.Close()

	blank := image.NewNRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			blank.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	detections, err := det.Detect(blank)
	if err != nil {
		t.Fatalf("Detect on blank image failed: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("got %d detections on blank image, want 0", len(detections))
	}
}

func TestBackendName(t *testing.T) {
	if BackendName() != "gozxing" {
		t.Errorf("BackendName() = %q, want %q", BackendName(), "gozxing")
	}
	if err := CheckModelFiles(); err != nil {
		t.Errorf("CheckModelFiles() = %v, want nil", err)
	}
}
