package imagecodec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	img, err := Decode(encodePNG(t, 300, 200))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	w, h := Size(img)
	if w != 300 || h != 200 {
		t.Errorf("size = %dx%d, want 300x200", w, h)
	}
}

func TestDecode_JPEG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("jpeg encode failed: %v", err)
	}

	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if w, h := Size(img); w != 64 || h != 48 {
		t.Errorf("size = %dx%d, want 64x48", w, h)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Decode(nil) error = %v, want ErrEmptyImage", err)
	}
	if _, err := Decode([]byte{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Decode(empty) error = %v, want ErrEmptyImage", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("Decode(garbage) succeeded, want error")
	}
}
