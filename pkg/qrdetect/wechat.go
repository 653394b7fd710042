//go:build gocv
// +build gocv

package qrdetect

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	"QRDetect/internal/entity"
)

// wechatDetector wraps the OpenCV WeChatQRCode model. It needs the four
// model files (detect/sr prototxt + caffemodel) under QR_MODEL_DIR.
type wechatDetector struct {
	impl *contrib.WeChatQRCode
}

func modelDir() string {
	dir := os.Getenv("QR_MODEL_DIR")
	if dir == "" {
		dir = "models"
	}
	return dir
}

var modelFiles = []string{
	"detect.prototxt",
	"detect.caffemodel",
	"sr.prototxt",
	"sr.caffemodel",
}

// New constructs a detector instance for the active backend.
func New() (Detector, error) {
	if err := CheckModelFiles(); err != nil {
		return nil, err
	}

	dir := modelDir()
	impl := contrib.NewWeChatQRCode(
		filepath.Join(dir, "detect.prototxt"),
		filepath.Join(dir, "detect.caffemodel"),
		filepath.Join(dir, "sr.prototxt"),
		filepath.Join(dir, "sr.caffemodel"),
	)

	return &wechatDetector{impl: impl}, nil
}

// BackendName identifies the compiled-in detector backend.
func BackendName() string {
	return "wechat_qrcode"
}

// CheckModelFiles verifies the WeChatQRCode model weights exist before the
// pool warms up, so a misconfigured deployment fails at startup rather than
// on the first request.
func CheckModelFiles() error {
	dir := modelDir()
	for _, name := range modelFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("WeChatQRCode model file not found: %s", path)
		}
	}
	return nil
}

func (d *wechatDetector) Detect(img image.Image) ([]entity.RawDetection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer mat.Close()

	var pointMats []gocv.Mat
	texts := d.impl.DetectAndDecode(mat, &pointMats)
	defer func() {
		for _, pm := range pointMats {
			pm.Close()
		}
	}()

	detections := make([]entity.RawDetection, 0, len(texts))
	for i, text := range texts {
		var matrix entity.PointMatrix
		if i < len(pointMats) {
			pm := pointMats[i]
			matrix = entity.PointMatrix{
				Rows: pm.Rows(),
				Cols: pm.Cols(),
				Data: make([]float32, 0, pm.Rows()*pm.Cols()),
			}
			for r := 0; r < pm.Rows(); r++ {
				for c := 0; c < pm.Cols(); c++ {
					matrix.Data = append(matrix.Data, pm.GetFloatAt(r, c))
				}
			}
		}

		detections = append(detections, entity.RawDetection{
			Text:   text,
			Points: matrix,
		})
	}

	return detections, nil
}

func (d *wechatDetector) Close() error {
	return d.impl.Close()
}
