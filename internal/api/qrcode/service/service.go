package qrcodeService

import (
	"QRDetect/internal/api/qrcode"
	"QRDetect/pkg/pool"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IQRCodeService interface {
	DetectFromBytes(ctx context.Context, data []byte) (*qrcode.DetectionResponse, error)
	DetectFromBase64(ctx context.Context, encoded string) (*qrcode.DetectionResponse, error)
	PoolStats() pool.Stats
}

type qrCodeService struct {
	log  *logrus.Logger
	pool *pool.DetectorPool
}

func NewQRCodeService(
	log *logrus.Logger,
	detectorPool *pool.DetectorPool,
) IQRCodeService {
	return &qrCodeService{
		log:  log,
		pool: detectorPool,
	}
}

func (s *qrCodeService) PoolStats() pool.Stats {
	return s.pool.Stats()
}
