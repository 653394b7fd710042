package qrcode

import (
	"QRDetect/pkg/response"
	"net/http"
)

var (
	ErrMissingImageField  = response.NewError(http.StatusBadRequest, "no image or file field in multipart form")
	ErrInvalidMultipart   = response.NewError(http.StatusBadRequest, "invalid multipart form")
	ErrInvalidBase64      = response.NewError(http.StatusBadRequest, "invalid base64 image data")
	ErrInvalidRequestBody = response.NewError(http.StatusBadRequest, "invalid request body")
	ErrDetectionFailed    = response.NewError(http.StatusInternalServerError, "QR code detection failed")
)
