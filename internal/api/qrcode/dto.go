package qrcode

import "QRDetect/pkg/geometry"

type Base64Request struct {
	Image string `json:"image" validate:"required"`
}

// QRCodeResult is one detected code on the wire: decoded text, the four
// corner points in detector order, and their axis-aligned enclosure.
type QRCodeResult struct {
	Text   string           `json:"text"`
	Points []geometry.Point `json:"points"`
	BBox   geometry.Box     `json:"bbox"`
}

type DetectionStatistics struct {
	ImageDecodeTimeMs     float64 `json:"image_decode_time_ms"`
	DetectionTimeMs       float64 `json:"detection_time_ms"`
	TotalTimeMs           float64 `json:"total_time_ms"`
	ImageWidth            int     `json:"image_width"`
	ImageHeight           int     `json:"image_height"`
	PoolAcquisitionTimeMs float64 `json:"pool_acquisition_time_ms"`
}

// DetectionResponse is the unified pipeline result. Success is false only
// for an undecodable or empty image; a detector malfunction is reported as
// an error, never encoded here.
type DetectionResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	QRCodes    []QRCodeResult      `json:"qrcodes"`
	Count      int                 `json:"count"`
	Statistics DetectionStatistics `json:"statistics"`
}

// WebSocket envelopes. Request types are "detect" and "close"; anything
// else earns an "error" reply without closing the connection.

type WSRequest struct {
	Type  string `json:"type"`
	Image string `json:"image,omitempty"`
}

type WSResponse struct {
	Type       string               `json:"type"`
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	QRCodes    []QRCodeResult       `json:"qrcodes,omitempty"`
	Count      *int                 `json:"count,omitempty"`
	Statistics *DetectionStatistics `json:"statistics,omitempty"`
	Error      string               `json:"error,omitempty"`
}
