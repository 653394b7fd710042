package qrcodeHandler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"

	"QRDetect/internal/api/qrcode"
	contextPkg "QRDetect/pkg/context"
)

// handleWebSocket runs one detection session per connection. The loop
// processes a message fully before reading the next, so replies always
// leave in request order. Detection failures are reported as error
// envelopes and the connection stays open; only a transport error or a
// close request ends the loop.
func (h *QRCodeHandler) handleWebSocket(c *websocket.Conn) {
	h.log.Info("QR detection WebSocket client connected")
	defer h.log.Info("QR detection WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	connID, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		connID = "unknown"
	}
	ctx := contextPkg.WithRequestID(context.Background(), connID)

	welcome := qrcode.WSResponse{
		Type:    "connected",
		Success: true,
		Message: "WebSocket connected successfully",
	}
	if err := c.WriteJSON(welcome); err != nil {
		h.log.Errorf("Failed to send welcome message: %v", err)
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.log.Errorf("QR WebSocket error: %v", err)
			} else {
				h.log.Info("QR WebSocket connection closed")
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			closeRequested, err := h.handleTextMessage(ctx, c, message)
			if err != nil {
				h.log.Errorf("Error writing WebSocket response: %v", err)
				return
			}
			if closeRequested {
				h.log.Info("QR WebSocket connection closed by client request")
				return
			}
		case websocket.BinaryMessage:
			h.log.Debugf("Received binary frame of %d bytes", len(message))
			if err := h.handleBinaryMessage(ctx, c, message); err != nil {
				h.log.Errorf("Error writing WebSocket response: %v", err)
				return
			}
		}
	}
}

func (h *QRCodeHandler) handleTextMessage(ctx context.Context, c *websocket.Conn, raw []byte) (bool, error) {
	var req qrcode.WSRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return false, c.WriteJSON(errorEnvelope("Invalid request format", "parse error: "+err.Error()))
	}

	switch req.Type {
	case "detect":
		if req.Image == "" {
			return false, c.WriteJSON(errorEnvelope("Missing image data", "no image field in request"))
		}

		result, err := h.qrCodeService.DetectFromBase64(ctx, req.Image)
		if err != nil {
			return false, c.WriteJSON(errorEnvelope("Detection failed", err.Error()))
		}
		return false, c.WriteJSON(detectionEnvelope(result))

	case "close":
		return true, c.WriteJSON(qrcode.WSResponse{
			Type:    "close",
			Success: true,
			Message: "Connection closing",
		})

	default:
		return false, c.WriteJSON(errorEnvelope(
			fmt.Sprintf("Unknown message type: %s", req.Type),
			"unsupported message type",
		))
	}
}

func (h *QRCodeHandler) handleBinaryMessage(ctx context.Context, c *websocket.Conn, frame []byte) error {
	result, err := h.qrCodeService.DetectFromBytes(ctx, frame)
	if err != nil {
		return c.WriteJSON(errorEnvelope("Binary detection failed", err.Error()))
	}
	return c.WriteJSON(detectionEnvelope(result))
}

func detectionEnvelope(result *qrcode.DetectionResponse) qrcode.WSResponse {
	count := result.Count
	stats := result.Statistics
	return qrcode.WSResponse{
		Type:       "detection_result",
		Success:    result.Success,
		Message:    result.Message,
		QRCodes:    result.QRCodes,
		Count:      &count,
		Statistics: &stats,
	}
}

func errorEnvelope(message, detail string) qrcode.WSResponse {
	return qrcode.WSResponse{
		Type:    "error",
		Success: false,
		Message: message,
		Error:   detail,
	}
}
