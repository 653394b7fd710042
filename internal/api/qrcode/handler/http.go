package qrcodeHandler

import (
	qrcodeService "QRDetect/internal/api/qrcode/service"
	"QRDetect/internal/middleware"
	"QRDetect/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type QRCodeHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	qrCodeService qrcodeService.IQRCodeService
	utils         utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	qs qrcodeService.IQRCodeService,
	utils utils.IUtils,
) *QRCodeHandler {
	return &QRCodeHandler{
		log:           log,
		validator:     validator,
		middleware:    middleware,
		qrCodeService: qs,
		utils:         utils,
	}
}

func (h *QRCodeHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	detect := srv.Group("/detect")
	detect.Use(h.middleware.NewRateLimiter)
	detect.Post("/file", h.DetectFromFile)
	detect.Post("/base64", h.DetectFromBase64)

	srv.Use("/ws", wsMiddleware)
	srv.Get("/ws", websocket.New(h.handleWebSocket))
}
