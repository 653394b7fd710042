package qrcodeHandler

import (
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"QRDetect/internal/api/qrcode"
	contextPkg "QRDetect/pkg/context"
	"QRDetect/pkg/handlerUtil"
	"QRDetect/pkg/log"
)

func (h *QRCodeHandler) DetectFromFile(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing file detection request")

	form, err := ctx.MultipartForm()
	if err != nil {
		return errHandler.Handle(ctx, requestID, qrcode.ErrInvalidMultipart, ctx.Path(), "parse_multipart")
	}

	var fileHeader *multipart.FileHeader
	for _, field := range []string{"image", "file"} {
		if files := form.File[field]; len(files) > 0 {
			fileHeader = files[0]
			break
		}
	}
	if fileHeader == nil {
		return errHandler.Handle(ctx, requestID, qrcode.ErrMissingImageField, ctx.Path(), "locate_image_field")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  fileHeader.Filename,
		"file_size":  fileHeader.Size,
	}).Debug("Processing file upload")

	if err := h.utils.ValidateImageFile(fileHeader); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	fileContent, err := fileHeader.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
	}
	defer fileContent.Close()

	data, err := io.ReadAll(fileContent)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	result, err := h.qrCodeService.DetectFromBytes(c, data)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_from_file")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"count":      result.Count,
			"success":    result.Success,
		}).Info("File detection request completed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *QRCodeHandler) DetectFromBase64(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing base64 detection request")

	var req qrcode.Base64Request
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, qrcode.ErrInvalidRequestBody, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.qrCodeService.DetectFromBase64(c, req.Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_from_base64")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"count":      result.Count,
			"success":    result.Success,
		}).Info("Base64 detection request completed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}
