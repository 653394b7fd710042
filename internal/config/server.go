package config

import (
	qrcodeHandler "QRDetect/internal/api/qrcode/handler"
	qrcodeService "QRDetect/internal/api/qrcode/service"
	"QRDetect/internal/middleware"
	"QRDetect/pkg/pool"
	"QRDetect/pkg/qrdetect"
	"QRDetect/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	detectorPool  *pool.DetectorPool
	qrCodeService qrcodeService.IQRCodeService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.detectorPool == nil {
		return nil, fmt.Errorf("detector pool is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithDetectorPool checks the detector backend's model files, reads the
// pool bounds from the environment, and pre-warms the pool. Any failure
// here aborts startup: the service must not come up without detectors.
func WithDetectorPool() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the detector pool")
		}

		if err := qrdetect.CheckModelFiles(); err != nil {
			return fmt.Errorf("detector model check failed: %w", err)
		}

		cfg := NewPoolConfig()
		s.log.Infof("Initializing QR detector pool (backend: %s, initial: %d, max: %d)",
			qrdetect.BackendName(), cfg.InitialSize, cfg.MaxSize)

		detectorPool, err := pool.New(s.log, cfg, qrdetect.New)
		if err != nil {
			return fmt.Errorf("failed to warm up detector pool: %w", err)
		}

		s.detectorPool = detectorPool
		s.log.Info("QR detector pool initialized successfully")
		return nil
	}
}

func (s *Server) RegisterHandler() {
	qrCodeServices := qrcodeService.NewQRCodeService(s.log, s.detectorPool)
	qrCodeHandlers := qrcodeHandler.New(s.log, s.validator, s.middleware, qrCodeServices, s.utils)

	s.qrCodeService = qrCodeServices

	s.setupHealthCheck()
	s.handlers = append(s.handlers, qrCodeHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()
	s.detectorPool.Close()
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		response := fiber.Map{
			"status":     "healthy",
			"service":    "qrcode-detector",
			"version":    "0.1.0",
			"pool_stats": s.qrCodeService.PoolStats(),
		}

		if ctx.QueryBool("verbose") {
			response["detector_backend"] = qrdetect.BackendName()
			response["features"] = fiber.Map{
				"file_upload":  true,
				"base64_input": true,
				"websocket":    true,
				"object_pool":  true,
			}
		}

		return ctx.JSON(response)
	})
}
