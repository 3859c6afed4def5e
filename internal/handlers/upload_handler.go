package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screening-agent/internal/logger"
	"alfredoptarigan/cv-screening-agent/internal/middleware"
	"alfredoptarigan/cv-screening-agent/internal/models"
	"alfredoptarigan/cv-screening-agent/internal/services"
)

const (
	uploadField           = "file"
	evaluationSuccessText = "CV evaluated successfully"
)

type UploadHandler struct {
	evaluator         services.EvaluatorService
	maxFileSize       int64
	allowedExtensions []string
	log               *zap.Logger
}

func NewUploadHandler(
	evaluator services.EvaluatorService,
	maxFileSize int64,
	allowedExtensions []string,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		evaluator:         evaluator,
		maxFileSize:       maxFileSize,
		allowedExtensions: allowedExtensions,
		log:               logger.OrNop(log),
	}
}

func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile(uploadField)
	if err != nil {
		return badRequest(c, "No file uploaded. Please upload a PDF as the 'file' field.")
	}

	if strings.TrimSpace(file.Filename) == "" {
		return badRequest(c, "No filename provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(h.allowedExtensions, ext) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Success: false,
			Error:   "Invalid file type. Only PDF files are accepted.",
			Detail:  "Allowed extensions: " + strings.Join(h.allowedExtensions, ", "),
		})
	}

	if file.Size > h.maxFileSize {
		return badRequest(c, h.tooLargeMessage())
	}

	f, err := file.Open()
	if err != nil {
		return h.serverError(c, file.Filename, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
	if err != nil {
		return h.serverError(c, file.Filename, fmt.Errorf("failed to read uploaded file: %w", err))
	}
	if int64(len(data)) > h.maxFileSize {
		return badRequest(c, h.tooLargeMessage())
	}

	h.log.Info("processing CV",
		zap.String(logger.FieldRequestID, middleware.GetRequestID(c)),
		zap.String(logger.FieldFilename, file.Filename),
		zap.Int("bytes", len(data)),
	)

	card, err := h.evaluator.EvaluateDocument(c.UserContext(), data, file.Filename)
	if err != nil {
		if services.KindOf(err) == services.KindInvalidInput {
			return badRequest(c, services.MessageOf(err))
		}
		return h.serverError(c, file.Filename, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.UploadResponse{
		Success:    true,
		Message:    evaluationSuccessText,
		Evaluation: card,
	})
}

func (h *UploadHandler) tooLargeMessage() string {
	return tooLargeMessage(h.maxFileSize)
}

func (h *UploadHandler) serverError(c *fiber.Ctx, filename string, err error) error {
	h.log.Error("CV upload failed",
		zap.String(logger.FieldRequestID, middleware.GetRequestID(c)),
		zap.String(logger.FieldFilename, filename),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Success: false,
		Error:   services.GenericFailureMessage,
	})
}

func tooLargeMessage(maxFileSize int64) string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", maxFileSize/(1024*1024))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Success: false,
		Error:   message,
	})
}
