package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screening-agent/internal/config"
	"alfredoptarigan/cv-screening-agent/internal/logger"
	"alfredoptarigan/cv-screening-agent/internal/metrics"
	"alfredoptarigan/cv-screening-agent/internal/models"
)

// GenericFailureMessage is the only text a caller sees for a ServiceError.
const GenericFailureMessage = "An unexpected error occurred while processing the CV"

type EvaluatorService interface {
	// Evaluate scores already extracted CV text against the rubric.
	Evaluate(ctx context.Context, cvText, filename string) (*models.Scorecard, error)
	// EvaluateDocument validates and extracts a PDF, then evaluates its text.
	EvaluateDocument(ctx context.Context, data []byte, filename string) (*models.Scorecard, error)
	HealthCheck() bool
}

type evaluatorService struct {
	pdfParser       PDFParserService
	promptBuilder   *PromptBuilder
	responseParser  *ResponseParser
	client          ModelClient
	modelID         string
	maxOutputTokens int32
	log             *zap.Logger
}

func NewEvaluatorService(
	cfg *config.Config,
	rubric *models.Rubric,
	client ModelClient,
	pdfParser PDFParserService,
	log *zap.Logger,
) (EvaluatorService, error) {
	parser, err := NewResponseParser(rubric, cfg.Rubric.StrictStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to build response parser: %w", err)
	}

	return &evaluatorService{
		pdfParser:       pdfParser,
		promptBuilder:   NewPromptBuilder(rubric),
		responseParser:  parser,
		client:          client,
		modelID:         cfg.Model.Name,
		maxOutputTokens: cfg.Model.MaxOutputTokens,
		log:             logger.WithModel(log, client.Provider(), cfg.Model.Name),
	}, nil
}

func (e *evaluatorService) HealthCheck() bool {
	return e.client.Configured()
}

func (e *evaluatorService) Evaluate(ctx context.Context, cvText, filename string) (card *models.Scorecard, err error) {
	defer e.finish(filename, &card, &err)

	return e.evaluate(ctx, cvText, filename)
}

func (e *evaluatorService) EvaluateDocument(ctx context.Context, data []byte, filename string) (card *models.Scorecard, err error) {
	defer e.finish(filename, &card, &err)

	if ok, reason := e.pdfParser.Validate(data); !ok {
		msg := "Invalid PDF file"
		if reason == ReasonNoPages {
			msg = "PDF has no pages"
		}
		return nil, newError(KindInvalidInput, msg, fmt.Errorf("pdf validation failed: %s", reason))
	}

	content, err := e.pdfParser.ExtractTextWithMetaData(data)
	if err != nil {
		return nil, err
	}

	metrics.PDFPagesExtracted.Observe(float64(content.PageCount))
	e.log.Info("extracted CV text",
		zap.String(logger.FieldFilename, filename),
		zap.Int("pages", content.PageCount),
		zap.Int("pages_with_text", content.PagesWithText),
		zap.Int("characters", len(content.Text)),
	)

	return e.evaluate(ctx, content.Text, filename)
}

func (e *evaluatorService) evaluate(ctx context.Context, cvText, filename string) (*models.Scorecard, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, newError(KindInvalidInput, "CV text is empty", nil)
	}

	prompt := e.promptBuilder.Build(cvText, filename)
	e.log.Debug("sending prompt",
		zap.String(logger.FieldFilename, filename),
		zap.String("user", logger.TruncateForLog(prompt.User, 300)),
	)

	raw, err := e.client.Complete(ctx, prompt, e.modelID, e.maxOutputTokens)
	if err != nil {
		return nil, err
	}

	return e.responseParser.Parse(raw)
}

// finish recovers panics, translates the failure for callers and records the outcome.
func (e *evaluatorService) finish(filename string, card **models.Scorecard, err *error) {
	if rec := recover(); rec != nil {
		*card = nil
		*err = newError(KindServiceError, GenericFailureMessage, fmt.Errorf("panic during evaluation: %v", rec))
	}

	if *err == nil {
		metrics.EvaluationsTotal.WithLabelValues(string((*card).Status)).Inc()
		e.log.Info("CV evaluated",
			zap.String(logger.FieldFilename, filename),
			zap.String("status", string((*card).Status)),
			zap.Int("match_score", (*card).MatchScore),
		)
		return
	}

	kind := KindOf(*err)
	metrics.EvaluationsTotal.WithLabelValues(string(kind)).Inc()
	*err = translate(*err)

	if KindOf(*err) == KindServiceError {
		e.log.Error("CV evaluation failed",
			zap.String(logger.FieldFilename, filename),
			zap.String("kind", string(kind)),
			zap.Error(*err),
		)
		return
	}
	e.log.Info("CV rejected",
		zap.String(logger.FieldFilename, filename),
		zap.String("kind", string(kind)),
		zap.String("reason", MessageOf(*err)),
	)
}

// translate collapses internal failure kinds into the two kinds callers see.
// The underlying error stays in the chain for logging.
func translate(err error) error {
	switch KindOf(err) {
	case KindInvalidInput:
		return err
	case KindUnprocessable:
		return newError(KindInvalidInput, MessageOf(err), err)
	default:
		return newError(KindServiceError, GenericFailureMessage, err)
	}
}
