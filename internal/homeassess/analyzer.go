package homeassess

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/joelkehle/homeassess/internal/intake"
)

const tracerName = "github.com/joelkehle/homeassess/internal/homeassess"

type ImageResolver interface {
	Resolve(ctx context.Context, refs []intake.ImageRef) ([]InlineImage, error)
}

// Analyzer runs one assessment: image resolution, prompt assembly, the model
// call and enrichment of the reply.
type Analyzer struct {
	gateway Gateway
	images  ImageResolver
	tracer  trace.Tracer
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyzer builds an Analyzer. A nil gateway is allowed; every call then
// fails with ErrGatewayNotConfigured.
func NewAnalyzer(gateway Gateway, images ImageResolver, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if images == nil {
		images = NewImageFetcher(0, logger)
	}
	return &Analyzer{
		gateway: gateway,
		images:  images,
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
		now:     time.Now,
	}
}

func (a *Analyzer) Configured() bool {
	return a.gateway != nil
}

func (a *Analyzer) Analyze(ctx context.Context, in intake.AssessmentInput) (AssessmentOutput, error) {
	if a.gateway == nil {
		return AssessmentOutput{}, ErrGatewayNotConfigured
	}
	if len(in.Images) == 0 {
		return AssessmentOutput{}, intake.ErrNoImages
	}
	ctx, span := a.tracer.Start(ctx, "homeassess.Analyze", trace.WithAttributes(
		attribute.Int("assessment.images", len(in.Images)),
		attribute.String("assessment.program", string(in.AssessmentContext.ProgramType)),
	))
	defer span.End()

	out, err := a.analyze(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Error("assessment failed", zap.Int("images", len(in.Images)), zap.Error(err))
		return AssessmentOutput{}, err
	}
	span.SetAttributes(
		attribute.Int("assessment.hazards", len(out.DetectedHazards)),
		attribute.Int("assessment.recommendations", len(out.Recommendations)),
	)
	a.logger.Info("assessment complete",
		zap.Int("images", len(in.Images)),
		zap.Int("hazards", len(out.DetectedHazards)),
		zap.Int("recommendations", len(out.Recommendations)),
		zap.Float64("safety_score", out.Summary.OverallSafetyScore),
	)
	return out, nil
}

func (a *Analyzer) analyze(ctx context.Context, in intake.AssessmentInput) (AssessmentOutput, error) {
	imgCtx, span := a.tracer.Start(ctx, "homeassess.ResolveImages")
	images, err := a.images.Resolve(imgCtx, in.Images)
	span.End()
	if err != nil {
		return AssessmentOutput{}, fmt.Errorf("resolve images: %w", err)
	}

	genCtx, span := a.tracer.Start(ctx, "homeassess.Generate")
	text, err := a.gateway.Generate(genCtx, GenerateRequest{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(in),
		Images:      images,
		Schema:      SchemaJSON(),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	span.End()
	if err != nil {
		return AssessmentOutput{}, fmt.Errorf("analyze images: %w", err)
	}

	raw, err := ParseRawOutput([]byte(text))
	if err != nil {
		return AssessmentOutput{}, fmt.Errorf("analyze images: %w", &GatewayError{Op: "parse", Class: FailureParse, Err: err})
	}
	return Enrich(raw, in), nil
}

type Metadata struct {
	AssessmentID         string    `json:"assessmentId"`
	ProcessingTimeMs     int64     `json:"processingTimeMs"`
	ImageCount           int       `json:"imageCount"`
	HazardsFound         int       `json:"hazardsFound"`
	RecommendationsCount int       `json:"recommendationsCount"`
	EstimatedCost        CostRange `json:"estimatedCost"`
	TotalCost            float64   `json:"totalCost"`
	WithinBudget         bool      `json:"withinBudget"`
}

type CompleteResult struct {
	Assessment AssessmentOutput
	Costs      CostSummary
	Metadata   Metadata
}

// Complete analyzes the input and attaches run metadata.
func (a *Analyzer) Complete(ctx context.Context, in intake.AssessmentInput) (CompleteResult, error) {
	start := a.now()
	out, err := a.Analyze(ctx, in)
	if err != nil {
		return CompleteResult{}, err
	}
	costs := CostBreakdown(out, BudgetCap(in))
	return CompleteResult{
		Assessment: out,
		Costs:      costs,
		Metadata: Metadata{
			AssessmentID:         "assess-" + uuid.NewString(),
			ProcessingTimeMs:     a.now().Sub(start).Milliseconds(),
			ImageCount:           len(in.Images),
			HazardsFound:         len(out.DetectedHazards),
			RecommendationsCount: len(out.Recommendations),
			EstimatedCost:        out.Summary.EstimatedTotalCost,
			TotalCost:            costs.Total,
			WithinBudget:         costs.WithinBudget,
		},
	}, nil
}
